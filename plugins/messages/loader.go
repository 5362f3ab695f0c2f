package messages

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const messageSuffix = "_message.txt"

// MessageLoader holds the canned messages of a directory, keyed by file name without the suffix.
// welcome_message.txt is available as "welcome".
type MessageLoader struct {
	Dir      string
	messages map[string]string
	names    []string
}

// LoadMessages reads every *_message.txt file in dir. A missing dir results in an empty loader.
func LoadMessages(dir string) (*MessageLoader, error) {
	l := &MessageLoader{Dir: dir, messages: make(map[string]string), names: make([]string, 0)}

	paths, err := filepath.Glob(filepath.Join(dir, "*"+messageSuffix))
	if err != nil {
		return l, err
	}

	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return l, err
		}

		name := strings.TrimSuffix(filepath.Base(path), messageSuffix)
		l.messages[name] = string(b)
		l.names = append(l.names, name)
	}

	sort.Strings(l.names)
	return l, nil
}

func (l *MessageLoader) Get(name string) (string, bool) {
	m, ok := l.messages[strings.ToLower(name)]
	return m, ok
}

func (l *MessageLoader) Names() []string {
	return append([]string{}, l.names...)
}
