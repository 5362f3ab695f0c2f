package bot

//
// For types that should be shared
//

import (
	"fmt"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/go-co-op/gocron"
	"reflect"
	"strings"
)

// Command is a parsed invocation of a CommandInfo
type Command struct {
	E      *gateway.MessageCreateEvent
	FnName string
	Name   string
	Args   []string
}

// CommandInfo is the info a command provides to register itself.
// The Name and Aliases are used to call the command via Discord.
type CommandInfo struct {
	Fn          func(Command) error
	FnName      string
	Name        string
	Description string
	Aliases     []string
	GuildOnly   bool
}

func (i CommandInfo) String() string {
	return fmt.Sprintf("[%s, %s, %s, %s, %v]", i.FnName, i.Name, i.Description, i.Aliases, i.GuildOnly)
}

func (i CommandInfo) MarkdownString() string {
	aliases := ""
	if len(i.Aliases) > 0 {
		aliases = "(" + strings.Join(i.Aliases, ", ") + ")"
	}
	description := i.Description
	if len(description) == 0 {
		description = "No Description"
	}

	return fmt.Sprintf("**%s** %s\n%s", i.Name, aliases, description)
}

// Response is a message that matched a ResponseInfo
type Response struct {
	E *gateway.MessageCreateEvent
}

// ResponseInfo is the info a response provides to register itself.
// Fn is the function that is executed to complete the Response.
// The Regexes are used to call the response via Discord.
type ResponseInfo struct {
	Fn           func(Response)
	Regexes      []string
	MatchMin     int
	LockChannels []int64
	LockUsers    []int64
}

func (i ResponseInfo) String() string {
	return fmt.Sprintf("[%p, %v, %s]", i.Fn, i.MatchMin, i.Regexes)
}

// JobInfo is a scheduled job. Fn registers the job with Scheduler, Name is used as its tag.
type JobInfo struct {
	Fn   func() (*gocron.Job, error)
	Name string
}

func (i JobInfo) String() string {
	return fmt.Sprintf("[%p, %s]", i.Fn, i.Name)
}

// HandlerInfo is a gateway event handler. FnType is the typed func signature,
// for example reflect.TypeOf(func(*gateway.GuildMemberAddEvent) {}), and Fn receives the event.
type HandlerInfo struct {
	Fn     func(interface{})
	FnName string
	FnType reflect.Type
}

func (i HandlerInfo) String() string {
	return fmt.Sprintf("[%s, %s]", i.FnName, i.FnType)
}
