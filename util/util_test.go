package util

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestFormattedUptime(t *testing.T) {
	since := time.Unix(1577836800, 0)
	now := time.Unix(1578007403, 0)

	assert.Equal(t, "The bot has been up for 1 days, 23 hours, 23 minutes, and 23 seconds", FormattedUptime(since, now))
	assert.Equal(t, "The bot has been up for 0 days, 0 hours, 0 minutes, and 0 seconds", FormattedUptime(now, since))
}

func TestFormattedTime(t *testing.T) {
	assert.Equal(t, "0 seconds", FormattedTime(0))
	assert.Equal(t, "1 hour, 1 minute, 1 second", FormattedTime(3661))
	assert.Equal(t, "2 hours", FormattedTime(7200))
	assert.Equal(t, "1,000 hours", FormattedTime(3600000))
}

func TestFormattedNum(t *testing.T) {
	assert.Equal(t, "999", FormattedNum(999))
	assert.Equal(t, "1,234,567", FormattedNum(1234567))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10, "..."))
	assert.Equal(t, "abcdefg...", TruncateString("abcdefghijklmnop", 10, "..."))
	assert.Equal(t, "héllo", TruncateString("héllo wörld", 5, ""))
	assert.Equal(t, "...", TruncateString("abcdef", 2, "..."))
}

func TestSliceHelpers(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, SliceUnique([]int{3, 1, 3, 2, 1}))
	assert.Equal(t, []string{"a", "c"}, SliceRemove([]string{"a", "b", "c", "b"}, "b"))
	assert.True(t, SliceContains([]int64{1, 2}, 2))
	assert.False(t, SliceContains([]int64{}, 2))

	s := []int{1, 2, 3}
	SliceReverse(s)
	assert.Equal(t, []int{3, 2, 1}, s)

	assert.True(t, SlicesCondition([]int{2, 4}, func(i int) bool { return i%2 == 0 }))
	assert.Equal(t, "b,d", SliceJoin([]string{"a", "b", "c", "d"}, ",", func(s string) *string {
		if s == "a" || s == "c" {
			return nil
		}
		return &s
	}))
}

func TestRetryFunc(t *testing.T) {
	calls := 0
	_, err := RetryFunc(func() ([]byte, error) {
		calls++
		return nil, errors.New("failed")
	}, 2, 0)
	assert.Error(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	b, err := RetryFunc(func() ([]byte, error) {
		calls++
		if calls < 2 {
			return nil, errors.New("failed")
		}
		return []byte("ok"), nil
	}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(b))
	assert.Equal(t, 2, calls)
}

func TestStripEmoji(t *testing.T) {
	assert.Equal(t, "Python", StripEmoji("🐍 Python"))
	assert.Equal(t, "Go", StripEmoji(" Go "))
}

func TestExtractNode(t *testing.T) {
	node, err := ExtractNode(`<html><body><p class="x">hello <b>world</b></p></body></html>`, func(n *html.Node) bool {
		return n.Data == "p" && NodeAttr(n, "class") == "x"
	})
	require.NoError(t, err)

	buf := bytes.Buffer{}
	ExtractNodeText(node, &buf)
	assert.Equal(t, "hello world", buf.String())

	_, err = ExtractNode(`<html></html>`, func(n *html.Node) bool { return n.Data == "p" })
	assert.Error(t, err)
}

func TestMakeHandler(t *testing.T) {
	var got interface{}
	h := MakeHandler(reflect.TypeOf(func(*int) {}), func(i interface{}) { got = i })

	fn, ok := h.(func(*int))
	require.True(t, ok)

	n := 5
	fn(&n)
	assert.Equal(t, &n, got)
}
