package util

import (
	"fmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"strconv"
	"strings"
	"time"
)

var (
	printer = message.NewPrinter(language.English)
)

// JoinInt64Slice will join i with sep
func JoinInt64Slice(i []int64, sep string, prefix string, suffix string) string {
	elems := make([]string, 0)
	for _, e := range i {
		elems = append(elems, prefix+strconv.FormatInt(e, 10)+suffix)
	}
	return strings.Join(elems, sep)
}

// GetUserMention will return a formatted user mention from an id
func GetUserMention(id int64) string {
	return "<@!" + strconv.FormatInt(id, 10) + ">"
}

// FormattedTime will turn seconds into a pretty time representation
func FormattedTime(secondsIn int64) string {
	hours := secondsIn / 3600
	minutes := (secondsIn / 60) - (60 * hours)
	seconds := secondsIn % 60

	units := make([]string, 0)
	if hours != 0 {
		units = append(units, JoinInt64AndStr(hours, "hour"))
	}
	if minutes != 0 {
		units = append(units, JoinInt64AndStr(minutes, "minute"))
	}
	if seconds != 0 || (hours == 0 && minutes == 0) {
		units = append(units, JoinInt64AndStr(seconds, "second"))
	}

	return strings.Join(units, ", ")
}

// FormattedUptime will describe how long the bot has been up for, e.g.
// "The bot has been up for 1 days, 23 hours, 23 minutes, and 23 seconds"
func FormattedUptime(since, now time.Time) string {
	seconds := int64(now.Sub(since).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	days := seconds / 86400
	seconds %= 86400
	hours := seconds / 3600
	seconds %= 3600
	minutes := seconds / 60
	seconds %= 60

	return fmt.Sprintf("The bot has been up for %d days, %d hours, %d minutes, and %d seconds", days, hours, minutes, seconds)
}

// FormattedNum will insert commas as necessary in large numbers
func FormattedNum(num int64) string {
	return printer.Sprintf("%d", num)
}

// JoinInt64AndStr will join and add a plural s to the str if int is not 1, for example, "0 hours", "1 hour", "2 hours".
func JoinInt64AndStr(int int64, str string) string {
	plural := "s"
	if int == 1 {
		plural = ""
	}
	return fmt.Sprintf("%s %s%s", FormattedNum(int), str, plural)
}

// JoinIntAndStr is a wrapper for JoinInt64AndStr
func JoinIntAndStr(int int, str string) string {
	return JoinInt64AndStr(int64(int), str)
}

// TruncateString will cut s down to max runes, replacing the tail with suffix
func TruncateString(s string, max int, suffix string) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}

	cut := max - len([]rune(suffix))
	if cut < 0 {
		cut = 0
	}
	return string(r[:cut]) + suffix
}
