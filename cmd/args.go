package cmd

import (
	"github.com/5HT2/coding-bot/bot"
	"regexp"
	"strconv"
	"strings"
)

var (
	UrlRegex       = regexp.MustCompile(`https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)`)
	pingRegex      = regexp.MustCompile("^<@!?[0-9]+>$")
	channelRegex   = regexp.MustCompile("^<#[0-9]+>$")
	idRegex        = regexp.MustCompile("^[0-9]{15,20}$")
	mentionFormats = regexp.MustCompile("[<@!#&>]")
)

// ParseAllArgs will return the combined existing args
func ParseAllArgs(a []string) (string, *bot.Error) {
	s := strings.Join(a, " ")
	if len(strings.TrimSpace(s)) == 0 {
		return "", bot.GenericSyntaxError("ParseAllArgs", "nothing", "expected arguments!")
	}
	return s, nil
}

// ParseArgsFrom will return the combined args starting at pos
func ParseArgsFrom(a []string, pos int) (string, *bot.Error) {
	if pos < 1 {
		pos = 1
	}
	if _, argErr := checkArgExists(a, pos, "ParseArgsFrom"); argErr != nil {
		return "", argErr
	}
	return ParseAllArgs(a[pos-1:])
}

// ParseInt64Arg will return an int64 from s, or -1 and an error
func ParseInt64Arg(a []string, pos int) (int64, *bot.Error) {
	s, argErr := checkArgExists(a, pos, "ParseInt64Arg")
	if argErr != nil {
		return -1, argErr
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return -1, bot.GenericSyntaxError("ParseInt64Arg", s, "expected int64")
	}
	return i, nil
}

// ParsePositiveInt64Arg is ParseInt64Arg, but only accepts values above 0
func ParsePositiveInt64Arg(a []string, pos int) (int64, *bot.Error) {
	i, argErr := ParseInt64Arg(a, pos)
	if argErr != nil {
		return -1, argErr
	}
	if i <= 0 {
		return -1, bot.GenericSyntaxError("ParsePositiveInt64Arg", strconv.FormatInt(i, 10), "expected a number above 0")
	}
	return i, nil
}

// ParseUserArg will return the ID of a mentioned user or a raw user ID, or -1 and an error
func ParseUserArg(a []string, pos int) (int64, *bot.Error) {
	s, argErr := checkArgExists(a, pos, "ParseUserArg")
	if argErr != nil {
		return -1, argErr
	}

	if pingRegex.MatchString(s) || idRegex.MatchString(s) {
		id := mentionFormats.ReplaceAllString(s, "")
		i, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return -1, bot.GenericSyntaxError("ParseUserArg", s, err.Error())
		}
		return i, nil
	}
	return -1, bot.GenericSyntaxError("ParseUserArg", s, "expected user mention or id")
}

// ParseUrlArg will return a URL, or "" and an error
func ParseUrlArg(a []string, pos int) (string, *bot.Error) {
	s, argErr := checkArgExists(a, pos, "ParseUrlArg")
	if argErr != nil {
		return "", argErr
	}

	if UrlRegex.MatchString(s) {
		return s, nil
	}
	return "", bot.GenericSyntaxError("ParseUrlArg", s, "expected http or https url")
}

// ParseChannelArg will return the ID of a mentioned channel, or -1 and an error
func ParseChannelArg(a []string, pos int) (int64, *bot.Error) {
	s, argErr := checkArgExists(a, pos, "ParseChannelArg")
	if argErr != nil {
		return -1, argErr
	}

	return validateChannelArg(s, "ParseChannelArg")
}

// ParseStringArg will return the selected string, or "" with an error
func ParseStringArg(a []string, pos int, toLower bool) (string, *bot.Error) {
	s, argErr := checkArgExists(a, pos, "ParseStringArg")
	if argErr != nil {
		return "", argErr
	}
	if toLower {
		return strings.ToLower(s), nil
	}
	return s, nil
}

// ParseStringSliceArg will return the args from pos1 to pos2 (inclusive, -1 for the last arg)
func ParseStringSliceArg(a []string, pos1 int, pos2 int) ([]string, *bot.Error) {
	if pos2 == -1 {
		pos2 = len(a)
	}

	return getArgRange(a, pos1, pos2, "ParseStringSliceArg")
}

// ParseBoolArg will return a bool (True / true / 1 / on), or false with an error
func ParseBoolArg(a []string, pos int) (bool, *bot.Error) {
	s, argErr := checkArgExists(a, pos, "ParseBoolArg")
	if argErr != nil {
		return false, argErr
	}

	switch strings.ToLower(s) {
	case "true", "1", "on", "enable":
		return true, nil
	case "false", "0", "off", "disable":
		return false, nil
	default:
		return false, bot.GenericSyntaxError("ParseBoolArg", s, "expected boolean")
	}
}

// HasFlag will return if flag is one of the args, for example HasFlag(c.Args, "--receipt")
func HasFlag(a []string, flag string) bool {
	for _, s := range a {
		if strings.EqualFold(s, flag) {
			return true
		}
	}
	return false
}

// validateChannelArg will return a valid channel mention, or nil and an error if it is invalid
func validateChannelArg(s string, fn string) (int64, *bot.Error) {
	if channelRegex.MatchString(s) {
		id := mentionFormats.ReplaceAllString(s, "")
		i, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return -1, bot.GenericSyntaxError(fn, s, err.Error())
		}
		return i, nil
	}
	return -1, bot.GenericSyntaxError(fn, s, "expected channel mention")
}

// getArgRange will return the elements in a from pos1 to pos2, or nil and an error if the range is invalid
func getArgRange(a []string, pos1 int, pos2 int, fn string) (s []string, err *bot.Error) {
	elems := make([]string, 0)

	for pos := pos1; pos <= pos2; pos++ {
		if e, argErr := checkArgExists(a, pos, fn); argErr != nil {
			return nil, argErr
		} else {
			elems = append(elems, e)
		}
	}

	return elems, nil
}

// checkArgExists will return a[pos - 1] if said index exists, otherwise it will return an error
func checkArgExists(a []string, pos int, fn string) (s string, err *bot.Error) {
	pos -= 1 // we want to increment this so ParseGenericArg(c.args, 1) will return the first arg
	// prevent panic if dev made an error
	if pos < 0 {
		pos = 1
	}

	if len(a) > pos {
		return a[pos], nil
	}

	// the position in the command the user is giving
	pos += 1
	return "", bot.GenericError(fn, "getting arg "+strconv.Itoa(pos), "arg is missing")
}
