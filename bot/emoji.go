package bot

import (
	"github.com/diamondburned/arikawa/v3/discord"
	"net/url"
	"strings"
)

// Emojis are stored in the config url-encoded, with an "a:" prefix for animated custom emojis
var (
	escapedWarning = "%E2%9A%A0%EF%B8%8F"
	escapedCheck   = "%E2%9C%85"
	WarningEmoji   = discord.APIEmoji(mustUnescape(escapedWarning))
	CheckEmoji     = discord.APIEmoji(mustUnescape(escapedCheck))
)

func mustUnescape(s string) string {
	str, err := url.QueryUnescape(s)
	if err != nil {
		panic(err)
	}
	return str
}

// ConfigEmojiAsApiEmoji decodes an emoji from the config, returning WarningEmoji when it can't be decoded
func ConfigEmojiAsApiEmoji(e string) (discord.APIEmoji, error) {
	if strings.HasPrefix(e, "a:") {
		e = e[2:]
	} else {
		e = strings.TrimPrefix(e, ":")
	}

	str, err := url.QueryUnescape(e)
	if err != nil {
		return WarningEmoji, err
	}

	return discord.APIEmoji(str), nil
}

// ApiEmojiAsConfig encodes e the way ConfigEmojiAsApiEmoji expects it
func ApiEmojiAsConfig(e *discord.APIEmoji, animated bool) string {
	if e == nil {
		return ApiEmojiAsConfig(&WarningEmoji, animated)
	}

	a := ":"
	if animated {
		a = "a:"
	}

	str := e.PathString()
	if strings.Contains(str, ":") {
		str = a + str
	}

	return str
}

// FormatEncodedEmoji turns a config emoji into its message form, i.e. <a:name:id> or the unicode character
func FormatEncodedEmoji(e string) (string, error) {
	split := strings.Split(e, ":")
	if len(split) > 1 {
		return "<" + e + ">", nil
	}

	return url.QueryUnescape(e)
}
