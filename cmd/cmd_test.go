package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/5HT2/coding-bot/bot"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	name, args := splitCommand("!Kick <@123> being rude", "!")
	assert.Equal(t, "kick", name)
	assert.Equal(t, []string{"<@123>", "being", "rude"}, args)

	name, args = splitCommand("!!move  last\n5 <#42>", "!!")
	assert.Equal(t, "move", name)
	assert.Equal(t, []string{"last", "5", "<#42>"}, args)

	name, _ = splitCommand("!", "!")
	assert.Empty(t, name)

	name, _ = splitCommand("hello there", "!")
	assert.Empty(t, name)

	name, _ = splitCommand("! ", "!")
	assert.Empty(t, name)

	// Direct messages don't need a prefix
	name, args = splitCommand("help", "")
	assert.Equal(t, "help", name)
	assert.Empty(t, args)
}

func TestParseUserArg(t *testing.T) {
	args := []string{"<@!164557342263803904>", "<@164557342263803904>", "164557342263803904", "bob", "<@&123>"}

	for pos := 1; pos <= 3; pos++ {
		id, err := ParseUserArg(args, pos)
		require.Nil(t, err, pos)
		assert.Equal(t, int64(164557342263803904), id)
	}

	_, err := ParseUserArg(args, 4)
	assert.NotNil(t, err)
	_, err = ParseUserArg(args, 5)
	assert.NotNil(t, err)
	_, err = ParseUserArg(args, 6)
	assert.NotNil(t, err)
}

func TestParseChannelArg(t *testing.T) {
	id, err := ParseChannelArg([]string{"<#871526457447493632>"}, 1)
	require.Nil(t, err)
	assert.Equal(t, int64(871526457447493632), id)

	_, err = ParseChannelArg([]string{"general"}, 1)
	assert.NotNil(t, err)
}

func TestParseIntArgs(t *testing.T) {
	i, err := ParseInt64Arg([]string{"-5"}, 1)
	require.Nil(t, err)
	assert.Equal(t, int64(-5), i)

	_, err = ParsePositiveInt64Arg([]string{"-5"}, 1)
	assert.NotNil(t, err)

	i, err = ParsePositiveInt64Arg([]string{"x", "20"}, 2)
	require.Nil(t, err)
	assert.Equal(t, int64(20), i)

	_, err = ParseInt64Arg([]string{"five"}, 1)
	assert.NotNil(t, err)
}

func TestParseStringArgs(t *testing.T) {
	args := []string{"Verification", "ON", "now", "please"}

	s, err := ParseStringArg(args, 1, true)
	require.Nil(t, err)
	assert.Equal(t, "verification", s)

	b, err := ParseBoolArg(args, 2)
	require.Nil(t, err)
	assert.True(t, b)

	slice, err := ParseStringSliceArg(args, 3, -1)
	require.Nil(t, err)
	assert.Equal(t, []string{"now", "please"}, slice)

	rest, err := ParseArgsFrom(args, 2)
	require.Nil(t, err)
	assert.Equal(t, "ON now please", rest)

	_, err = ParseArgsFrom(args, 5)
	assert.NotNil(t, err)

	_, err = ParseAllArgs([]string{})
	assert.NotNil(t, err)
}

func TestParseUrlArg(t *testing.T) {
	u, err := ParseUrlArg([]string{"https://discord.gg/abcdef"}, 1)
	require.Nil(t, err)
	assert.Equal(t, "https://discord.gg/abcdef", u)

	_, err = ParseUrlArg([]string{"discord"}, 1)
	assert.NotNil(t, err)
}

func TestHasFlag(t *testing.T) {
	assert.True(t, HasFlag([]string{"12", "--Receipt"}, "--receipt"))
	assert.False(t, HasFlag([]string{"12"}, "--receipt"))
}

func TestMissingArgError(t *testing.T) {
	_, err := ParseStringArg([]string{}, 2, false)
	require.NotNil(t, err)
	assert.Equal(t, "bot.ParseStringArg:\n    error with: getting arg 2\n    because: arg is missing", err.Error())
}

func TestMatchResponse(t *testing.T) {
	r := bot.ResponseInfo{Regexes: []string{"<@!?DISCORD_BOT_ID>", "prefix"}, MatchMin: 2}

	assert.True(t, matchResponse("<@42> what is the prefix?", "42", r))
	assert.True(t, matchResponse("<@!42> prefix", "42", r))
	assert.False(t, matchResponse("<@43> prefix", "42", r))
	assert.False(t, matchResponse("<@42> hello", "42", r))
}

func TestGetPermission(t *testing.T) {
	assert.Equal(t, PermModerate, GetPermission("Moderate"))
	assert.Equal(t, PermChannels, GetPermission("channels"))
	assert.Equal(t, PermUndefined, GetPermission("everything"))
	assert.Equal(t, "operator", PermOperator.String())
}

func TestIsDirectMessageBlocked(t *testing.T) {
	assert.True(t, IsDirectMessageBlocked(&httputil.HTTPError{Status: 403}))
	assert.True(t, IsDirectMessageBlocked(fmt.Errorf("sending dm: %w", &httputil.HTTPError{Status: 400, Code: 50007})))
	assert.False(t, IsDirectMessageBlocked(&httputil.HTTPError{Status: 500}))
	assert.False(t, IsDirectMessageBlocked(errors.New("connection reset")))
	assert.False(t, IsDirectMessageBlocked(nil))
}
