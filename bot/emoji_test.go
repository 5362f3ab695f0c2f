package bot

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmojiConfigRoundTrip(t *testing.T) {
	assert.Equal(t, discord.APIEmoji("✅"), CheckEmoji)
	assert.Equal(t, discord.APIEmoji("⚠️"), WarningEmoji)

	custom := discord.APIEmoji("party:123")
	encoded := ApiEmojiAsConfig(&custom, true)
	assert.Equal(t, "a:party:123", encoded)

	decoded, err := ConfigEmojiAsApiEmoji(encoded)
	require.NoError(t, err)
	assert.Equal(t, custom, decoded)

	formatted, err := FormatEncodedEmoji(encoded)
	require.NoError(t, err)
	assert.Equal(t, "<a:party:123>", formatted)

	formatted, err = FormatEncodedEmoji("%E2%9C%85")
	require.NoError(t, err)
	assert.Equal(t, "✅", formatted)

	_, err = ConfigEmojiAsApiEmoji("%zz")
	assert.Error(t, err)
}
