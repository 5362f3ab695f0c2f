package bot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempConfig(t *testing.T) {
	t.Helper()

	oldPath := ConfigPath
	ConfigPath = filepath.Join(t.TempDir(), "config", "config.json")
	C.Run(func(c *Config) {
		c.BotToken = ""
		c.GuildConfigs = nil
		c.PrefixCache = nil
	})

	t.Cleanup(func() { ConfigPath = oldPath })
}

func TestBootstrapAndLoadConfig(t *testing.T) {
	useTempConfig(t)

	assert.False(t, ConfigExists())

	err := BootstrapConfig("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, ConfigExists())

	require.NoError(t, BootstrapConfig("token"))
	assert.True(t, ConfigExists())

	require.NoError(t, os.WriteFile(ConfigPath, []byte(`{
		"bot_token": "token",
		"guild_configs": [{"id": 1, "prefix": "?"}, {"id": 2}]
	}`), 0600))
	require.NoError(t, LoadConfig())

	C.Run(func(c *Config) {
		assert.Equal(t, "token", c.BotToken)
		assert.Equal(t, map[int64]string{1: "?", 2: DefaultPrefix}, c.PrefixCache)
	})
}

func TestLoadConfigMalformed(t *testing.T) {
	useTempConfig(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(ConfigPath), 0700))
	require.NoError(t, os.WriteFile(ConfigPath, []byte(`{"guild_configs": [`), 0600))
	assert.Error(t, LoadConfig())
}

func TestGuildContext(t *testing.T) {
	useTempConfig(t)

	_, ok := FindGuildConfig(5)
	assert.False(t, ok)

	GuildContext(discord.GuildID(5), func(g *GuildConfig) (*GuildConfig, string) {
		g.ReportingChannel = 10
		return g, "TestGuildContext"
	})

	cfg, ok := FindGuildConfig(5)
	require.True(t, ok)
	assert.Equal(t, DefaultPrefix, cfg.Prefix)
	assert.Equal(t, int64(10), cfg.ReportingChannel)

	GuildContext(discord.GuildID(5), func(g *GuildConfig) (*GuildConfig, string) {
		g.Verification.Role = 3
		return g, "TestGuildContext"
	})

	cfg, _ = FindGuildConfig(5)
	assert.True(t, cfg.Verification.Enabled())
	assert.Equal(t, int64(10), cfg.ReportingChannel)

	assert.True(t, RemoveGuildConfig(5))
	assert.False(t, RemoveGuildConfig(5))
}

func TestErrorString(t *testing.T) {
	err := GenericError("Fn", "doing something", "it broke")
	assert.Equal(t, "bot.Fn:\n    error with: doing something\n    because: it broke", err.Error())
	assert.False(t, errors.Is(err, ErrConfiguration))

	assert.Equal(t, "parsing \"x\"", SyntaxError("Fn", "x").Action)
	assert.True(t, errors.Is(ConfigError("Fn", "reading", "missing"), ErrConfiguration))
}
