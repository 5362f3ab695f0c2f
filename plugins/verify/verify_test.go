package verify

import (
	"testing"
	"time"

	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/verification"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	s := Settings(bot.GuildConfig{Verification: bot.VerificationConfig{Role: 5, Channel: 6}})
	assert.Equal(t, discord.RoleID(5), s.QuarantineRole)
	assert.Equal(t, discord.ChannelID(6), s.IntroChannel)
	assert.Equal(t, verification.DefaultGracePeriod, s.GracePeriod)
	assert.Equal(t, verification.DefaultWarningDelay, s.WarningDelay)
	assert.Equal(t, verification.DefaultBaselineRoles, s.BaselineRoles)

	s = Settings(bot.GuildConfig{Verification: bot.VerificationConfig{
		Role:          5,
		Channel:       6,
		GraceDays:     2,
		DelayMinutes:  30,
		BaselineRoles: 2,
		Invite:        "https://discord.gg/abc",
	}})
	assert.Equal(t, 48*time.Hour, s.GracePeriod)
	assert.Equal(t, 30*time.Minute, s.WarningDelay)
	assert.Equal(t, 2, s.BaselineRoles)
	assert.Equal(t, "https://discord.gg/abc", s.InviteURL)
	assert.NoError(t, s.Validate())
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Verification is **disabled**", StatusText(bot.GuildConfig{}, false))

	text := StatusText(bot.GuildConfig{Verification: bot.VerificationConfig{Role: 5}}, true)
	assert.Contains(t, text, "Quarantine role: <@&5>")
	assert.Contains(t, text, "Introduction channel: **not set**")
	assert.Contains(t, text, "Warning delay: 5 minutes")
	assert.Contains(t, text, "A sweep is currently running")
}

func TestBeginAndCancelSweep(t *testing.T) {
	const guild = discord.GuildID(77)

	ctx, done, err := beginSweep(guild)
	require.NoError(t, err)
	assert.True(t, isRunning(guild))

	_, _, err = beginSweep(guild)
	assert.Error(t, err, "only one sweep per guild")

	assert.True(t, cancelSweep(guild))
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("sweep context was not cancelled")
	}

	done()
	assert.False(t, isRunning(guild))
	assert.False(t, cancelSweep(guild))

	_, done, err = beginSweep(guild)
	require.NoError(t, err)
	done()
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, defaultSweepInterval, sweepInterval())

	bot.C.Run(func(c *bot.Config) {
		c.SweepIntervalHours = 12
	})
	defer bot.C.Run(func(c *bot.Config) {
		c.SweepIntervalHours = 0
	})

	assert.Equal(t, 12, sweepInterval())
}

func TestToMember(t *testing.T) {
	joined := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)
	m := toMember(discord.Member{
		User:    discord.User{ID: 1, Username: "alice", Bot: true},
		RoleIDs: []discord.RoleID{2, 3},
		Joined:  discord.NewTimestamp(joined),
	})

	assert.Equal(t, discord.UserID(1), m.ID)
	assert.Equal(t, "alice", m.Name)
	assert.Equal(t, []discord.RoleID{2, 3}, m.Roles)
	assert.True(t, m.JoinedAt.Equal(joined))
	assert.True(t, m.Bot)

	m = toMember(discord.Member{User: discord.User{ID: 1, Username: "alice"}, Nick: "Al"})
	assert.Equal(t, "Al", m.Name)
}

func TestQuarantineRoleData(t *testing.T) {
	data := quarantineRoleData("mod#0001")
	assert.Equal(t, quarantineRoleName, data.Name)
	assert.Equal(t, api.AuditLogReason("verification enabled by mod#0001"), data.AddRoleData.AuditLogReason)
	assert.Equal(t, api.AuditLogReason("verification enabled by mod#0001"), data.AuditLogReason)
}
