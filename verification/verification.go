// Package verification tracks quarantined members and removes the ones that never introduce themselves.
package verification

import (
	"context"
	"errors"
	"github.com/5HT2/coding-bot/bot"
	"github.com/diamondburned/arikawa/v3/discord"
	"time"
)

const (
	DefaultGracePeriod   = 7 * 24 * time.Hour
	DefaultWarningDelay  = 5 * time.Minute
	DefaultBaselineRoles = 1
)

// ErrDirectMessageBlocked is returned by a Platform when the recipient does not accept direct messages
var ErrDirectMessageBlocked = errors.New("recipient does not accept direct messages")

// Member is a snapshot of a guild member. Roles never includes @everyone.
type Member struct {
	ID       discord.UserID
	Name     string
	Roles    []discord.RoleID
	JoinedAt time.Time
	Bot      bool
}

func (m Member) HasRole(id discord.RoleID) bool {
	for _, r := range m.Roles {
		if r == id {
			return true
		}
	}
	return false
}

// Platform is everything a sweep needs from the chat server. Every call re-reads live data.
type Platform interface {
	Members(ctx context.Context) ([]Member, error)
	SendMessage(ctx context.Context, channel discord.ChannelID, text string) (discord.MessageID, error)
	DirectMessage(ctx context.Context, user discord.UserID, text string) error
	Kick(ctx context.Context, user discord.UserID, reason string) error
	MessagesAfter(ctx context.Context, channel discord.ChannelID, after discord.MessageID) ([]discord.Message, error)
}

type Settings struct {
	QuarantineRole discord.RoleID
	IntroChannel   discord.ChannelID
	GracePeriod    time.Duration
	WarningDelay   time.Duration
	BaselineRoles  int // how many roles a freshly quarantined member holds
	InviteURL      string
}

// WithDefaults fills in every unset duration and count
func (s Settings) WithDefaults() Settings {
	if s.GracePeriod <= 0 {
		s.GracePeriod = DefaultGracePeriod
	}
	if s.WarningDelay <= 0 {
		s.WarningDelay = DefaultWarningDelay
	}
	if s.BaselineRoles <= 0 {
		s.BaselineRoles = DefaultBaselineRoles
	}
	return s
}

func (s Settings) Validate() error {
	if !s.QuarantineRole.IsValid() {
		return bot.ConfigError("Settings.Validate", "reading quarantine role", "no quarantine role is set")
	}
	if !s.IntroChannel.IsValid() {
		return bot.ConfigError("Settings.Validate", "reading introduction channel", "no introduction channel is set")
	}
	return nil
}

type State uint8

const (
	Fresh    State = iota // quarantined, still inside the grace period
	Warned                // quarantined past the grace period, due for a warning and kick
	Verified              // not quarantined
	Kicked                // removed by a sweep
	Fixable               // quarantined, but holds more roles than a new member would
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Warned:
		return "warned"
	case Verified:
		return "verified"
	case Kicked:
		return "kicked"
	case Fixable:
		return "fixable"
	default:
		return "unknown"
	}
}

// Status derives a member's state from their roles and age, it is never stored.
// Kicked is only ever reached through a sweep.
func Status(m Member, s Settings, now time.Time) State {
	s = s.WithDefaults()

	switch {
	case !m.HasRole(s.QuarantineRole):
		return Verified
	case len(m.Roles) > s.BaselineRoles:
		return Fixable
	case now.Sub(m.JoinedAt) >= s.GracePeriod:
		return Warned
	default:
		return Fresh
	}
}

// Partition splits the quarantined, non-bot members into fixable ones and kick candidates
func Partition(members []Member, s Settings) (fixable, candidates []Member) {
	s = s.WithDefaults()
	fixable = make([]Member, 0)
	candidates = make([]Member, 0)

	for _, m := range members {
		if m.Bot || !m.HasRole(s.QuarantineRole) {
			continue
		}

		if len(m.Roles) > s.BaselineRoles {
			fixable = append(fixable, m)
		} else {
			candidates = append(candidates, m)
		}
	}

	return fixable, candidates
}
