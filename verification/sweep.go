package verification

import (
	"context"
	"errors"
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/google/uuid"
	"log"
	"strings"
	"time"
)

const maxMessageLength = 2000

// Sweeper warns and then kicks members who stayed quarantined past the grace period
type Sweeper struct {
	Platform Platform
	Settings Settings
	Now      func() time.Time                                // defaults to time.Now
	Wait     func(ctx context.Context, d time.Duration) error // defaults to SleepContext
}

// SleepContext blocks for d, or until ctx is done
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Sweep runs one warn-then-kick pass. Configuration problems and failures to read the guild abort the sweep,
// failing to message or kick a single member does not.
// If ctx is cancelled while waiting out the warning delay, nobody is kicked and Report.Cancelled is set.
func (s *Sweeper) Sweep(ctx context.Context) (Report, error) {
	settings := s.Settings.WithDefaults()
	r := newReport()

	if s.Platform == nil {
		return r, bot.ConfigError("Sweeper.Sweep", "starting sweep", "no platform set")
	}
	if err := settings.Validate(); err != nil {
		return r, err
	}

	members, err := s.Platform.Members(ctx)
	if err != nil {
		return r, err
	}

	now := s.now()
	fixable, candidates := Partition(members, settings)
	r.Fixable = fixable

	eligible := make([]Member, 0)
	for _, m := range candidates {
		if Status(m, settings, now) == Warned {
			eligible = append(eligible, m)
		}
	}

	if len(eligible) == 0 {
		return r, nil
	}

	marker, err := s.Platform.SendMessage(ctx, settings.IntroChannel, warningMessage(settings, eligible))
	if err != nil {
		return r, err
	}

	dm := warningDirectMessage(settings)
	for _, m := range eligible {
		if err := s.Platform.DirectMessage(ctx, m.ID, dm); err != nil {
			logDirectMessageError(r.ID, "warning", m, err)
			r.WarnFailed = append(r.WarnFailed, m)
			continue
		}
		r.Warned = append(r.Warned, m)
	}

	if err := s.wait(ctx, settings.WarningDelay); err != nil {
		log.Printf("sweep %s: cancelled while waiting: %v\n", r.ID, err)
		r.Cancelled = true
		return r, nil
	}

	// Members may have introduced themselves, been verified or left while we waited
	current, err := s.Platform.Members(ctx)
	if err != nil {
		return r, err
	}
	posts, err := s.Platform.MessagesAfter(ctx, settings.IntroChannel, marker)
	if err != nil {
		return r, err
	}

	byID := make(map[discord.UserID]Member, len(current))
	for _, m := range current {
		byID[m.ID] = m
	}
	posted := make(map[discord.UserID]struct{}, len(posts))
	for _, p := range posts {
		posted[p.Author.ID] = struct{}{}
	}

	kickReason := fmt.Sprintf("Did not introduce themselves within %s (sweep %s)", formatDuration(settings.GracePeriod), r.ID)
	rejoin := rejoinDirectMessage(settings)

	for _, m := range eligible {
		cur, present := byID[m.ID]
		_, introduced := posted[m.ID]

		if !present || introduced || Status(cur, settings, s.now()) != Warned {
			r.Excluded = append(r.Excluded, m)
			continue
		}

		if err := s.Platform.DirectMessage(ctx, m.ID, rejoin); err != nil {
			logDirectMessageError(r.ID, "rejoin", m, err)
			r.FailedDM = append(r.FailedDM, m)
		}

		if err := s.Platform.Kick(ctx, m.ID, kickReason); err != nil {
			log.Printf("sweep %s: failed to kick %s (%v): %v\n", r.ID, m.Name, m.ID, err)
			r.KickFailed = append(r.KickFailed, m)
			continue
		}
		r.Kicked = append(r.Kicked, m)
	}

	return r, nil
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Sweeper) wait(ctx context.Context, d time.Duration) error {
	if s.Wait != nil {
		return s.Wait(ctx, d)
	}
	return SleepContext(ctx, d)
}

func logDirectMessageError(id string, kind string, m Member, err error) {
	if errors.Is(err, ErrDirectMessageBlocked) {
		log.Printf("sweep %s: %s not delivered, %s (%v) blocks direct messages\n", id, kind, m.Name, m.ID)
		return
	}

	log.Printf("sweep %s: failed to send %s to %s (%v): %v\n", id, kind, m.Name, m.ID, err)
}

func warningMessage(s Settings, members []Member) string {
	mentions := make([]string, 0, len(members))
	for _, m := range members {
		mentions = append(mentions, m.ID.Mention())
	}

	msg := fmt.Sprintf(
		"%s members who have not introduced themselves within %s will be kicked in %s. "+
			"Introduce yourself in %s to stay!\n%s",
		s.QuarantineRole.Mention(), formatDuration(s.GracePeriod), formatDuration(s.WarningDelay),
		s.IntroChannel.Mention(), strings.Join(mentions, " "),
	)
	return util.TruncateString(msg, maxMessageLength, "...")
}

func warningDirectMessage(s Settings) string {
	return fmt.Sprintf(
		"You have been on the server for more than %s without introducing yourself, and will be kicked in %s. "+
			"Introduce yourself in %s to keep your membership!",
		formatDuration(s.GracePeriod), formatDuration(s.WarningDelay), s.IntroChannel.Mention(),
	)
}

func rejoinDirectMessage(s Settings) string {
	msg := fmt.Sprintf("You have been kicked for not introducing yourself within %s.", formatDuration(s.GracePeriod))
	if len(s.InviteURL) > 0 {
		msg += " You are welcome to rejoin at any time: " + s.InviteURL
	}
	return msg
}

// formatDuration writes whole days as days, and anything shorter with util.FormattedTime
func formatDuration(d time.Duration) string {
	if d >= 24*time.Hour && d%(24*time.Hour) == 0 {
		return util.JoinInt64AndStr(int64(d/(24*time.Hour)), "day")
	}
	return util.FormattedTime(int64(d.Seconds()))
}

func newReport() Report {
	return Report{
		ID:         uuid.NewString(),
		Fixable:    make([]Member, 0),
		Warned:     make([]Member, 0),
		WarnFailed: make([]Member, 0),
		Excluded:   make([]Member, 0),
		Kicked:     make([]Member, 0),
		FailedDM:   make([]Member, 0),
		KickFailed: make([]Member, 0),
	}
}
