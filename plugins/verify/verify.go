package verify

import (
	"context"
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/plugins"
	"github.com/5HT2/coding-bot/util"
	"github.com/5HT2/coding-bot/verification"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/go-co-op/gocron"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	defaultSweepInterval = 6 // hours
	quarantineRoleName   = "Unverified"
)

var (
	running = make(map[discord.GuildID]context.CancelFunc) // [guild id]cancel in-flight sweep
	mutex   sync.Mutex
)

func InitPlugin() *plugins.Plugin {
	return &plugins.Plugin{
		Name:        "Verification",
		Description: "Kicks members who never introduced themselves",
		Version:     "1.0.0",
		Commands: []bot.CommandInfo{{
			Fn:          VerificationCommand,
			FnName:      "VerificationCommand",
			Name:        "verification",
			Aliases:     []string{"verify"},
			Description: "Manage member verification",
			GuildOnly:   true,
		}},
		Jobs: []bot.JobInfo{{
			Fn: func() (*gocron.Job, error) {
				return bot.Scheduler.Every(sweepInterval()).Hours().Do(SweepAllGuilds)
			},
			Name: "verification-sweep",
		}},
		ShutdownFn: cancelAll,
	}
}

// Settings converts a guild's verification config, filling in defaults
func Settings(cfg bot.GuildConfig) verification.Settings {
	v := cfg.Verification
	return verification.Settings{
		QuarantineRole: discord.RoleID(v.Role),
		IntroChannel:   discord.ChannelID(v.Channel),
		GracePeriod:    time.Duration(v.GraceDays) * 24 * time.Hour,
		WarningDelay:   time.Duration(v.DelayMinutes) * time.Minute,
		BaselineRoles:  int(v.BaselineRoles),
		InviteURL:      v.Invite,
	}.WithDefaults()
}

func VerificationCommand(c bot.Command) error {
	arg, _ := cmd.ParseStringArg(c.Args, 1, true)

	if len(arg) > 0 && arg != "status" {
		if err := cmd.HasPermission(c, cmd.PermPermissions); err != nil {
			return err
		}
	}

	switch arg {
	case "on", "enable":
		return enableVerification(c)
	case "off", "disable":
		return disableVerification(c)
	case "sweep":
		return sweepCommand(c)
	case "grace":
		days, err := cmd.ParsePositiveInt64Arg(c.Args, 2)
		if err != nil {
			return err
		}

		bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
			g.Verification.GraceDays = days
			return g, "VerificationCommand: grace"
		})
		_, err2 := cmd.SendEmbed(c.E, "Verification", "Unverified members are now warned after "+util.JoinInt64AndStr(days, "day"), bot.SuccessColor)
		return err2
	case "delay":
		minutes, err := cmd.ParsePositiveInt64Arg(c.Args, 2)
		if err != nil {
			return err
		}

		bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
			g.Verification.DelayMinutes = minutes
			return g, "VerificationCommand: delay"
		})
		_, err2 := cmd.SendEmbed(c.E, "Verification", "Warned members are now kicked after "+util.JoinInt64AndStr(minutes, "minute"), bot.SuccessColor)
		return err2
	case "channel":
		channel, err := cmd.ParseChannelArg(c.Args, 2)
		if err != nil {
			return err
		}

		bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
			g.Verification.Channel = channel
			return g, "VerificationCommand: channel"
		})
		_, err2 := cmd.SendEmbed(c.E, "Verification", fmt.Sprintf("Set the introduction channel to <#%v>", channel), bot.SuccessColor)
		return err2
	case "invite":
		url, err := cmd.ParseUrlArg(c.Args, 2)
		if err != nil {
			return err
		}

		bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
			g.Verification.Invite = url
			return g, "VerificationCommand: invite"
		})
		_, err2 := cmd.SendEmbed(c.E, "Verification", "Kicked members will be sent "+url, bot.SuccessColor)
		return err2
	case "", "status":
		cfg, _ := bot.FindGuildConfig(c.E.GuildID)
		_, err := cmd.SendEmbed(c.E, "Verification", StatusText(cfg, isRunning(c.E.GuildID)), bot.DefaultColor)
		return err
	default:
		_, err := cmd.SendEmbed(c.E,
			"Verification",
			"Available arguments are:\n- `on|off`\n- `status`\n- `sweep`\n- `grace <days>`\n- `delay <minutes>`\n- `channel <channel>`\n- `invite <url>`",
			bot.DefaultColor)
		return err
	}
}

// StatusText describes the guild's verification settings
func StatusText(cfg bot.GuildConfig, sweeping bool) string {
	if !cfg.Verification.Enabled() {
		return "Verification is **disabled**"
	}

	s := Settings(cfg)
	lines := []string{
		"Verification is **enabled**",
		"Quarantine role: " + s.QuarantineRole.Mention(),
	}

	if s.IntroChannel.IsValid() {
		lines = append(lines, "Introduction channel: "+s.IntroChannel.Mention())
	} else {
		lines = append(lines, "Introduction channel: **not set**, sweeps will fail until one is set")
	}

	lines = append(lines,
		"Grace period: "+util.FormattedTime(int64(s.GracePeriod.Seconds())),
		"Warning delay: "+util.FormattedTime(int64(s.WarningDelay.Seconds())),
	)

	if len(s.InviteURL) > 0 {
		lines = append(lines, "Rejoin invite: "+s.InviteURL)
	}
	if sweeping {
		lines = append(lines, "A sweep is currently running")
	}

	return strings.Join(lines, "\n")
}

func enableVerification(c bot.Command) error {
	cfg, _ := bot.FindGuildConfig(c.E.GuildID)
	if cfg.Verification.Enabled() {
		return bot.GenericError(c.FnName, "enabling verification", "verification is already enabled")
	}

	role, err := bot.Client.CreateRole(c.E.GuildID, quarantineRoleData(c.E.Author.Tag()))
	if err != nil {
		return bot.GenericError(c.FnName, "creating quarantine role", err.Error())
	}

	bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
		g.Verification.Role = int64(role.ID)
		if g.Verification.Channel == 0 {
			g.Verification.Channel = int64(c.E.ChannelID)
		}
		return g, "VerificationCommand: on"
	})

	cfg, _ = bot.FindGuildConfig(c.E.GuildID)
	_, err = cmd.SendEmbed(c.E, "Verification", "✅ Enabled verification!\n\n"+StatusText(cfg, false), bot.SuccessColor)
	return err
}

func quarantineRoleData(author string) api.CreateRoleData {
	return api.CreateRoleData{
		Name:        quarantineRoleName,
		AddRoleData: api.AddRoleData{
			AuditLogReason: api.AuditLogReason("verification enabled by " + author),
		},
	}
}

func disableVerification(c bot.Command) error {
	cfg, _ := bot.FindGuildConfig(c.E.GuildID)
	if !cfg.Verification.Enabled() {
		return bot.GenericError(c.FnName, "disabling verification", "verification is not enabled")
	}

	cancelled := cancelSweep(c.E.GuildID)

	reason := api.AuditLogReason("verification disabled by " + c.E.Author.Tag())
	if err := bot.Client.DeleteRole(c.E.GuildID, discord.RoleID(cfg.Verification.Role), reason); err != nil {
		log.Printf("failed to delete quarantine role %v: %v\n", cfg.Verification.Role, err)
	}

	bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
		g.Verification.Role = 0
		return g, "VerificationCommand: off"
	})

	description := "⛔ Disabled verification!"
	if cancelled {
		description += "\nThe running sweep was cancelled, nobody will be kicked."
	}
	_, err := cmd.SendEmbed(c.E, "Verification", description, bot.ErrorColor)
	return err
}

func sweepCommand(c bot.Command) error {
	cfg, _ := bot.FindGuildConfig(c.E.GuildID)
	if !cfg.Verification.Enabled() {
		return bot.GenericError(c.FnName, "starting sweep", "verification is not enabled")
	}

	ctx, done, err := beginSweep(c.E.GuildID)
	if err != nil {
		return err
	}

	s := Settings(cfg)
	_, _ = cmd.SendEmbed(c.E, "Verification", "Sweep started, warned members are kicked in "+util.FormattedTime(int64(s.WarningDelay.Seconds())), bot.DefaultColor)

	go func() {
		defer util.LogPanic()
		defer done()

		r, err := sweep(ctx, c.E.GuildID, cfg)
		if err != nil {
			_, _ = cmd.SendExternalErrorEmbed(c.E.ChannelID, c.Name, err)
			return
		}

		_, _ = cmd.SendEmbed(c.E, "Verification", r.Summary(), bot.DefaultColor)
	}()

	return nil
}

// SweepAllGuilds sweeps every guild with verification enabled, and waits for all of them to finish
func SweepAllGuilds() {
	defer util.LogPanic()

	guilds := make([]bot.GuildConfig, 0)
	bot.C.Run(func(c *bot.Config) {
		for _, g := range c.GuildConfigs {
			if g.Verification.Enabled() {
				guilds = append(guilds, g)
			}
		}
	})

	wg := sync.WaitGroup{}
	for _, g := range guilds {
		id := discord.GuildID(g.ID)
		ctx, done, err := beginSweep(id)
		if err != nil {
			log.Printf("skipping sweep: %v\n", err)
			continue
		}

		wg.Add(1)
		go func(cfg bot.GuildConfig) {
			defer util.LogPanic()
			defer wg.Done()
			defer done()

			r, err := sweep(ctx, id, cfg)
			if err != nil {
				cmd.SendOperatorError("SweepAllGuilds", err)
				return
			}

			publishReport(cfg, r)
		}(g)
	}

	wg.Wait()
}

func sweep(ctx context.Context, guild discord.GuildID, cfg bot.GuildConfig) (verification.Report, error) {
	s := verification.Sweeper{Platform: discordPlatform{guild: guild}, Settings: Settings(cfg)}
	return s.Sweep(ctx)
}

// publishReport sends r to the reporting channel, or logs it when there is none. Empty reports are only logged in debug mode.
func publishReport(cfg bot.GuildConfig, r verification.Report) {
	if r.Empty() {
		if bot.Debug {
			log.Printf("verification sweep %s in %v: nothing to do\n", r.ID, cfg.ID)
		}
		return
	}

	if cfg.ReportingChannel == 0 {
		log.Printf("verification sweep in %v:\n%s\n", cfg.ID, r.Summary())
		return
	}

	embed := cmd.MakeEmbed("Verification", r.Summary(), bot.WarnColor)
	if _, err := cmd.SendCustomEmbed(discord.ChannelID(cfg.ReportingChannel), embed); err != nil {
		log.Printf("failed to send sweep report %s: %v\n", r.ID, err)
	}
}

// beginSweep marks a sweep as running in guild. The returned func must be called once it is done.
func beginSweep(guild discord.GuildID) (context.Context, func(), error) {
	mutex.Lock()
	defer mutex.Unlock()

	if _, ok := running[guild]; ok {
		return nil, nil, bot.GenericError("beginSweep", "starting sweep in "+guild.String(), "a sweep is already running")
	}

	ctx, cancel := context.WithCancel(bot.Ctx)
	running[guild] = cancel

	return ctx, func() {
		cancel()

		mutex.Lock()
		defer mutex.Unlock()
		delete(running, guild)
	}, nil
}

// cancelSweep returns true if a sweep was running in guild
func cancelSweep(guild discord.GuildID) bool {
	mutex.Lock()
	defer mutex.Unlock()

	cancel, ok := running[guild]
	if ok {
		cancel()
	}
	return ok
}

func isRunning(guild discord.GuildID) bool {
	mutex.Lock()
	defer mutex.Unlock()

	_, ok := running[guild]
	return ok
}

func cancelAll() {
	mutex.Lock()
	defer mutex.Unlock()

	for _, cancel := range running {
		cancel()
	}
}

func sweepInterval() int {
	hours := 0
	bot.C.Run(func(c *bot.Config) {
		hours = int(c.SweepIntervalHours)
	})

	if hours <= 0 {
		return defaultSweepInterval
	}
	return hours
}
