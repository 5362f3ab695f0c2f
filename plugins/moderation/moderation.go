package moderation

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/plugins"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/go-co-op/gocron"
	"log"
	"strconv"
	"time"
)

func InitPlugin() *plugins.Plugin {
	return &plugins.Plugin{
		Name:        "Moderation",
		Description: "Kicks and bans with an incident report trail",
		Version:     "1.0.0",
		Commands: []bot.CommandInfo{{
			Fn:          KickCommand,
			FnName:      "KickCommand",
			Name:        "kick",
			Description: "Kick a member, `kick <user> <reason>`",
			GuildOnly:   true,
		}, {
			Fn:          BanCommand,
			FnName:      "BanCommand",
			Name:        "ban",
			Description: "Ban a member, `ban <user> <reason>`",
			GuildOnly:   true,
		}, {
			Fn:          TempbanCommand,
			FnName:      "TempbanCommand",
			Name:        "tempban",
			Description: "Ban a member until the administration team has reviewed it, `tempban <user> <minutes> <reason>`",
			GuildOnly:   true,
		}, {
			Fn:          HackbanCommand,
			FnName:      "HackbanCommand",
			Name:        "hackban",
			Description: "Ban a user who isn't in the server, or make a tempban permanent, `hackban <user id> <reason>`",
			GuildOnly:   true,
		}, {
			Fn:          UnbanCommand,
			FnName:      "UnbanCommand",
			Name:        "unban",
			Description: "Unban a user, `unban <user id> <reason>`",
			GuildOnly:   true,
		}, {
			Fn:          ReportCommand,
			FnName:      "ReportCommand",
			Name:        "report",
			Description: "File a custom incident report, `report <user> <action> <reason>`",
			GuildOnly:   true,
		}, {
			Fn:          LookupCommand,
			FnName:      "LookupCommand",
			Name:        "lookup",
			Description: "Find reports by report ID, user ID or mention. Add `--receipt` to get a single report in your DMs",
			GuildOnly:   true,
		}, {
			Fn:          RecallCommand,
			FnName:      "RecallCommand",
			Name:        "recall",
			Description: "Clear a single report, `recall <report id>`",
			GuildOnly:   true,
		}, {
			Fn:          ReportingCommand,
			FnName:      "ReportingCommand",
			Name:        "reporting",
			Description: "Send report receipts to a channel, `reporting on [channel]|off`",
			GuildOnly:   true,
		}},
		Jobs: []bot.JobInfo{{
			Fn: func() (*gocron.Job, error) {
				return bot.Scheduler.Every(1).Hour().Do(ExpireTempbans)
			},
			Name: "tempban-expiry",
		}},
	}
}

func KickCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	target, reason, err := parseTarget(c)
	if err != nil {
		return err
	}

	report := fileReport(c, "Kick", reason, *target)
	receipt := ReceiptEmbed(report)

	notify(c.E.Author.ID, "User: "+target.Tag()+" is being kicked. The incident report is attached below:", receipt)
	notify(target.ID, "You have been kicked. The incident report is attached below:", receipt)

	if err := bot.Client.Kick(c.E.GuildID, target.ID, api.AuditLogReason(BanReason(reason, report.ID))); err != nil {
		return bot.GenericError(c.FnName, "kicking "+target.Tag(), err.Error())
	}

	return finish(c, fmt.Sprintf("User: %s has been kicked. Report ID: %v", target.Tag(), report.ID), receipt)
}

func BanCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	target, reason, err := parseTarget(c)
	if err != nil {
		return err
	}

	report := fileReport(c, "Ban", reason, *target)
	receipt := ReceiptEmbed(report)

	notify(c.E.Author.ID, "User: "+target.Tag()+" is being banned. The incident report is attached below:", receipt)
	notify(target.ID, "You have been banned. The incident report is attached below:", receipt)

	data := api.BanData{AuditLogReason: api.AuditLogReason(BanReason(reason, report.ID))}
	if err := bot.Client.Ban(c.E.GuildID, target.ID, data); err != nil {
		return bot.GenericError(c.FnName, "banning "+target.Tag(), err.Error())
	}

	return finish(c, fmt.Sprintf("User: %s has been banned. Report ID: %v", target.Tag(), report.ID), receipt)
}

func TempbanCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	id, argErr := cmd.ParseUserArg(c.Args, 1)
	if argErr != nil {
		return argErr
	}
	minutes, argErr := cmd.ParsePositiveInt64Arg(c.Args, 2)
	if argErr != nil {
		return argErr
	}
	reason, argErr := cmd.ParseArgsFrom(c.Args, 3)
	if argErr != nil {
		return argErr
	}

	target, err := bot.Client.User(discord.UserID(id))
	if err != nil {
		return bot.GenericError(c.FnName, "getting user "+util.GetUserMention(id), err.Error())
	}

	guildName := "the server"
	if guild, err := bot.Client.Guild(c.E.GuildID); err == nil {
		guildName = guild.Name
	}

	report := fileReport(c, "Temporary Ban", reason, *target)
	delivered := notify(target.ID, fmt.Sprintf("You have been temporarily banned from %s to give the administration team "+
		"an opportunity to further evaluate the matter. At the conclusion of their evaluation, you may be permanently banned.", guildName), ReceiptEmbed(report))

	receipt := ReceiptEmbed(report, discord.EmbedField{Name: "Target received warning DM", Value: strconv.FormatBool(delivered), Inline: true})
	notify(c.E.Author.ID, "User: "+target.Tag()+" is being temporarily banned. The incident report is attached below:", receipt)

	expires := time.Now().Add(time.Duration(minutes) * time.Minute)
	data := api.BanData{AuditLogReason: api.AuditLogReason(EncodeTempban(expires, BanReason(reason, report.ID)))}
	if err := bot.Client.Ban(c.E.GuildID, target.ID, data); err != nil {
		return bot.GenericError(c.FnName, "banning "+target.Tag(), err.Error())
	}

	return finish(c, fmt.Sprintf("User: %s has been banned for %s. Report ID: %v", target.Tag(), util.JoinInt64AndStr(minutes, "minute"), report.ID), receipt)
}

func HackbanCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	target, reason, err := parseTarget(c)
	if err != nil {
		return err
	}

	if ban, ok := findTempban(c.E.GuildID, target.ID); ok {
		if err := bot.Client.Unban(c.E.GuildID, target.ID, "Temporary reversal"); err != nil {
			return bot.GenericError(c.FnName, "lifting tempban of "+target.Tag(), err.Error())
		}
		reason = HackbanReason(reason, ban.Reason)
	}

	report := fileReport(c, "Hackban", reason, *target)
	receipt := ReceiptEmbed(report)
	notify(c.E.Author.ID, "User: "+target.Tag()+" is being banned. The incident report is attached below:", receipt)

	data := api.BanData{AuditLogReason: api.AuditLogReason(BanReason(reason, report.ID))}
	if err := bot.Client.Ban(c.E.GuildID, target.ID, data); err != nil {
		return bot.GenericError(c.FnName, "banning "+target.Tag(), err.Error())
	}

	return finish(c, fmt.Sprintf("User: %s has been banned. Report ID: %v", target.Tag(), report.ID), receipt)
}

func UnbanCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	target, reason, err := parseTarget(c)
	if err != nil {
		return err
	}

	report := fileReport(c, "Unban", reason, *target)
	receipt := ReceiptEmbed(report)

	if err := bot.Client.Unban(c.E.GuildID, target.ID, api.AuditLogReason(BanReason(reason, report.ID))); err != nil {
		return bot.GenericError(c.FnName, "unbanning "+target.Tag(), err.Error())
	}

	notify(c.E.Author.ID, "User: "+target.Tag()+" has been unbanned. The incident report is attached below:", receipt)
	return finish(c, fmt.Sprintf("User: %s has been unbanned. Report ID: %v", target.Tag(), report.ID), receipt)
}

func ReportCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	id, argErr := cmd.ParseUserArg(c.Args, 1)
	if argErr != nil {
		return argErr
	}
	action, argErr := cmd.ParseStringArg(c.Args, 2, false)
	if argErr != nil {
		return argErr
	}
	reason, argErr := cmd.ParseArgsFrom(c.Args, 3)
	if argErr != nil {
		return argErr
	}

	target, err := bot.Client.User(discord.UserID(id))
	if err != nil {
		return bot.GenericError(c.FnName, "getting user "+util.GetUserMention(id), err.Error())
	}

	report := fileReport(c, action, reason, *target)
	receipt := ReceiptEmbed(report)
	notify(c.E.Author.ID, "Incident report receipt:", receipt)
	notify(target.ID, "Incident report receipt:", receipt)

	return finish(c, fmt.Sprintf("Filed report about %s. Report ID: %v", target.Tag(), report.ID), receipt)
}

func LookupCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	arg, argErr := cmd.ParseStringArg(c.Args, 1, false)
	if argErr != nil {
		return argErr
	}
	q, argErr := parseLookup(arg)
	if argErr != nil {
		return argErr
	}

	cfg, _ := bot.FindGuildConfig(c.E.GuildID)
	found := findReports(cfg.Reports, q)

	if len(found) == 0 {
		msg := "No reports found with the user provided"
		if q.Kind == lookupReport {
			msg = "No reports found with the ID number provided"
		}
		_, err := cmd.SendEmbed(c.E, "Lookup", msg, bot.WarnColor)
		return err
	}

	embeds := make([]discord.Embed, 0, len(found))
	for _, r := range found {
		embeds = append(embeds, ReceiptEmbed(r))
	}

	for start := 0; start < len(embeds); start += receiptEmbedsMax {
		end := start + receiptEmbedsMax
		if end > len(embeds) {
			end = len(embeds)
		}
		if _, err := bot.Client.SendMessage(c.E.ChannelID, "", embeds[start:end]...); err != nil {
			return err
		}
	}

	if cmd.HasFlag(c.Args, "--receipt") && q.Kind != lookupSubject {
		if len(embeds) != 1 {
			_, err := cmd.SendEmbed(c.E, "Lookup", "Only a single report can be sent as a receipt", bot.WarnColor)
			return err
		}
		if _, err := cmd.SendDirectMessage(c.E.Author.ID, "", embeds[0]); err != nil {
			return bot.GenericError(c.FnName, "sending receipt", err.Error())
		}
	}

	return nil
}

func RecallCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	id, argErr := cmd.ParsePositiveInt64Arg(c.Args, 1)
	if argErr != nil {
		return argErr
	}

	found := false
	bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
		g.Reports, found = removeReport(g.Reports, id)
		return g, "RecallCommand"
	})

	if !found {
		_, err := cmd.SendEmbed(c.E, "Recall", "No report with that ID was found, double check the ID you entered", bot.WarnColor)
		return err
	}

	_, err := cmd.SendEmbed(c.E, "Recall", fmt.Sprintf("Report #%v successfully cleared!", id), bot.SuccessColor)
	return err
}

func ReportingCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermChannels); err != nil {
		return err
	}

	enabled, argErr := cmd.ParseBoolArg(c.Args, 1)
	if argErr != nil {
		return argErr
	}

	channel := int64(c.E.ChannelID)
	if id, err := cmd.ParseChannelArg(c.Args, 2); err == nil {
		channel = id
	}
	if !enabled {
		channel = 0
	}

	bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
		g.ReportingChannel = channel
		return g, "ReportingCommand"
	})

	if !enabled {
		_, err := cmd.SendEmbed(c.E, "Reporting", "⛔ Disabled report receipts", bot.ErrorColor)
		return err
	}

	_, err := cmd.SendEmbed(c.E, "Reporting", fmt.Sprintf("✅ Report receipts will be sent to <#%v>", channel), bot.SuccessColor)
	return err
}

// ExpireTempbans lifts every tempban whose time is up, in every guild
func ExpireTempbans() {
	defer util.LogPanic()

	guilds := make([]discord.GuildID, 0)
	bot.C.Run(func(c *bot.Config) {
		for _, g := range c.GuildConfigs {
			guilds = append(guilds, discord.GuildID(g.ID))
		}
	})

	now := time.Now()
	for _, guild := range guilds {
		bans, err := bot.Client.Bans(guild)
		if err != nil {
			log.Printf("failed to get bans of %v: %v\n", guild, err)
			continue
		}

		for _, ban := range bans {
			if !TempbanExpired(ban.Reason, now) {
				continue
			}

			if err := bot.Client.Unban(guild, ban.User.ID, "Temporary ban expired"); err != nil {
				log.Printf("failed to lift expired tempban of %v in %v: %v\n", ban.User.ID, guild, err)
			} else {
				log.Printf("lifted expired tempban of %s in %v\n", ban.User.Tag(), guild)
			}
		}
	}
}

// parseTarget reads a `<user> <reason>` pair of args
func parseTarget(c bot.Command) (*discord.User, string, error) {
	id, argErr := cmd.ParseUserArg(c.Args, 1)
	if argErr != nil {
		return nil, "", argErr
	}
	reason, argErr := cmd.ParseArgsFrom(c.Args, 2)
	if argErr != nil {
		return nil, "", argErr
	}

	user, err := bot.Client.User(discord.UserID(id))
	if err != nil {
		return nil, "", bot.GenericError(c.FnName, "getting user "+util.GetUserMention(id), err.Error())
	}

	return user, reason, nil
}

func fileReport(c bot.Command, action, reason string, subject discord.User) bot.IncidentReport {
	var report bot.IncidentReport
	bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
		report = NewReport(g.Reports, action, reason, c.E.Author, subject, time.Now())
		g.Reports = append(g.Reports, report)
		return g, "fileReport: " + c.FnName
	})
	return report
}

func findTempban(guild discord.GuildID, user discord.UserID) (discord.Ban, bool) {
	bans, err := bot.Client.Bans(guild)
	if err != nil {
		log.Printf("failed to get bans of %v: %v\n", guild, err)
		return discord.Ban{}, false
	}

	for _, ban := range bans {
		if _, _, ok := ParseTempban(ban.Reason); ok && ban.User.ID == user {
			return ban, true
		}
	}
	return discord.Ban{}, false
}

// notify DMs a receipt, returning whether it was delivered
func notify(user discord.UserID, content string, receipt discord.Embed) bool {
	if _, err := cmd.SendDirectMessage(user, content, receipt); err != nil {
		log.Printf("failed to send receipt to %v: %v\n", user, err)
		return false
	}
	return true
}

// finish replies in the command's channel and posts the receipt in the reporting channel, if there is one
func finish(c bot.Command, reply string, receipt discord.Embed) error {
	_, err := cmd.SendEmbed(c.E, "", reply, bot.SuccessColor)

	cfg, _ := bot.FindGuildConfig(c.E.GuildID)
	if cfg.ReportingChannel != 0 {
		if _, err := cmd.SendCustomEmbed(discord.ChannelID(cfg.ReportingChannel), receipt); err != nil {
			log.Printf("failed to post receipt in reporting channel: %v\n", err)
		}
	}

	return err
}
