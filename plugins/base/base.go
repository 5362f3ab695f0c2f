package base

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/plugins"
	"github.com/5HT2/coding-bot/util"
	"github.com/5HT2C/http-bash-requests/httpBashRequests"
	"github.com/diamondburned/arikawa/v3/discord"
	"log"
	"strconv"
	"strings"
	"time"
)

const (
	maxEmbedDescription = 4096
	upToDateMessage     = "Already up to date."
)

var (
	invitePermissions = discord.PermissionViewChannel |
		discord.PermissionSendMessages |
		discord.PermissionEmbedLinks |
		discord.PermissionReadMessageHistory |
		discord.PermissionManageMessages |
		discord.PermissionManageRoles |
		discord.PermissionKickMembers |
		discord.PermissionBanMembers
)

func InitPlugin() *plugins.Plugin {
	return &plugins.Plugin{
		Name:        "Base",
		Description: "The base commands and responses included as part of the bot",
		Version:     "1.1.0",
		Commands: []bot.CommandInfo{{
			Fn:          InviteCommand,
			FnName:      "InviteCommand",
			Name:        "invite",
			Description: "Invite the bot to your own server!",
		}, {
			Fn:          HelpCommand,
			FnName:      "HelpCommand",
			Name:        "help",
			Description: "Print a list of available commands, or the usage of one",
			Aliases:     []string{"h"},
		}, {
			Fn:          PingCommand,
			FnName:      "PingCommand",
			Name:        "ping",
			Description: "Returns the current API latency",
		}, {
			Fn:          PrefixCommand,
			FnName:      "PrefixCommand",
			Name:        "prefix",
			Description: "Set the bot prefix for your guild",
			GuildOnly:   true,
		}, {
			Fn:          PermissionCommand,
			FnName:      "PermissionCommand",
			Name:        "permission",
			Aliases:     []string{"perm"},
			Description: "Manage user permissions, `permission give|revoke <permission> <user>` or `permission op`",
			GuildOnly:   true,
		}, {
			Fn:          ProfilePicCommand,
			FnName:      "ProfilePicCommand",
			Name:        "profilepic",
			Aliases:     []string{"pfp"},
			Description: "Get the profile picture of someone",
		}, {
			Fn:          PoweroffCommand,
			FnName:      "PoweroffCommand",
			Name:        "poweroff",
			Description: "Turns off the bot",
		}, {
			Fn:          RebootCommand,
			FnName:      "RebootCommand",
			Name:        "reboot",
			Description: "Reconnects the bot and reloads its config from disk",
		}, {
			Fn:          ReloadCommand,
			FnName:      "ReloadCommand",
			Name:        "reload",
			Description: "Reloads every plugin, `reload pull` runs `git pull` first",
		}, {
			Fn:          UpdateCommand,
			FnName:      "UpdateCommand",
			Name:        "update",
			Description: "Runs `git pull` and exits so the bot can be rebuilt",
		}},
		Responses: []bot.ResponseInfo{{
			Fn:       PrefixResponse,
			Regexes:  []string{"<@!?DISCORD_BOT_ID>", "prefix"},
			MatchMin: 2,
		}},
	}
}

func HelpCommand(c bot.Command) error {
	name, _ := cmd.ParseStringArg(c.Args, 1, true)

	bot.Mutex.Lock()
	commands := append([]bot.CommandInfo{}, bot.Commands...)
	bot.Mutex.Unlock()

	text, ok := helpText(commands, name)
	if !ok {
		return bot.GenericError(c.FnName, "finding command", "no command named `"+name+"`")
	}

	_, err := cmd.SendCustomEmbed(c.E.ChannelID, discord.Embed{
		Title:       "Help",
		Description: text,
		Footer:      &discord.EmbedFooter{Text: "The current prefix is " + cmd.GuildPrefix(c.E.GuildID)},
		Color:       bot.DefaultColor,
	})
	return err
}

// helpText lists every command, or only the command called name when it isn't empty
func helpText(commands []bot.CommandInfo, name string) (string, bool) {
	fmtCmds := make([]string, 0)
	for _, command := range commands {
		if len(name) > 0 && command.Name != name && !util.SliceContains(command.Aliases, name) {
			continue
		}
		fmtCmds = append(fmtCmds, command.MarkdownString())
	}

	if len(fmtCmds) == 0 {
		return "", false
	}

	return util.TruncateString(strings.Join(fmtCmds, "\n\n"), maxEmbedDescription, "..."), true
}

func InviteCommand(c bot.Command) error {
	_, err := cmd.SendEmbed(c.E,
		bot.User.Username+" invite",
		"[Click to add me to your own server!]("+inviteURL(bot.User.ID, invitePermissions)+")",
		bot.SuccessColor,
	)
	return err
}

func inviteURL(id discord.UserID, perms discord.Permissions) string {
	return fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%v&permissions=%v&scope=bot", id, uint64(perms))
}

func PingCommand(c bot.Command) error {
	if msg, err := cmd.SendEmbed(c.E,
		"Ping!",
		"Waiting for API response...",
		bot.DefaultColor); err != nil {
		return err
	} else {
		curTime := time.Now().UnixMilli()
		msgTime := msg.Timestamp.Time().UnixMilli()

		embed := cmd.MakeEmbed("Pong!", "Latency is "+strconv.FormatInt(curTime-msgTime, 10)+"ms", bot.SuccessColor)
		_, err = bot.Client.EditMessage(msg.ChannelID, msg.ID, "", embed)
		return err
	}
}

func PrefixCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermChannels); err != nil {
		return err
	}

	arg, argErr := cmd.ParseAllArgs(c.Args)
	if argErr != nil {
		return argErr
	}

	arg = cleanPrefix(arg)
	if len(arg) == 0 {
		return bot.GenericError(c.FnName, "getting prefix", "prefix is empty")
	}

	// Prefix is okay, set it in the cache
	bot.C.Run(func(config *bot.Config) {
		config.PrefixCache[int64(c.E.GuildID)] = arg
	})

	// Also set it in the guild
	bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
		g.Prefix = arg
		return g, "PrefixCommand"
	})

	embed := discord.Embed{
		Description: "Set prefix to `" + arg + "`.",
		Footer:      &discord.EmbedFooter{Text: "At any time you can ping the bot with the word \"prefix\" to get the current prefix"},
		Color:       bot.SuccessColor,
	}
	_, err := cmd.SendCustomEmbed(c.E.ChannelID, embed)
	return err
}

// cleanPrefix filters out whitespace and backticks, which would break the code block the prefix is shown in
func cleanPrefix(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '`' || r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, s)
}

func PrefixResponse(r bot.Response) {
	_, _ = cmd.SendEmbed(r.E, "", fmt.Sprintf("The current prefix is `%s`", cmd.GuildPrefix(r.E.GuildID)), bot.DefaultColor)
}

func PermissionCommand(c bot.Command) error {
	arg1, _ := cmd.ParseStringArg(c.Args, 1, true)

	switch arg1 {
	case "give", "revoke":
		if err := cmd.HasPermission(c, cmd.PermPermissions); err != nil {
			return err
		}

		permission, argErr := cmd.ParseStringArg(c.Args, 2, true)
		if argErr != nil {
			return argErr
		}
		id, argErr := cmd.ParseUserArg(c.Args, 3)
		if argErr != nil {
			return argErr
		}

		if arg1 == "give" {
			if err := cmd.GivePermission(c, permission, id); err != nil {
				return err
			}
			_, err := cmd.SendEmbed(c.E,
				"Permissions",
				"Successfully gave "+util.GetUserMention(id)+" permission to use \""+permission+"\"",
				bot.SuccessColor)
			return err
		}

		if err := cmd.RevokePermission(c, permission, id); err != nil {
			return err
		}
		_, err := cmd.SendEmbed(c.E,
			"Permissions",
			"Successfully revoked \""+permission+"\" from "+util.GetUserMention(id),
			bot.SuccessColor)
		return err
	case "op":
		id := int64(c.E.Author.ID)
		if !cmd.IsOperator(c.E.Author.ID) && !isAdministrator(c) {
			return bot.GenericError(c.FnName, "granting operator access", "user is not a bot operator or server administrator")
		}

		results := make([]error, 0)
		for _, p := range cmd.Permissions {
			if p == cmd.PermOperator {
				continue
			}
			results = append(results, cmd.GivePermission(c, p.String(), id))
		}

		desc, color := opSummary(results)
		_, err := cmd.SendEmbed(c.E, "Permissions", desc, color)
		return err
	default:
		_, err := cmd.SendEmbed(c.E,
			"Permissions",
			"Available arguments are:\n- `give <permission> <user>`\n- `revoke <permission> <user>`\n- `op`\n\n"+
				"Permissions are: "+permissionNames(),
			bot.DefaultColor)
		return err
	}
}

func isAdministrator(c bot.Command) bool {
	perms, err := bot.Client.Permissions(c.E.ChannelID, c.E.Author.ID)
	if err != nil {
		log.Printf("failed to get permissions of %v: %v\n", c.E.Author.ID, err)
		return false
	}
	return perms.Has(discord.PermissionAdministrator)
}

// opSummary describes the result of granting each permission, in the order of cmd.Permissions
func opSummary(results []error) (string, discord.Color) {
	errs := 0
	responses := make([]string, 0)
	n := 0

	for _, p := range cmd.Permissions {
		if p == cmd.PermOperator {
			continue
		}
		if n >= len(results) {
			break
		}

		if err := results[n]; err != nil {
			responses = append(responses, fmt.Sprintf("⛔ Failed to give \"%s\" permission: %s", p, err.Error()))
			errs += 1
		} else {
			responses = append(responses, fmt.Sprintf("✅ Granted \"%s\" permission", p))
		}
		n++
	}

	color := bot.SuccessColor
	if errs == len(results) {
		color = bot.ErrorColor
	} else if errs > 0 {
		color = bot.WarnColor
	}

	return strings.Join(responses, "\n"), color
}

func permissionNames() string {
	return util.SliceJoin(cmd.Permissions, ", ", func(p cmd.Permission) *string {
		if p == cmd.PermOperator {
			return nil
		}
		s := "`" + p.String() + "`"
		return &s
	})
}

func ProfilePicCommand(c bot.Command) error {
	user := c.E.Author
	name := user.Username
	if c.E.Member != nil && len(c.E.Member.Nick) > 0 {
		name = c.E.Member.Nick
	}

	if id, argErr := cmd.ParseUserArg(c.Args, 1); argErr == nil {
		u, err := bot.Client.User(discord.UserID(id))
		if err != nil {
			return bot.GenericError(c.FnName, "getting user", err.Error())
		}
		user = *u
		name = u.Username
	}

	url := user.AvatarURL() + "?size=2048"
	e := discord.Embed{
		Title: name,
		URL:   url,
		Image: &discord.EmbedImage{URL: url},
		Color: discord.NullColor,
	}
	_, err := cmd.SendCustomEmbed(c.E.ChannelID, e)
	return err
}

func PoweroffCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermOperator); err != nil {
		return err
	}

	if err := bot.WritePoweroffMarker(); err != nil {
		return bot.GenericError(c.FnName, "writing poweroff marker", err.Error())
	}

	_, _ = cmd.SendEmbed(c.E, "Poweroff", "Bot is being desummoned.", bot.WarnColor)
	bot.RequestStop(bot.StopExit)
	return nil
}

func RebootCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermOperator); err != nil {
		return err
	}

	_, _ = cmd.SendEmbed(c.E, "Reboot", "Rebooting...", bot.WarnColor)
	bot.RequestStop(bot.StopRestart)
	return nil
}

func ReloadCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermOperator); err != nil {
		return err
	}

	if arg, _ := cmd.ParseStringArg(c.Args, 1, true); arg == "pull" {
		out, err := gitPull()
		if err != nil {
			return bot.GenericError(c.FnName, "pulling files", err.Error())
		}

		if upToDate(out) {
			_, err = cmd.SendEmbed(c.E, "Reload", "I'm already up to date.", bot.DefaultColor)
			return err
		}
		_, _ = cmd.SendEmbed(c.E, "Reload", "Pulling files from git...\n"+codeBlock(out), bot.DefaultColor)
	}

	plugins.Reload()

	_, err := cmd.SendEmbed(c.E, "Reload", fmt.Sprintf("Reloaded %s", util.JoinIntAndStr(len(plugins.Loaded()), "plugin")), bot.SuccessColor)
	return err
}

func UpdateCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermOperator); err != nil {
		return err
	}

	out, err := gitPull()
	if err != nil {
		return bot.GenericError(c.FnName, "pulling files", err.Error())
	}

	if upToDate(out) {
		_, err = cmd.SendEmbed(c.E, "Update", "I'm already up to date.", bot.DefaultColor)
		return err
	}

	_, _ = cmd.SendEmbed(c.E, "Update", "Updated:\n"+codeBlock(out)+"\nExiting to rebuild...", bot.WarnColor)
	bot.RequestStop(bot.StopExit)
	return nil
}

func gitPull() (string, error) {
	res, err := httpBashRequests.Run("git pull")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res)), nil
}

func upToDate(out string) bool {
	return strings.Contains(out, upToDateMessage)
}

func codeBlock(s string) string {
	return "```\n" + util.TruncateString(s, 1800, "...") + "\n```"
}
