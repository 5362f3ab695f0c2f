package members

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/plugins"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"log"
	"reflect"
	"time"
)

func InitPlugin() *plugins.Plugin {
	return &plugins.Plugin{
		Name:        "Members",
		Description: "Quarantines and welcomes new members, says goodbye to leaving ones, and tracks joined guilds",
		Version:     "1.0.0",
		Handlers: []bot.HandlerInfo{{
			Fn:     MemberJoinHandler,
			FnName: "MemberJoinHandler",
			FnType: reflect.TypeOf(func(event *gateway.GuildMemberAddEvent) {}),
		}, {
			Fn:     MemberLeaveHandler,
			FnName: "MemberLeaveHandler",
			FnType: reflect.TypeOf(func(event *gateway.GuildMemberRemoveEvent) {}),
		}, {
			Fn:     GuildJoinHandler,
			FnName: "GuildJoinHandler",
			FnType: reflect.TypeOf(func(event *gateway.GuildCreateEvent) {}),
		}, {
			Fn:     GuildLeaveHandler,
			FnName: "GuildLeaveHandler",
			FnType: reflect.TypeOf(func(event *gateway.GuildDeleteEvent) {}),
		}},
	}
}

func MemberJoinHandler(i interface{}) {
	defer util.LogPanic()
	e := i.(*gateway.GuildMemberAddEvent)

	cfg, _ := bot.FindGuildConfig(e.GuildID)
	if cfg.Verification.Enabled() && !e.User.Bot {
		data := api.AddRoleData{AuditLogReason: "new member, awaiting introduction"}
		if err := bot.Client.AddRole(e.GuildID, e.User.ID, discord.RoleID(cfg.Verification.Role), data); err != nil {
			cmd.SendOperatorError("MemberJoinHandler", bot.GenericError("MemberJoinHandler", "adding quarantine role to "+e.User.Tag(), err.Error()))
		}
	}

	if !e.User.Bot {
		if msg := welcomeMessage(); len(msg) > 0 {
			if _, err := cmd.SendDirectMessage(e.User.ID, msg); err != nil {
				log.Printf("failed to send welcome message to %v: %v\n", e.User.ID, err)
			}
		}
	}

	guild, err := bot.Client.GuildWithCount(e.GuildID)
	if err != nil {
		log.Printf("failed to get guild %v: %v\n", e.GuildID, err)
		return
	}

	embed := memberEmbed(e.User, *guild, fmt.Sprintf("Welcome to the server! You are member number %s", util.FormattedNum(int64(guild.ApproximateMembers))))
	sendSystemEmbed(*guild, embed)
}

func MemberLeaveHandler(i interface{}) {
	defer util.LogPanic()
	e := i.(*gateway.GuildMemberRemoveEvent)

	guild, err := bot.Client.Guild(e.GuildID)
	if err != nil {
		log.Printf("failed to get guild %v: %v\n", e.GuildID, err)
		return
	}

	sendSystemEmbed(*guild, memberEmbed(e.User, *guild, "Goodbye! Thank you for spending time with us!"))
}

// GuildJoinHandler makes sure every guild the bot is in has a config
func GuildJoinHandler(i interface{}) {
	defer util.LogPanic()
	e := i.(*gateway.GuildCreateEvent)

	if _, ok := bot.FindGuildConfig(e.ID); !ok {
		bot.GuildContext(e.ID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
			return g, "GuildJoinHandler"
		})
		log.Printf("created config for guild %v (%s)\n", e.ID, e.Name)
	}
}

// GuildLeaveHandler drops the config of a guild the bot was removed from. Outages are ignored.
func GuildLeaveHandler(i interface{}) {
	defer util.LogPanic()
	e := i.(*gateway.GuildDeleteEvent)

	if e.Unavailable {
		return
	}

	if bot.RemoveGuildConfig(e.ID) {
		log.Printf("removed config for guild %v\n", e.ID)
	}
}

func welcomeMessage() string {
	msg := ""
	bot.C.Run(func(c *bot.Config) {
		msg = c.WelcomeMessage
	})
	return msg
}

func memberEmbed(user discord.User, guild discord.Guild, description string) discord.Embed {
	return discord.Embed{
		Description: description,
		Author:      cmd.CreateUserEmbedAuthor(user, user.Username),
		Thumbnail:   &discord.EmbedThumbnail{URL: user.AvatarURL()},
		Footer:      &discord.EmbedFooter{Text: guild.Name, Icon: guild.IconURL()},
		Timestamp:   discord.NewTimestamp(time.Now()),
		Color:       bot.WelcomeColor,
	}
}

func sendSystemEmbed(guild discord.Guild, embed discord.Embed) {
	if !guild.SystemChannelID.IsValid() {
		return
	}

	if _, err := cmd.SendCustomEmbed(guild.SystemChannelID, embed); err != nil {
		log.Printf("failed to send member embed in %v: %v\n", guild.ID, err)
	}
}
