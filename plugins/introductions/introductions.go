package introductions

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/classifier"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/plugins"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"log"
	"reflect"
	"regexp"
	"strings"
)

func InitPlugin() *plugins.Plugin {
	return &plugins.Plugin{
		Name:        "Introductions",
		Description: "Assigns roles based on introductions, and keeps unverified members in the introduction channel",
		Version:     "1.0.0",
		Commands: []bot.CommandInfo{{
			Fn:          RolesCommand,
			FnName:      "RolesCommand",
			Name:        "roles",
			Aliases:     []string{"categories"},
			Description: "List the roles that can be picked up from an introduction, `roles reaction <emoji>` sets the reaction added to accepted ones",
			GuildOnly:   true,
		}},
		Handlers: []bot.HandlerInfo{{
			Fn:     IntroductionHandler,
			FnName: "IntroductionHandler",
			FnType: reflect.TypeOf(func(event *gateway.MessageCreateEvent) {}),
		}},
	}
}

func IntroductionHandler(i interface{}) {
	defer util.LogPanic()
	e := i.(*gateway.MessageCreateEvent)

	if e.Author.Bot || !e.GuildID.IsValid() || e.Member == nil {
		return
	}

	cfg, ok := bot.FindGuildConfig(e.GuildID)
	if !ok {
		return
	}

	introChannel := discord.ChannelID(cfg.Verification.Channel)
	quarantine := discord.RoleID(cfg.Verification.Role)

	switch {
	case introChannel.IsValid() && e.ChannelID == introChannel:
		// Commands are still allowed in the introduction channel
		if strings.HasPrefix(e.Content, cmd.GuildPrefix(e.GuildID)) {
			return
		}
		handleIntroduction(e, cfg)
	case cfg.Verification.Enabled() && util.SliceContains(e.Member.RoleIDs, quarantine):
		handleUnverifiedMessage(e, introChannel)
	}
}

func handleIntroduction(e *gateway.MessageCreateEvent, cfg bot.GuildConfig) {
	t, err := GuildTaxonomy(e.GuildID, cfg)
	if err != nil {
		cmd.SendOperatorError("IntroductionHandler", err)
		return
	}

	res := classifier.Classify(e.Content, e.Member.RoleIDs, discord.RoleID(cfg.Verification.Role), t)
	if bot.Debug {
		log.Printf("introduction from %v classified as %s: %v\n", e.Author.ID, res.Decision, res.Detected)
	}

	if err := applyResult(e.GuildID, e.Author.ID, e.Member.RoleIDs, res); err != nil {
		cmd.SendOperatorError("IntroductionHandler", err)
	}

	if err := bot.Client.React(e.ChannelID, e.ID, DecisionReaction(res.Decision, cfg.Roles.Reaction)); err != nil {
		log.Printf("failed to react to introduction from %v: %v\n", e.Author.ID, err)
	}

	if err := cmd.SendDirectMessageOrReply(e, res.Reply); err != nil {
		log.Printf("failed to send introduction reply to %v: %v\n", e.Author.ID, err)
	}
}

// DecisionReaction is the configured reaction for introductions that were accepted, and a warning otherwise
func DecisionReaction(d classifier.Decision, configured string) discord.APIEmoji {
	switch d {
	case classifier.Accept, classifier.PartialRemoval:
		if len(configured) == 0 {
			return bot.CheckEmoji
		}
		e, err := bot.ConfigEmojiAsApiEmoji(configured)
		if err != nil {
			log.Printf("invalid introduction reaction \"%s\": %v\n", configured, err)
		}
		return e
	default:
		return bot.WarningEmoji
	}
}

// applyResult adds roles before removing any, so the quarantine role is only lifted once every role was given
func applyResult(guild discord.GuildID, user discord.UserID, current []discord.RoleID, res classifier.Result) error {
	reason := api.AuditLogReason("introduction: " + res.Decision.String())

	for _, r := range res.Add {
		if util.SliceContains(current, r.ID) {
			continue
		}

		if err := bot.Client.AddRole(guild, user, r.ID, api.AddRoleData{AuditLogReason: reason}); err != nil {
			return bot.GenericError("applyResult", "adding role "+r.Name, err.Error())
		}
	}

	for _, id := range res.Remove {
		if err := bot.Client.RemoveRole(guild, user, id, reason); err != nil {
			return bot.GenericError("applyResult", "removing role "+id.Mention(), err.Error())
		}
	}

	return nil
}

func handleUnverifiedMessage(e *gateway.MessageCreateEvent, introChannel discord.ChannelID) {
	if err := bot.Client.DeleteMessage(e.ChannelID, e.ID, "member has not introduced themselves yet"); err != nil {
		log.Printf("failed to delete message from unverified member %v: %v\n", e.Author.ID, err)
	}

	if _, err := cmd.SendDirectMessage(e.Author.ID, UnverifiedMessage(introChannel)); err != nil {
		log.Printf("failed to tell unverified member %v to introduce themselves: %v\n", e.Author.ID, err)
	}
}

func UnverifiedMessage(introChannel discord.ChannelID) string {
	channel := "the introduction channel"
	if introChannel.IsValid() {
		channel = introChannel.Mention()
	}

	return "Before you can send messages, please introduce yourself in " + channel
}

var customEmojiRegex = regexp.MustCompile(`^<(a?):(\w+):(\d+)>$`)

func RolesCommand(c bot.Command) error {
	if arg, _ := cmd.ParseStringArg(c.Args, 1, true); arg == "reaction" {
		return setReaction(c)
	}

	cfg, _ := bot.FindGuildConfig(c.E.GuildID)
	t, err := GuildTaxonomy(c.E.GuildID, cfg)
	if err != nil {
		return err
	}

	lines := make([]string, 0)
	for _, category := range t.Categories() {
		names := make([]string, 0, len(category.Roles))
		for _, r := range category.Roles {
			names = append(names, r.Name)
		}
		lines = append(lines, fmt.Sprintf("**%s**\n%s", category.Name, strings.Join(names, ", ")))
	}

	if other := t.Uncategorized(); len(other) > 0 {
		names := make([]string, 0, len(other))
		for _, r := range other {
			names = append(names, r.Name)
		}
		lines = append(lines, "**Other**\n"+strings.Join(names, ", "))
	}

	if reaction, err := bot.FormatEncodedEmoji(cfg.Roles.Reaction); err == nil && len(reaction) > 0 {
		lines = append(lines, "Accepted introductions get a "+reaction+" reaction")
	}

	embed := discord.Embed{
		Title:       "Introduction Roles",
		Description: util.TruncateString(strings.Join(lines, "\n\n"), 4096, "..."),
		Footer:      &discord.EmbedFooter{Text: "Mention at least one role from every category in your introduction"},
		Color:       bot.DefaultColor,
	}
	_, err = cmd.SendCustomEmbed(c.E.ChannelID, embed)
	return err
}

func setReaction(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermPermissions); err != nil {
		return err
	}

	arg, argErr := cmd.ParseStringArg(c.Args, 2, false)
	if argErr != nil {
		return argErr
	}

	encoded := EncodeReaction(arg)
	emoji, err := bot.ConfigEmojiAsApiEmoji(encoded)
	if err != nil {
		return bot.GenericSyntaxError(c.FnName, arg, "expected an emoji")
	}

	if err := bot.Client.React(c.E.ChannelID, c.E.ID, emoji); err != nil {
		return bot.GenericError(c.FnName, "testing reaction", err.Error())
	}

	bot.GuildContext(c.E.GuildID, func(g *bot.GuildConfig) (*bot.GuildConfig, string) {
		g.Roles.Reaction = encoded
		return g, "RolesCommand: set reaction"
	})

	_, err = cmd.SendEmbed(c.E, "Introduction Roles", "Set the reaction for accepted introductions to "+arg, bot.SuccessColor)
	return err
}

// EncodeReaction converts a unicode emoji or a custom emoji mention into its config form
func EncodeReaction(s string) string {
	if m := customEmojiRegex.FindStringSubmatch(s); m != nil {
		e := discord.APIEmoji(m[2] + ":" + m[3])
		return bot.ApiEmojiAsConfig(&e, m[1] == "a")
	}

	e := discord.APIEmoji(s)
	return bot.ApiEmojiAsConfig(&e, false)
}
