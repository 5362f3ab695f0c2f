package verify

import (
	"context"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/verification"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
)

// discordPlatform is the verification.Platform of a single guild, backed by bot.Client
type discordPlatform struct {
	guild discord.GuildID
}

func (d discordPlatform) client(ctx context.Context) *api.Client {
	return bot.Client.Session.Client.WithContext(ctx)
}

func (d discordPlatform) Members(ctx context.Context) ([]verification.Member, error) {
	members, err := d.client(ctx).Members(d.guild, 0)
	if err != nil {
		return nil, bot.GenericError("discordPlatform.Members", "getting members of "+d.guild.String(), err.Error())
	}

	res := make([]verification.Member, 0, len(members))
	for _, m := range members {
		res = append(res, toMember(m))
	}
	return res, nil
}

func (d discordPlatform) SendMessage(ctx context.Context, channel discord.ChannelID, text string) (discord.MessageID, error) {
	msg, err := d.client(ctx).SendMessage(channel, text)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (d discordPlatform) DirectMessage(ctx context.Context, user discord.UserID, text string) error {
	c := d.client(ctx)

	channel, err := c.CreatePrivateChannel(user)
	if err != nil {
		return cmd.WrapDirectMessageError(err)
	}

	_, err = c.SendMessage(channel.ID, text)
	return cmd.WrapDirectMessageError(err)
}

func (d discordPlatform) Kick(ctx context.Context, user discord.UserID, reason string) error {
	return d.client(ctx).Kick(d.guild, user, api.AuditLogReason(reason))
}

func (d discordPlatform) MessagesAfter(ctx context.Context, channel discord.ChannelID, after discord.MessageID) ([]discord.Message, error) {
	return d.client(ctx).MessagesAfter(channel, after, 0)
}

func toMember(m discord.Member) verification.Member {
	name := m.Nick
	if len(name) == 0 {
		name = m.User.Username
	}

	return verification.Member{
		ID:       m.User.ID,
		Name:     name,
		Roles:    append([]discord.RoleID{}, m.RoleIDs...),
		JoinedAt: m.Joined.Time(),
		Bot:      m.User.Bot,
	}
}
