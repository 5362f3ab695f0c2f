package cmd

import (
	"errors"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/verification"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"log"
	"net/http"
	"strconv"
)

// Discord's "Cannot send messages to this user" error code
const codeCannotMessageUser = 50007

func SendCustomEmbed(c discord.ChannelID, embed discord.Embed) (*discord.Message, error) {
	msg, err := bot.Client.SendEmbeds(
		c,
		embed,
	)
	if err != nil {
		log.Printf("Error sending embed: %v (%v)\n", err, embed)
	}
	return msg, err
}

func SendCustomMessage(c discord.ChannelID, content string) (*discord.Message, error) {
	msg, err := bot.Client.SendMessage(
		c,
		content,
	)
	if err != nil {
		log.Printf("Error sending message: %v\n", err)
	}
	return msg, err
}

func SendExternalErrorEmbed(c discord.ChannelID, cmdName string, err error) (*discord.Message, error) {
	return SendCustomEmbed(c, MakeEmbed("Error running `"+cmdName+"`", err.Error(), bot.ErrorColor))
}

func SendErrorEmbed(c bot.Command, err error) {
	_, _ = SendEmbed(c.E, "Error running `"+c.Name+"`", err.Error(), bot.ErrorColor)
}

func SendEmbed(e *gateway.MessageCreateEvent, title string, description string, color discord.Color) (*discord.Message, error) {
	return SendCustomEmbed(e.ChannelID, MakeEmbed(title, description, color))
}

func SendMessage(e *gateway.MessageCreateEvent, content string) (*discord.Message, error) {
	return SendCustomMessage(e.ChannelID, content)
}

// SendDirectMessage will DM the user with id. Errors caused by the user not accepting DMs
// are returned as verification.ErrDirectMessageBlocked.
func SendDirectMessage(id discord.UserID, content string, embeds ...discord.Embed) (*discord.Message, error) {
	channel, err := bot.Client.CreatePrivateChannel(id)
	if err != nil {
		return nil, WrapDirectMessageError(err)
	}

	msg, err := bot.Client.SendMessage(channel.ID, content, embeds...)
	if err != nil {
		return nil, WrapDirectMessageError(err)
	}
	return msg, nil
}

// SendDirectMessageOrReply will DM the author of e, and reply in e's channel instead if they don't accept DMs
func SendDirectMessageOrReply(e *gateway.MessageCreateEvent, content string) error {
	_, err := SendDirectMessage(e.Author.ID, content)
	if errors.Is(err, verification.ErrDirectMessageBlocked) {
		_, err = SendCustomMessage(e.ChannelID, e.Author.Mention()+" "+content)
	}
	return err
}

// IsDirectMessageBlocked returns if err was caused by a user not accepting direct messages
func IsDirectMessageBlocked(err error) bool {
	var httpErr *httputil.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status == http.StatusForbidden || httpErr.Code == codeCannotMessageUser
	}
	return false
}

// WrapDirectMessageError maps errors caused by the user not accepting DMs to verification.ErrDirectMessageBlocked
func WrapDirectMessageError(err error) error {
	if IsDirectMessageBlocked(err) {
		return verification.ErrDirectMessageBlocked
	}
	return err
}

// SendOperatorError logs err and forwards it to bot.C.OperatorChannel, if one is set
func SendOperatorError(fnName string, err error) {
	log.Printf("%s: %v\n", fnName, err)

	var channel int64
	bot.C.Run(func(c *bot.Config) {
		channel = c.OperatorChannel
	})

	if channel != 0 {
		_, _ = SendExternalErrorEmbed(discord.ChannelID(channel), fnName, err)
	}
}

func CreateEmbedAuthor(member discord.Member) *discord.EmbedAuthor {
	name := member.Nick
	if len(name) == 0 {
		name = member.User.Username
	}

	return CreateUserEmbedAuthor(member.User, name)
}

func CreateUserEmbedAuthor(user discord.User, name string) *discord.EmbedAuthor {
	if len(name) == 0 {
		name = user.Username
	}

	return &discord.EmbedAuthor{Name: name, Icon: user.AvatarURL()}
}

func CreateMessageLink(guild int64, message *discord.Message, jump bool) string {
	guildID := strconv.FormatInt(guild, 10)
	channel := strconv.FormatInt(int64(message.ChannelID), 10)
	messageID := strconv.FormatInt(int64(message.ID), 10)
	link := "https://discord.com/channels/" + guildID + "/" + channel + "/" + messageID

	if jump {
		return "[Jump!](" + link + ")"
	}
	return link
}

func MakeEmbed(title string, description string, color discord.Color) discord.Embed {
	return discord.Embed{
		Title:       title,
		Description: description,
		Color:       color,
	}
}
