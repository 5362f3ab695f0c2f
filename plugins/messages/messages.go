package messages

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/plugins"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"log"
	"strings"
	"sync"
)

const (
	defaultMessagesDir = "config/messages"
	maxHistory         = 100
	maxPurge           = 1000
	maxEmbedsPerSend   = 10
	maxEmbedChars      = 6000
	bulkDeleteMin      = 2
	bulkDeleteMax      = 100
)

type canned struct {
	mutex  sync.Mutex
	loader *MessageLoader
}

func InitPlugin() *plugins.Plugin {
	m := &canned{}

	return &plugins.Plugin{
		Name:        "Messages",
		Description: "Purge and move messages, and send canned messages",
		Version:     "1.0.0",
		Commands: []bot.CommandInfo{{
			Fn:          PurgeCommand,
			FnName:      "PurgeCommand",
			Name:        "purge",
			Description: "Delete the last messages, optionally only those by one user, `purge <count> [user]`",
			GuildOnly:   true,
		}, {
			Fn:          MoveCommand,
			FnName:      "MoveCommand",
			Name:        "move",
			Description: "Move or copy messages to another channel",
			GuildOnly:   true,
		}, {
			Fn:          m.MessageCommand,
			FnName:      "MessageCommand",
			Name:        "message",
			Aliases:     []string{"msg"},
			Description: "Send a canned message, `message list|<name>`",
		}},
		StartupFn: m.load,
	}
}

func (m *canned) load() error {
	dir := defaultMessagesDir
	bot.C.Run(func(c *bot.Config) {
		if len(c.MessagesDir) > 0 {
			dir = c.MessagesDir
		}
	})

	loader, err := LoadMessages(dir)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.loader = loader
	log.Printf("loaded %v canned messages from %s\n", len(loader.Names()), dir)
	return nil
}

func (m *canned) MessageCommand(c bot.Command) error {
	m.mutex.Lock()
	loader := m.loader
	m.mutex.Unlock()

	if loader == nil {
		return bot.GenericError(c.FnName, "getting canned messages", "messages are not loaded")
	}

	available := "Available messages are: " + strings.Join(loader.Names(), ", ")
	selection, argErr := cmd.ParseStringArg(c.Args, 1, true)
	if argErr != nil {
		_, err := cmd.SendMessage(c.E, "No selection specified! "+available)
		return err
	}

	if selection == "list" {
		_, err := cmd.SendMessage(c.E, available)
		return err
	}

	msg, ok := loader.Get(selection)
	if !ok {
		_, err := cmd.SendMessage(c.E, fmt.Sprintf("Choice `%s` is invalid! %s", selection, available))
		return err
	}

	_, err := cmd.SendMessage(c.E, util.TruncateString(msg, 2000, "..."))
	return err
}

func PurgeCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	count, argErr := cmd.ParsePositiveInt64Arg(c.Args, 1)
	if argErr != nil {
		return argErr
	}
	if count > maxPurge {
		count = maxPurge
	}

	var user discord.UserID
	if id, err := cmd.ParseUserArg(c.Args, 2); err == nil {
		user = discord.UserID(id)
	}

	history, err := bot.Client.MessagesBefore(c.E.ChannelID, c.E.ID, uint(count))
	if err != nil {
		return bot.GenericError(c.FnName, "getting messages", err.Error())
	}

	msgs := selectByAuthor(history, user)
	ids := append(messageIDs(msgs), c.E.ID)
	deleteMessages(c.E.ChannelID, ids, "purged by "+c.E.Author.Tag())
	return nil
}

func MoveCommand(c bot.Command) error {
	arg, _ := cmd.ParseStringArg(c.Args, 1, true)

	var selectFn func(history []discord.Message) ([]discord.Message, *bot.Error)
	targetPos := 0

	switch arg {
	case "last", "count", "previous":
		count, argErr := cmd.ParsePositiveInt64Arg(c.Args, 2)
		if argErr != nil {
			return argErr
		}
		selectFn = func(history []discord.Message) ([]discord.Message, *bot.Error) {
			return selectLast(history, int(count)), nil
		}
		targetPos = 3
	case "from", "link":
		id, argErr := parseMessageID(c.Args, 2)
		if argErr != nil {
			return argErr
		}
		selectFn = func(history []discord.Message) ([]discord.Message, *bot.Error) {
			return selectFrom(history, id)
		}
		targetPos = 3
	case "range", "between":
		first, argErr := parseMessageID(c.Args, 2)
		if argErr != nil {
			return argErr
		}
		second, argErr := parseMessageID(c.Args, 3)
		if argErr != nil {
			return argErr
		}
		selectFn = func(history []discord.Message) ([]discord.Message, *bot.Error) {
			return selectRange(history, first, second)
		}
		targetPos = 4
	default:
		_, err := cmd.SendEmbed(c.E,
			"Move",
			"Available arguments are:\n- `last <count> <channel> [copy]`\n- `from <message id> <channel> [copy]`\n- `range <message id> <message id> <channel> [copy]`",
			bot.DefaultColor)
		return err
	}

	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	target, argErr := cmd.ParseChannelArg(c.Args, targetPos)
	if argErr != nil {
		return argErr
	}
	copyOnly, _ := cmd.ParseBoolArg(c.Args, targetPos+1)
	if s, _ := cmd.ParseStringArg(c.Args, targetPos+1, true); s == "copy" {
		copyOnly = true
	}

	history, err := bot.Client.MessagesBefore(c.E.ChannelID, c.E.ID, maxHistory)
	if err != nil {
		return bot.GenericError(c.FnName, "getting messages", err.Error())
	}

	msgs, selectErr := selectFn(history)
	if selectErr != nil {
		return selectErr
	}

	return moveMessages(c, msgs, discord.ChannelID(target), copyOnly)
}

func moveMessages(c bot.Command, msgs []discord.Message, target discord.ChannelID, copyOnly bool) error {
	if len(msgs) == 0 {
		return bot.GenericError(c.FnName, "moving messages", "no messages selected")
	}

	header, err := cmd.SendCustomMessage(target, "Moved from "+c.E.ChannelID.Mention()+":")
	if err != nil {
		return err
	}

	for _, batch := range batchEmbeds(movedEmbeds(msgs), maxEmbedsPerSend, maxEmbedChars) {
		if _, err := bot.Client.SendEmbeds(target, batch...); err != nil {
			return bot.GenericError(c.FnName, "sending moved messages", err.Error())
		}
	}

	if _, err := cmd.SendCustomMessage(c.E.ChannelID, moveReceipt(c.E.GuildID, len(msgs), target, header, copyOnly)); err != nil {
		log.Printf("failed to send move receipt: %v\n", err)
	}

	ids := []discord.MessageID{c.E.ID}
	if !copyOnly {
		ids = append(ids, messageIDs(msgs)...)
	}
	deleteMessages(c.E.ChannelID, ids, "moved by "+c.E.Author.Tag())
	return nil
}

// deleteMessages bulk deletes when possible, and falls back to deleting one at a time.
// Bulk deletion fails for messages older than two weeks.
func deleteMessages(channel discord.ChannelID, ids []discord.MessageID, reason string) {
	auditReason := api.AuditLogReason(reason)

	for start := 0; start < len(ids); start += bulkDeleteMax {
		end := start + bulkDeleteMax
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		if len(chunk) >= bulkDeleteMin {
			if err := bot.Client.DeleteMessages(channel, chunk, auditReason); err == nil {
				continue
			} else if bot.Debug {
				log.Printf("bulk delete failed, deleting one by one: %v\n", err)
			}
		}

		for _, id := range chunk {
			if err := bot.Client.DeleteMessage(channel, id, auditReason); err != nil {
				log.Printf("failed to delete message %v: %v\n", id, err)
			}
		}
	}
}
