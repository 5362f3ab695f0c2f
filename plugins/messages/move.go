package messages

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/discord"
	"strconv"
	"strings"
	"unicode/utf8"
)

const zeroWidthSpace = "\u200B"

// History is newest first, the way the API returns it.
// Every selection keeps that order, movedEmbeds puts it back in chronological order.

func selectLast(history []discord.Message, count int) []discord.Message {
	if count > len(history) {
		count = len(history)
	}
	if count < 0 {
		count = 0
	}
	return history[:count]
}

// selectFrom returns every message from id up to the newest, inclusive
func selectFrom(history []discord.Message, id discord.MessageID) ([]discord.Message, *bot.Error) {
	for n, m := range history {
		if m.ID == id {
			return history[:n+1], nil
		}
	}
	return nil, bot.GenericError("selectFrom", "finding message", "unable to find message with ID: "+id.String())
}

// selectRange returns the messages between first and second, inclusive, in either order
func selectRange(history []discord.Message, first, second discord.MessageID) ([]discord.Message, *bot.Error) {
	start, end := -1, -1
	for n, m := range history {
		if m.ID == first || m.ID == second {
			if start == -1 {
				start = n
			}
			end = n
		}
	}

	missing := make([]string, 0)
	for _, id := range []discord.MessageID{first, second} {
		found := false
		for _, m := range history {
			if m.ID == id {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, id.String())
		}
	}

	if len(missing) > 0 {
		return nil, bot.GenericError("selectRange", "finding messages", "unable to find message with ID: "+strings.Join(missing, ", "))
	}

	return history[start : end+1], nil
}

// selectByAuthor filters history to the messages sent by user. A zero user matches everyone.
func selectByAuthor(history []discord.Message, user discord.UserID) []discord.Message {
	if !user.IsValid() {
		return history
	}

	res := make([]discord.Message, 0)
	for _, m := range history {
		if m.Author.ID == user {
			res = append(res, m)
		}
	}
	return res
}

// movedEmbeds converts messages (newest first) into embeds in chronological order.
// Messages that already have embeds are carried over as they are.
func movedEmbeds(msgs []discord.Message) []discord.Embed {
	embeds := make([]discord.Embed, 0, len(msgs))

	for n := len(msgs) - 1; n >= 0; n-- {
		m := msgs[n]
		if len(m.Embeds) > 0 {
			embeds = append(embeds, m.Embeds...)
			continue
		}

		content := m.Content
		for _, a := range m.Attachments {
			content += "\n" + a.URL
		}

		embeds = append(embeds, discord.Embed{
			Description: util.TruncateString(zeroWidthSpace+content, 4096, "..."),
			Author:      movedAuthor(m),
			Timestamp:   m.Timestamp,
		})
	}

	return embeds
}

// movedAuthor prefers the guild nickname, when the message carries member data
func movedAuthor(m discord.Message) *discord.EmbedAuthor {
	if m.Member == nil {
		return cmd.CreateUserEmbedAuthor(m.Author, m.Author.Username)
	}

	member := *m.Member
	member.User = m.Author
	return cmd.CreateEmbedAuthor(member)
}

// embedLength counts the characters Discord limits per message, across all of an embed's text
func embedLength(e discord.Embed) int {
	n := utf8.RuneCountInString(e.Title) + utf8.RuneCountInString(e.Description)
	if e.Footer != nil {
		n += utf8.RuneCountInString(e.Footer.Text)
	}
	if e.Author != nil {
		n += utf8.RuneCountInString(e.Author.Name)
	}
	for _, f := range e.Fields {
		n += utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
	}
	return n
}

// batchEmbeds splits embeds into sendable groups, each holding at most maxCount embeds and maxChars characters.
// An embed over maxChars on its own still gets a batch of its own.
func batchEmbeds(embeds []discord.Embed, maxCount, maxChars int) [][]discord.Embed {
	batches := make([][]discord.Embed, 0)
	cur := make([]discord.Embed, 0, maxCount)
	chars := 0

	for _, e := range embeds {
		n := embedLength(e)
		if len(cur) > 0 && (len(cur) >= maxCount || chars+n > maxChars) {
			batches = append(batches, cur)
			cur = make([]discord.Embed, 0, maxCount)
			chars = 0
		}
		cur = append(cur, e)
		chars += n
	}

	if len(cur) > 0 {
		batches = append(batches, cur)
	}
	return batches
}

func moveReceipt(guild discord.GuildID, count int, target discord.ChannelID, header *discord.Message, copyOnly bool) string {
	verb := "Moved"
	if copyOnly {
		verb = "Copied"
	}

	noun := "messages"
	if count == 1 {
		noun = "message"
	}

	return fmt.Sprintf("%s %v %s to %s %s", verb, count, noun, target.Mention(), cmd.CreateMessageLink(int64(guild), header, true))
}

func messageIDs(msgs []discord.Message) []discord.MessageID {
	ids := make([]discord.MessageID, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	return ids
}

func parseMessageID(a []string, pos int) (discord.MessageID, *bot.Error) {
	s, err := cmd.ParseStringArg(a, pos, false)
	if err != nil {
		return 0, err
	}

	id, convErr := strconv.ParseUint(s, 10, 64)
	if convErr != nil {
		return 0, bot.GenericSyntaxError("parseMessageID", s, "expected a message ID")
	}
	return discord.MessageID(id), nil
}
