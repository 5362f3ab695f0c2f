package cmd

import (
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"log"
	"strings"
)

// CommandHandler will parse commands and run the appropriate command func
func CommandHandler(e *gateway.MessageCreateEvent) {
	defer util.LogPanic()

	// Don't respond to bot messages.
	if e.Author.Bot {
		return
	}

	cmdName, cmdArgs := extractCommand(e.Message)
	if len(cmdName) == 0 {
		return
	}

	cmdInfo := GetCommandWithName(cmdName)
	if cmdInfo != nil {
		command := bot.Command{E: e, FnName: cmdInfo.FnName, Name: cmdName, Args: cmdArgs}

		if cmdInfo.GuildOnly && !e.GuildID.IsValid() {
			_, err := SendEmbed(e, "Error", "The `"+cmdInfo.Name+"` command only works in guilds!", bot.ErrorColor)
			if err != nil {
				log.Printf("Error with \"%s\" command (Cancelled): %v\n", cmdName, err)
			}
			return
		}

		if err := cmdInfo.Fn(command); err != nil {
			log.Printf("Error with \"%s\" command: %v\n", cmdName, err)
			SendErrorEmbed(command, err)
		}
	}
}

// GuildPrefix returns the cached prefix for id, or bot.DefaultPrefix
func GuildPrefix(id discord.GuildID) string {
	prefix := bot.DefaultPrefix
	bot.C.Run(func(c *bot.Config) {
		if p, ok := c.PrefixCache[int64(id)]; ok && len(p) > 0 {
			prefix = p
		}
	})
	return prefix
}

// extractCommand will extract a command name and args from a message with a prefix
func extractCommand(message discord.Message) (string, []string) {
	prefix := ""
	if message.GuildID.IsValid() {
		prefix = GuildPrefix(message.GuildID)
	}

	return splitCommand(message.Content, prefix)
}

// splitCommand will return the lowercase command name and the args of content, or "" if content doesn't start with prefix
func splitCommand(content, prefix string) (string, []string) {
	// If command doesn't start with the prefix, or it's just the prefix
	if !strings.HasPrefix(content, prefix) || len(content) < (1+len(prefix)) {
		return "", []string{}
	}

	// Remove prefix, then split on any whitespace so newlines work as separators too
	contentArr := strings.Fields(content[len(prefix):])
	if len(contentArr) == 0 {
		return "", []string{}
	}

	return strings.ToLower(contentArr[0]), contentArr[1:]
}

// GetCommandWithName will return the found CommandInfo with a matching name or alias
func GetCommandWithName(name string) *bot.CommandInfo {
	bot.Mutex.Lock()
	defer bot.Mutex.Unlock()

	for _, cmd := range bot.Commands {
		if cmd.Name == name || util.SliceContains(cmd.Aliases, name) {
			return &cmd
		}
	}
	return nil
}
