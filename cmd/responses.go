package cmd

import (
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/gateway"
	"log"
	"regexp"
	"strings"
)

// ResponseHandler will run every registered response that matches the message
func ResponseHandler(e *gateway.MessageCreateEvent) {
	defer util.LogPanic()

	// Don't respond to bot messages.
	if e.Author.Bot {
		return
	}

	bot.Mutex.Lock()
	responses := append([]bot.ResponseInfo{}, bot.Responses...)
	bot.Mutex.Unlock()

	go func() {
		defer util.LogPanic()

		for _, response := range responses {
			runResponse(e, response)
		}
	}()
}

func runResponse(e *gateway.MessageCreateEvent, response bot.ResponseInfo) {
	if findResponse(e, response) {
		sendResponse(e, response)
	}
}

func sendResponse(e *gateway.MessageCreateEvent, response bot.ResponseInfo) {
	// If there is a channel whitelist, and it doesn't contain the original message's channel ID, return
	if e.ChannelID.IsValid() && len(response.LockChannels) > 0 && !util.SliceContains(response.LockChannels, int64(e.ChannelID)) {
		return
	}

	// If there is a user whitelist, and it doesn't contain the original author's ID, return
	if e.ChannelID.IsValid() && len(response.LockUsers) > 0 && !util.SliceContains(response.LockUsers, int64(e.Author.ID)) {
		return
	}

	if response.Fn != nil {
		response.Fn(bot.Response{E: e})
	}
}

func findResponse(e *gateway.MessageCreateEvent, response bot.ResponseInfo) bool {
	botID := ""
	if bot.User != nil {
		botID = bot.User.ID.String()
	}

	return matchResponse(e.Message.Content, botID, response)
}

// matchResponse returns if at least response.MatchMin of response.Regexes match content.
// DISCORD_BOT_ID in a regex is replaced with botID.
func matchResponse(content, botID string, response bot.ResponseInfo) bool {
	matched := 0
	message := []byte(content)
	for _, regex := range response.Regexes {
		regex = strings.ReplaceAll(regex, "DISCORD_BOT_ID", botID)

		found, err := regexp.Match(regex, message)
		if err != nil {
			log.Printf("Error matching \"%s\": %v\n", regex, err)
		}
		if found {
			matched += 1
		}

		if matched >= response.MatchMin {
			return true
		}
	}

	return false
}
