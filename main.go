package main

import (
	"bufio"
	"flag"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/plugins"
	"github.com/5HT2/coding-bot/plugins/base"
	"github.com/5HT2/coding-bot/plugins/fun"
	"github.com/5HT2/coding-bot/plugins/introductions"
	"github.com/5HT2/coding-bot/plugins/members"
	"github.com/5HT2/coding-bot/plugins/messages"
	"github.com/5HT2/coding-bot/plugins/moderation"
	"github.com/5HT2/coding-bot/plugins/stats"
	"github.com/5HT2/coding-bot/plugins/verify"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/joho/godotenv"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
)

var (
	lastExitCode = flag.Int64("exited", 0, "Called by Dockerfile")
	debugLog     = flag.Bool("debug", false, "Debug messages")
	debugLogFile = "/tmp/coding-bot.log"
)

func main() {
	flag.Parse()
	log.Printf("Running on Go version: %s\n", runtime.Version())
	bot.Debug = *debugLog

	if err := setupConfig(); err != nil {
		log.Fatalf("Failed to set up config: %v\n", err)
	}

	// program has been called with -exited, upload the logs and don't run the bot
	if *lastExitCode > 0 {
		if err := bot.LoadConfig(); err != nil {
			log.Fatalf("Failed to load config: %v\n", err)
		}
		bot.Client = newState()
		checkExited()
		os.Exit(int(*lastExitCode))
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	util.RegisterHttpBashRequests()
	bot.Scheduler.StartAsync()

	for !bot.PoweroffRequested() {
		if run(signals) == bot.StopExit {
			break
		}
		log.Printf("Restarting...\n")
	}

	bot.Scheduler.Stop()

	// Remove the marker so the bot turns on next time
	if err := bot.ClearPoweroffMarker(); err != nil {
		log.Printf("Failed to remove poweroff marker: %v\n", err)
	}
}

// setupConfig writes an initial config on the first run, with the token from BOT_TOKEN or a .env file
func setupConfig() error {
	if bot.ConfigExists() {
		return nil
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Not loading .env: %v\n", err)
	}

	log.Printf("No config found at %s, creating one\n", bot.ConfigPath)
	return bot.BootstrapConfig(os.Getenv("BOT_TOKEN"))
}

// run connects the bot and blocks until it is asked to stop
func run(signals <-chan os.Signal) bot.StopMode {
	if err := bot.LoadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	token := ""
	bot.C.Run(func(c *bot.Config) {
		token = c.BotToken
	})
	if len(token) == 0 {
		log.Fatalln("No bot_token given")
	}

	s := newState()
	bot.Client = s

	s.AddHandler(cmd.CommandHandler)
	s.AddHandler(cmd.ResponseHandler)

	u, err := s.Me()
	if err != nil {
		log.Fatalln("Failed to get bot user:", err)
	}
	bot.User = u

	plugins.RegisterAll(
		base.InitPlugin(),
		introductions.InitPlugin(),
		members.InitPlugin(),
		verify.InitPlugin(),
		moderation.InitPlugin(),
		messages.InitPlugin(),
		fun.InitPlugin(),
		stats.InitPlugin(),
	)
	bot.SetupConfigSaving()

	if err := s.Open(bot.Ctx); err != nil {
		log.Fatalln("Failed to connect:", err)
	}

	log.Printf("Started as %v (%s)\n", u.ID, u.Tag())

	mode := bot.StopExit
	select {
	case sig := <-signals:
		log.Printf("Received %v, shutting down\n", sig)
	case mode = <-bot.StopRequests():
	}

	plugins.Shutdown()
	bot.SaveConfig()
	bot.Scheduler.Clear()

	if err := s.Close(); err != nil {
		log.Printf("Failed to close session: %v\n", err)
	}

	return mode
}

func newState() *state.State {
	token := ""
	bot.C.Run(func(c *bot.Config) {
		token = c.BotToken
	})

	return state.NewWithIntents("Bot "+token,
		gateway.IntentGuilds,
		gateway.IntentGuildMembers,
		gateway.IntentGuildBans,
		gateway.IntentGuildMessages,
		gateway.IntentDirectMessages,
		gateway.IntentMessageContent,
	)
}

func checkExited() {
	log.Printf("Last exit code was %v\n", *lastExitCode)

	channel := int64(0)
	ops := make([]int64, 0)
	bot.C.Run(func(c *bot.Config) {
		channel = c.OperatorChannel
		ops = c.OperatorIDs
	})

	if channel == 0 || len(ops) == 0 {
		log.Printf("Not uploading logs, OperatorChannel or OperatorIDs were not set\n")
		return
	}

	file, err := os.Open(debugLogFile)
	if err != nil {
		log.Fatalln(err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		log.Fatalln(err)
	}

	// Format stacktrace
	stack := util.GetUserMention(ops[0]) + "\n```\n" + strings.Join(lines, "\n")
	stack = util.TruncateString(stack, 1996, "") + "\n```"

	if _, err = bot.Client.SendMessage(discord.ChannelID(channel), stack); err != nil {
		log.Fatalln(err)
	}
}
