package plugins

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/util"
	"log"
	"sync"
)

var (
	loaded   = make([]*Plugin, 0)
	removers = make([]func(), 0) // detach the handlers added by the last RegisterAll
	mutex    sync.Mutex
)

type Plugin struct {
	Name        string             // Name of the plugin to display to users
	Description string             // Description of what the plugin does
	Version     string             // Version in semver, i.e., 1.1.0
	Commands    []bot.CommandInfo  // Commands to register, could be none
	Responses   []bot.ResponseInfo // Responses to register, could be none
	Jobs        []bot.JobInfo      // Jobs to schedule, could be none
	Handlers    []bot.HandlerInfo  // Gateway event handlers to add, could be none
	StartupFn   func() error       // Optional, ran once the plugin is registered
	ShutdownFn  func()             // Optional, ran when the bot shuts down
}

func (p Plugin) String() string {
	return fmt.Sprintf("[%s, %s, %s, %v commands, %v responses, %v jobs, %v handlers]",
		p.Name, p.Description, p.Version, len(p.Commands), len(p.Responses), len(p.Jobs), len(p.Handlers))
}

// Register adds the plugin's commands, responses, jobs and handlers to the bot.
// bot.Mutex must be held by the caller.
func (p *Plugin) Register() {
	log.Printf("registering plugin: %s\n", p)

	for _, c := range p.Commands {
		for _, existing := range bot.Commands {
			if existing.Name == c.Name || util.SliceContains(existing.Aliases, c.Name) {
				log.Printf("plugin %s: command \"%s\" is already registered by %s\n", p.Name, c.Name, existing.FnName)
			}
		}
	}

	bot.Commands = append(bot.Commands, p.Commands...)
	bot.Responses = append(bot.Responses, p.Responses...)
	bot.Jobs = append(bot.Jobs, p.Jobs...)
	bot.Handlers = append(bot.Handlers, p.Handlers...)
}

// RegisterAll will register every plugin in list, replacing whatever was registered before.
// This allows reloading plugins at runtime.
func RegisterAll(list ...*Plugin) {
	mutex.Lock()
	defer mutex.Unlock()

	bot.Mutex.Lock()
	bot.Commands = make([]bot.CommandInfo, 0)
	bot.Responses = make([]bot.ResponseInfo, 0)
	for _, j := range bot.Jobs {
		_ = bot.Scheduler.RemoveByTag(j.Name)
	}
	bot.Jobs = make([]bot.JobInfo, 0)
	bot.Handlers = make([]bot.HandlerInfo, 0)

	for _, p := range list {
		p.Register()
	}

	jobs := append([]bot.JobInfo{}, bot.Jobs...)
	handlers := append([]bot.HandlerInfo{}, bot.Handlers...)
	bot.Mutex.Unlock()

	loaded = list
	registerJobs(jobs)
	registerHandlers(handlers)

	for _, p := range list {
		if p.StartupFn == nil {
			continue
		}
		if err := p.StartupFn(); err != nil {
			log.Printf("plugin %s: startup failed: %v\n", p.Name, err)
		}
	}
}

// Loaded returns the plugins registered by the last RegisterAll
func Loaded() []*Plugin {
	mutex.Lock()
	defer mutex.Unlock()

	return append([]*Plugin{}, loaded...)
}

// Reload shuts down and registers the loaded plugins again, re-running their StartupFn
func Reload() {
	list := Loaded()
	Shutdown()
	RegisterAll(list...)
}

// Shutdown runs the ShutdownFn of every loaded plugin
func Shutdown() {
	for _, p := range Loaded() {
		if p.ShutdownFn != nil {
			log.Printf("shutting down plugin: %s\n", p.Name)
			p.ShutdownFn()
		}
	}
}

func registerJobs(jobs []bot.JobInfo) {
	for _, j := range jobs {
		job, err := j.Fn()
		if err != nil {
			log.Printf("failed to schedule job %s: %v\n", j.Name, err)
			continue
		}

		job.Tag(j.Name)
		log.Printf("scheduled job %s\n", j)
	}
}

func registerHandlers(handlers []bot.HandlerInfo) {
	for _, rm := range removers {
		rm()
	}
	removers = make([]func(), 0)

	if bot.Client == nil {
		return
	}

	for _, h := range handlers {
		removers = append(removers, bot.Client.AddHandler(util.MakeHandler(h.FnType, h.Fn)))
		log.Printf("registered handler %s\n", h)
	}
}
