package plugins

import (
	"testing"

	"github.com/5HT2/coding-bot/bot"
	"github.com/go-co-op/gocron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlugin(name string, started *int) *Plugin {
	return &Plugin{
		Name:        name,
		Description: "test plugin",
		Version:     "1.0.0",
		Commands: []bot.CommandInfo{{
			Fn:     func(bot.Command) error { return nil },
			FnName: name + "Command",
			Name:   name,
		}},
		Responses: []bot.ResponseInfo{{
			Fn:       func(bot.Response) {},
			Regexes:  []string{name},
			MatchMin: 1,
		}},
		Jobs: []bot.JobInfo{{
			Fn: func() (*gocron.Job, error) {
				return bot.Scheduler.Every(1).Hour().Do(func() {})
			},
			Name: name + "-job",
		}},
		StartupFn: func() error {
			*started++
			return nil
		},
	}
}

func TestRegisterAll(t *testing.T) {
	started := 0
	RegisterAll(testPlugin("one", &started), testPlugin("two", &started))

	require.Len(t, bot.Commands, 2)
	assert.Equal(t, "one", bot.Commands[0].Name)
	assert.Equal(t, "two", bot.Commands[1].Name)
	assert.Len(t, bot.Responses, 2)
	assert.Len(t, bot.Jobs, 2)
	assert.Equal(t, 2, started)
	assert.Len(t, Loaded(), 2)

	jobs, err := bot.Scheduler.FindJobsByTag("one-job")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	// Registering again replaces everything, including scheduled jobs
	RegisterAll(testPlugin("three", &started))

	require.Len(t, bot.Commands, 1)
	assert.Equal(t, "three", bot.Commands[0].Name)
	assert.Len(t, bot.Jobs, 1)
	assert.Equal(t, 3, started)

	_, err = bot.Scheduler.FindJobsByTag("one-job")
	assert.Error(t, err)
}

func TestShutdown(t *testing.T) {
	stopped := false
	p := &Plugin{Name: "stoppable", ShutdownFn: func() { stopped = true }}

	RegisterAll(p)
	Shutdown()
	assert.True(t, stopped)
}

func TestReload(t *testing.T) {
	started, stopped := 0, 0
	p := testPlugin("reloadable", &started)
	p.ShutdownFn = func() { stopped++ }

	RegisterAll(p)
	Reload()

	assert.Equal(t, 2, started)
	assert.Equal(t, 1, stopped)
	require.Len(t, bot.Commands, 1)
	assert.Equal(t, "reloadable", bot.Commands[0].Name)

	jobs, err := bot.Scheduler.FindJobsByTag("reloadable-job")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
