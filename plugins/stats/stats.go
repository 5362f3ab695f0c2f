package stats

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/plugins"
	"github.com/5HT2/coding-bot/util"
	cu "github.com/5HT2/coding-bot/util/cpu"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/mackerelio/go-osstat/cpu"
	"github.com/mackerelio/go-osstat/loadavg"
	"github.com/mackerelio/go-osstat/memory"
	"github.com/mackerelio/go-osstat/uptime"
	"os"
	"strings"
	"time"
)

const cpuSampleTime = 1500 * time.Millisecond

func InitPlugin() *plugins.Plugin {
	return &plugins.Plugin{
		Name:        "Stats",
		Description: "Bot, system and role statistics",
		Version:     "1.0.0",
		Commands: []bot.CommandInfo{{
			Fn:          UptimeCommand,
			FnName:      "UptimeCommand",
			Name:        "uptime",
			Description: "Show how long the bot has been up for",
		}, {
			Fn:          SysStatsCommand,
			FnName:      "SysStatsCommand",
			Name:        "systemstats",
			Aliases:     []string{"stats", "stat", "sysstat"},
			Description: "Provides system statistics",
		}, {
			Fn:          RoleStatsCommand,
			FnName:      "RoleStatsCommand",
			Name:        "rolestats",
			Aliases:     []string{"plot"},
			Description: "DMs you how many members have each role",
			GuildOnly:   true,
		}, {
			Fn:          RolePairsCommand,
			FnName:      "RolePairsCommand",
			Name:        "rolepairs",
			Aliases:     []string{"network"},
			Description: "DMs you how many members share each pair of roles",
			GuildOnly:   true,
		}},
	}
}

func UptimeCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	_, err := cmd.SendMessage(c.E, util.FormattedUptime(bot.BootTime, time.Now()))
	return err
}

func spacedString(s string, offset int) string {
	if len(s) >= offset {
		return s
	}
	return s + strings.Repeat(" ", offset-len(s))
}

// fetchBox renders lines as a fetch-style box, with labels padded to the same width
func fetchBox(header string, labels, values []string) string {
	width := 0
	for _, v := range values {
		if len(v) > width {
			width = len(v)
		}
	}
	width += 1

	var sb strings.Builder
	sb.WriteString(header + "\n")
	sb.WriteString(fmt.Sprintf(" ┌──────────────%s─┐\n", strings.Repeat("─", width)))
	for n, label := range labels {
		sb.WriteString(fmt.Sprintf(" │ %s>  %s │\n", spacedString(label, 10), spacedString(values[n], width)))
	}
	sb.WriteString(fmt.Sprintf(" └──────────────%s─┘\n", strings.Repeat("─", width)))
	return fmt.Sprintf("```yml\n%s```", sb.String())
}

func SysStatsCommand(c bot.Command) error {
	shell := "$"
	if cmd.IsOperator(c.E.Author.ID) {
		shell = "#"
	}

	hostname, err := os.Hostname()
	if err != nil {
		return bot.GenericError(c.FnName, "getting hostname", err.Error())
	}
	hostname = "coding-bot@" + hostname

	hostUptime, err := uptime.Get()
	if err != nil {
		return bot.GenericError(c.FnName, "getting uptime", err.Error())
	}

	cpuBefore, err := cpu.Get()
	if err != nil {
		return bot.GenericError(c.FnName, "getting cpu info", err.Error())
	}
	time.Sleep(cpuSampleTime)
	cpuAfter, err := cpu.Get()
	if err != nil {
		return bot.GenericError(c.FnName, "getting cpu info", err.Error())
	}

	mem, err := memory.Get()
	if err != nil {
		return bot.GenericError(c.FnName, "getting memory info", err.Error())
	}

	load := "unavailable"
	if l, err := loadavg.Get(); err == nil {
		load = fmt.Sprintf("%.2f %.2f %.2f", l.Loadavg1, l.Loadavg5, l.Loadavg15)
	}

	labels := []string{"Hostname", "Uptime", "Bot Up", "CPU Load", "Load Avg", "Memory"}
	values := []string{
		hostname,
		util.FormattedTime(int64(hostUptime.Seconds())),
		util.FormattedTime(int64(time.Since(bot.BootTime).Seconds())),
		cu.Describe(cpuBefore, cpuAfter),
		load,
		fmt.Sprintf("%.2f GB/%.2f GB", float64(mem.Used)/1024*0.000001, float64(mem.Total)/1024*0.000001),
	}

	_, err = cmd.SendMessage(c.E, fetchBox(fmt.Sprintf("%s:~%s %s", hostname, shell, c.Name), labels, values))
	return err
}

func RoleStatsCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	guild, roles, members, err := fetchRoles(c)
	if err != nil {
		return err
	}

	counts := countRoles(c.E.GuildID, roles, members)
	return sendReport(c, roleReport(guild.Name, time.Now(), counts, describe(counts)), "Sent you the role statistics of "+guild.Name)
}

func RolePairsCommand(c bot.Command) error {
	if err := cmd.HasPermission(c, cmd.PermModerate); err != nil {
		return err
	}

	guild, roles, members, err := fetchRoles(c)
	if err != nil {
		return err
	}

	pairs := rolePairs(c.E.GuildID, roles, members)
	return sendReport(c, pairReport(guild.Name, time.Now(), pairs), "Sent you the shared roles of "+guild.Name)
}

func fetchRoles(c bot.Command) (*discord.Guild, []discord.Role, []discord.Member, error) {
	guild, err := bot.Client.Guild(c.E.GuildID)
	if err != nil {
		return nil, nil, nil, bot.GenericError(c.FnName, "getting guild", err.Error())
	}

	roles, err := bot.Client.Roles(c.E.GuildID)
	if err != nil {
		return nil, nil, nil, bot.GenericError(c.FnName, "getting roles", err.Error())
	}

	members, err := bot.Client.Session.Client.Members(c.E.GuildID, 0)
	if err != nil {
		return nil, nil, nil, bot.GenericError(c.FnName, "getting members", err.Error())
	}

	return guild, roles, members, nil
}

// sendReport DMs the report, falling back to the channel when the author's DMs are closed
func sendReport(c bot.Command, report, confirmation string) error {
	if _, err := cmd.SendDirectMessage(c.E.Author.ID, report); err != nil {
		_, err = cmd.SendMessage(c.E, report)
		return err
	}

	_, err := cmd.SendEmbed(c.E, "", confirmation, bot.SuccessColor)
	return err
}
