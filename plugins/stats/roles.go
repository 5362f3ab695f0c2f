package stats

import (
	"fmt"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/discord"
	"gonum.org/v1/gonum/stat"
	"sort"
	"strings"
	"time"
)

type roleCount struct {
	Name    string
	Members int
}

type rolePair struct {
	A, B    string
	Members int
}

type roleSummary struct {
	Mean   float64
	StdDev float64
	Lower  float64 // first quartile
	Upper  float64 // third quartile
}

// countRoles counts the members of every role except @everyone, largest first
func countRoles(guild discord.GuildID, roles []discord.Role, members []discord.Member) []roleCount {
	byRole := make(map[discord.RoleID]int)
	for _, m := range members {
		for _, id := range util.SliceUnique(m.RoleIDs) {
			byRole[id]++
		}
	}

	counts := make([]roleCount, 0, len(roles))
	for _, r := range roles {
		if discord.Snowflake(r.ID) == discord.Snowflake(guild) {
			continue
		}
		counts = append(counts, roleCount{Name: r.Name, Members: byRole[r.ID]})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Members == counts[j].Members {
			return counts[i].Name < counts[j].Name
		}
		return counts[i].Members > counts[j].Members
	})
	return counts
}

func describe(counts []roleCount) roleSummary {
	if len(counts) == 0 {
		return roleSummary{}
	}

	x := make([]float64, 0, len(counts))
	for _, c := range counts {
		x = append(x, float64(c.Members))
	}
	sort.Float64s(x)

	s := roleSummary{
		Mean:  stat.Mean(x, nil),
		Lower: stat.Quantile(0.25, stat.LinInterp, x, nil),
		Upper: stat.Quantile(0.75, stat.LinInterp, x, nil),
	}
	if len(x) > 1 {
		s.StdDev = stat.StdDev(x, nil)
	}
	return s
}

func roleReport(guildName string, now time.Time, counts []roleCount, s roleSummary) string {
	lines := []string{
		fmt.Sprintf("**%s roles on %s**", guildName, now.Format("2006-01-02")),
		fmt.Sprintf("Average: %.2f  Std. Dev: %.4f", s.Mean, s.StdDev),
		fmt.Sprintf("Higher Quartile: %.2f  Lower Quartile: %.2f", s.Upper, s.Lower),
		"",
	}

	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%s: %s", c.Name, util.FormattedNum(int64(c.Members))))
	}

	return util.TruncateString(strings.Join(lines, "\n"), 2000, "...")
}

// rolePairs counts how many members hold each pair of roles together, most shared first.
// Pairs nobody shares are left out, as is @everyone.
func rolePairs(guild discord.GuildID, roles []discord.Role, members []discord.Member) []rolePair {
	names := make(map[discord.RoleID]string, len(roles))
	for _, r := range roles {
		if discord.Snowflake(r.ID) != discord.Snowflake(guild) {
			names[r.ID] = r.Name
		}
	}

	byPair := make(map[[2]string]int)
	for _, m := range members {
		held := make([]string, 0, len(m.RoleIDs))
		for _, id := range util.SliceUnique(m.RoleIDs) {
			if name, ok := names[id]; ok {
				held = append(held, name)
			}
		}
		sort.Strings(held)

		for i := 0; i < len(held); i++ {
			for j := i + 1; j < len(held); j++ {
				byPair[[2]string{held[i], held[j]}]++
			}
		}
	}

	pairs := make([]rolePair, 0, len(byPair))
	for k, n := range byPair {
		pairs = append(pairs, rolePair{A: k[0], B: k[1], Members: n})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Members != pairs[j].Members {
			return pairs[i].Members > pairs[j].Members
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

func pairReport(guildName string, now time.Time, pairs []rolePair) string {
	lines := []string{
		fmt.Sprintf("**%s shared roles on %s**", guildName, now.Format("2006-01-02")),
		"",
	}

	if len(pairs) == 0 {
		lines = append(lines, "No members share any roles")
	}
	for _, p := range pairs {
		lines = append(lines, fmt.Sprintf("%s + %s: %s", p.A, p.B, util.FormattedNum(int64(p.Members))))
	}

	return util.TruncateString(strings.Join(lines, "\n"), 2000, "...")
}
