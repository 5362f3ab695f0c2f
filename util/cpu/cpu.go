//go:build linux || (darwin && cgo)

package cpu

import (
	"fmt"
	"github.com/mackerelio/go-osstat/cpu"
	"strconv"
)

// UserPercent is the share of cpu time spent in user space between two samples
func UserPercent(before, after *cpu.Stats) float64 {
	total := after.Total - before.Total
	if total == 0 {
		return 0
	}
	return float64(after.User-before.User) / float64(total) * 100
}

// Describe formats the usage between two samples, e.g. "12.50% (8 cores)"
func Describe(before, after *cpu.Stats) string {
	return fmt.Sprintf("%.2f%% (%s cores)", UserPercent(before, after), GetCoresStr(after))
}

// GetCoresStr is the core count, or "?" when the platform does not report one
func GetCoresStr(s *cpu.Stats) string {
	if n := GetCores(s); n > 0 {
		return strconv.Itoa(n)
	}
	return "?"
}
