//go:build linux

package cpu

import (
	"github.com/mackerelio/go-osstat/cpu"
)

func GetCores(s *cpu.Stats) int {
	return s.CPUCount
}
