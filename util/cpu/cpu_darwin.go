//go:build darwin && cgo

package cpu

import (
	"github.com/mackerelio/go-osstat/cpu"
)

// CPUCount is only reported on linux
func GetCores(_ *cpu.Stats) int {
	return -1
}
