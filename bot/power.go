package bot

import (
	"errors"
	"io/fs"
	"os"
)

type StopMode int

const (
	StopExit    StopMode = iota // disconnect and exit the process
	StopRestart                 // disconnect, reload the config and connect again
)

var (
	PoweroffPath = "poweroff"
	stop         = make(chan StopMode, 1)
)

// RequestStop asks the main loop to disconnect. Only the first request before the loop picks it up is kept.
func RequestStop(mode StopMode) {
	select {
	case stop <- mode:
	default:
	}
}

// StopRequests is received from by the main loop
func StopRequests() <-chan StopMode {
	return stop
}

// WritePoweroffMarker keeps the bot from restarting after the current session ends
func WritePoweroffMarker() error {
	return os.WriteFile(PoweroffPath, []byte("Bot is stopping"), fileMode)
}

func PoweroffRequested() bool {
	_, err := os.Stat(PoweroffPath)
	return !errors.Is(err, fs.ErrNotExist)
}

// ClearPoweroffMarker removes the marker so the bot starts normally next time
func ClearPoweroffMarker() error {
	if err := os.Remove(PoweroffPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
