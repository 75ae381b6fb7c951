package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext returns a context cancelled on Ctrl+C or SIGTERM. While the
// TUI runs the terminal is in raw mode and Ctrl+C arrives as a key instead.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
