// Command bonusctl computes bonuses and finance figures locally and drives
// load against a running bonus service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/bonus/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := logger.InitWithOptions(logger.Options{Writer: os.Stderr}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
