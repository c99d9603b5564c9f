package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/teranos/cuebit/cmd/cuebit/commands"
	"github.com/teranos/cuebit/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Logger.Debugw("Command failed", logger.ErrorFields(err)...)
	}
	logger.Cleanup()

	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(commands.ExitCode(err))
	}
}
