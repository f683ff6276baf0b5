package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kuantokusta/internal/cli"
)

func main() {
	// Interrupts cancel the in-flight request
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kk: %v\n", err)
	}

	stop()
	os.Exit(cli.ExitCode(err))
}
