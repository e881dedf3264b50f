// Command drivetrain lays out and renders transmission scheme diagrams.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/drivetrain/internal/cli"
	"github.com/matzehuels/drivetrain/pkg/errors"
)

func main() {
	os.Exit(run())
}

// run is split from main so deferred cleanup happens before os.Exit.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	code := errors.ExitCode(err)
	switch code {
	case errors.ExitOK, errors.ExitInterrupted:
	default:
		fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
	}
	return code
}
