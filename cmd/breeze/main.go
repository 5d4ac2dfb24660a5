// Command breeze runs the weather Tool Gateway and the chat orchestrator.
//
// Usage:
//
//	OPENWEATHER_API_KEY=... breeze serve
//	OPENAI_API_KEY=sk-...   breeze chat [--tui]
//	OPENAI_API_KEY=sk-...   breeze ask "What's the weather in Beijing?"
//
// Configuration is read from the environment after loading an optional .env
// file. PROVIDER selects openai (default), anthropic or gemini.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "breeze: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "breeze",
		Short:         "Weather tool gateway and chat orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.AddCommand(newServeCmd(), newChatCmd(), newAskCmd())
	return root
}
