package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/agent"
	bt "github.com/fwojciec/breeze/bubbletea"
	"github.com/fwojciec/breeze/config"
	"github.com/fwojciec/breeze/console"
	"github.com/fwojciec/breeze/gateway"
	"github.com/fwojciec/breeze/goldmark"
	"github.com/fwojciec/breeze/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var tui bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive weather chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadAgent(cmd)
			if err != nil {
				return err
			}
			theme := breeze.DefaultTheme()
			if tui {
				if err := bt.Run(cmd.Context(), bt.New(agentFunc(a), theme)); err != nil {
					return fmt.Errorf("TUI: %w", err)
				}
				return nil
			}
			return console.New(agentFunc(a), cmd.InOrStdin(), cmd.OutOrStdout(), theme).Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&tui, "tui", false, "use the full-screen terminal UI")
	return cmd
}

func newAskCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Answer a single weather query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadAgent(cmd)
			if err != nil {
				return err
			}
			answer, err := a.ProcessQuery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !raw {
				answer = goldmark.Render(answer, 80, breeze.DefaultTheme())
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the answer without markdown rendering")
	return cmd
}

func loadAgent(cmd *cobra.Command) (*agent.Agent, error) {
	cfg, err := config.LoadOrchestrator()
	if err != nil {
		return nil, err
	}
	log := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
	provider, err := resolveProvider(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	return newAgent(cfg, provider, log), nil
}

func newAgent(cfg *config.Orchestrator, provider breeze.Provider, log zerolog.Logger) *agent.Agent {
	tools := gateway.NewClient(cfg.GatewayURL,
		gateway.WithTimeout(cfg.ToolTimeout),
		gateway.WithClientLogger(log),
	)
	opts := []agent.Option{
		agent.WithCompletionTimeout(cfg.CompletionTimeout),
		agent.WithLogger(log),
	}
	if cfg.Model != "" {
		opts = append(opts, agent.WithModel(cfg.Model))
	}
	return agent.New(provider, tools, opts...)
}

// agentFunc adapts an agent to the callback shape shared by the console and
// the TUI.
func agentFunc(a *agent.Agent) func(context.Context, string, func(breeze.Event)) (string, error) {
	return func(ctx context.Context, query string, onEvent func(breeze.Event)) (string, error) {
		return a.ProcessQuery(ctx, query, agent.WithEventHandler(onEvent))
	}
}
