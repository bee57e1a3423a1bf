// Package command holds shared helpers for building cobra (sub)commands.
package command

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pocketvault/wallet-core/internal/app"
	"github.com/pocketvault/wallet-core/internal/config"
	"github.com/pocketvault/wallet-core/internal/util"
)

// NewSubcommandGroup groups subcommands under a parent that prints its own
// help when invoked bare.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: name,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(subcommands...)
	return cmd
}

// WithApp initializes logging and the full component graph from cfg, then
// runs fn with a context carrying the configured logger.
func WithApp(ctx context.Context, cfg config.Config, fn func(ctx context.Context, a *app.App) error) error {
	util.InitLogger(cfg.LogLevel, cfg.LogPretty)
	ctx = util.WithLogger(ctx, log.Logger)

	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize application")
		return err
	}
	return fn(ctx, a)
}
