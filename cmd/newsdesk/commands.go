package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"NewsDesk/internal/app"
	"NewsDesk/internal/config"
	"NewsDesk/internal/logging"
)

type rootOptions struct {
	configPath string
	driver     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "newsdesk",
		Short: "Newsroom article workflow service",
		Long: `newsdesk runs the article review workflow: authors submit drafts,
reviewers approve or reject them, and a background poller publishes
approved articles once their publish time arrives.

Example usage:
  newsdesk serve                       # HTTP API plus publication poller
  newsdesk migrate                     # create the Postgres schema
  newsdesk publish-due                 # run one publication pass and exit`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $NEWSDESK_CONFIG)")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "override database driver (postgres or memory)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newPublishDueCmd(opts),
	)
	return root
}

func (o *rootOptions) load() (config.Config, *slog.Logger) {
	cfg := config.Load(o.configPath)
	if o.driver != "" {
		cfg.Database.Driver = o.driver
	}
	return cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format)
}

func (o *rootOptions) withApp(ctx context.Context, fn func(*app.Application, *slog.Logger) error) error {
	cfg, logger := o.load()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close application", "error", err)
		}
	}()

	return fn(application, logger)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the publication poller",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.Application, logger *slog.Logger) error {
				if err := a.Run(cmd.Context()); err != nil {
					logger.Error("application stopped", "error", err)
					return err
				}
				return nil
			})
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the article table and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.Application, logger *slog.Logger) error {
				if err := a.Migrate(cmd.Context()); err != nil {
					return err
				}
				logger.Info("schema applied")
				return nil
			})
		},
	}
}

func newPublishDueCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "publish-due",
		Short: "Publish approved articles whose time has come, once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.Application, _ *slog.Logger) error {
				result, err := a.PublishDue(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "due=%d published=%d failed=%d\n", result.Due, result.Published, result.Failed)
				return nil
			})
		},
	}
}
