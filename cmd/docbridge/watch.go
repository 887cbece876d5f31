package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/c360studio/docbridge/compliance"
	"github.com/c360studio/docbridge/diagnostics"
	"github.com/c360studio/docbridge/source"
	"github.com/c360studio/docbridge/workspace"
)

func watchCmd(flags *rootFlags) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the workspace and re-run compliance checks on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(flags.logLevel)

			cfg, err := loadConfig(flags, logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Optional diagnostics publishing
			var nc *nats.Conn
			if cfg.NATS.URL != "" {
				nc, err = nats.Connect(cfg.NATS.URL)
				if err != nil {
					return fmt.Errorf("connect to NATS: %w", err)
				}
				defer nc.Close()
				logger.Info("Publishing diagnostics", slog.String("url", cfg.NATS.URL))
			}
			publisher := diagnostics.NewPublisher(nc, cfg.NATS.SubjectPrefix, logger)

			g := workspace.NewGraph()
			loader := source.NewLoader(cfg.Workspace.Root, cfg.Workspace.Include, logger)
			loaded, err := loader.Load(g)
			if err != nil {
				return err
			}
			logger.Info("Workspace loaded", slog.Int("documents", loaded))

			engine := compliance.NewEngineFromConfig(cfg)
			runChecks := func() {
				result := engine.RunWithStats(g)
				logger.Info("Compliance run complete",
					slog.Int("score", result.ComplianceScore),
					slog.Int("errors", result.Errors),
					slog.Int("warnings", result.Warnings),
					slog.Int("info", result.Info))
				if err := publisher.PublishResult(result); err != nil {
					logger.Error("Failed to publish diagnostics", slog.String("error", err.Error()))
				}
			}
			runChecks()

			watcher, err := source.NewWatcher(loader, debounce, logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer watcher.Stop()

			for {
				select {
				case <-ctx.Done():
					logger.Info("Shutting down")
					return nil
				case event, ok := <-watcher.Events():
					if !ok {
						return nil
					}
					switch event.Operation {
					case source.OpDelete:
						g.RemoveDocument(event.DocumentID)
					default:
						g.AddDocument(event.DocumentID, event.Text)
					}
					logger.Debug("Graph updated",
						slog.String("document", event.DocumentID),
						slog.String("op", string(event.Operation)))
					runChecks()
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "Debounce window for file change events")
	return cmd
}
