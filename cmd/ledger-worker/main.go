package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ledgerboard/internal/amqp"
	"ledgerboard/internal/backend"
	"ledgerboard/internal/cli"
	"ledgerboard/internal/config"
	applog "ledgerboard/internal/log"
	"ledgerboard/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("ledger-worker failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
}

func newRootCmd(logger *applog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ledger-worker",
		Short:         "Import ledger documents from AMQP into the ledger store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

			ctx, stop := cli.SignalContext(logger)
			defer stop()

			return runWorker(ctx, cfg, logger)
		},
	}

	cmd.AddCommand(newPublishCmd(logger))
	return cmd
}

func runWorker(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	logger.Info("Starting ledger-worker", applog.FieldBackend, cfg.DataBackend, "queue", cfg.AMQPQueue)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	store, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
		}
	}()
	if store.Writer == nil {
		return fmt.Errorf("backend %s is read-only", cfg.DataBackend)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer client.Close()

	importer := worker.NewImportWorker(store.Writer, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeLedgerUpdates(gctx, importer.HandleLedgerUpdate)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("ledger-worker stopped gracefully")
	return nil
}
