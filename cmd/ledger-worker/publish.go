package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledgerboard/internal/amqp"
	"ledgerboard/internal/cli"
	"ledgerboard/internal/config"
	"ledgerboard/internal/core"
	"ledgerboard/internal/ledgers"
	applog "ledgerboard/internal/log"
)

type publishFlags struct {
	userID string
	file   string
}

// newPublishCmd queues a ledger document file for import.
func newPublishCmd(logger *applog.Logger) *cobra.Command {
	flags := &publishFlags{}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a ledger JSON document for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ledgers.ValidUserID(flags.userID) {
				return fmt.Errorf("invalid --user value %q", flags.userID)
			}

			document, err := os.ReadFile(flags.file)
			if err != nil {
				return fmt.Errorf("read ledger file: %w", err)
			}
			if _, err := core.DecodeLedger(document); err != nil {
				return fmt.Errorf("ledger file %s: %w", flags.file, err)
			}

			cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)
			client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				return fmt.Errorf("initialize AMQP client: %w", err)
			}
			defer client.Close()

			if err := client.PublishLedgerUpdate(cmd.Context(), flags.userID, document); err != nil {
				return err
			}
			logger.Info("Ledger queued for import", applog.FieldUserID, flags.userID, "file", flags.file)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.userID, "user", "", "user ID owning the ledger")
	cmd.Flags().StringVar(&flags.file, "file", "", "path to the ledger JSON document")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
