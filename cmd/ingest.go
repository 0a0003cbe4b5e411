package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eventlens-io/eventlens/app"
)

func newIngestCmd() *cobra.Command {
	ingest := &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion round and exit",
		Long:  `Crawl the listing page, convert the harvested entries and persist them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig(configurationFile)
			if err != nil {
				return err
			}

			app, err := app.New(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			report, err := app.Service().Ingest(ctx)
			if err != nil {
				return err
			}

			cmd.Printf("saved: %d, not saved: %d\n", report.SavedCount, report.NotSavedCount)
			for _, rejected := range report.NotSavedEvents {
				cmd.Printf("  %s: %s\n", rejected.Draft.Name, rejected.Reason)
			}
			return nil
		},
	}

	ingest.PersistentFlags().StringVarP(&configurationFile, "config", "", "", "The configuration filename")

	return ingest
}
