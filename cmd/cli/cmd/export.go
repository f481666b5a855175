package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dvloznov/finance-dashboard/internal/infra/bigquery"
)

func newExportBQCmd(opts *rootOptions) *cobra.Command {
	var (
		file  string
		list  bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "export-bq",
		Short: "Write a transactions snapshot to BigQuery",
		Long: `Export the transactions file and its metrics as one snapshot into
GCP_PROJECT.BIGQUERY_DATASET, or list recent snapshots with --list.

Example:
  dashboard export-bq --file transactions.json
  dashboard export-bq --list --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, log := opts.commandContext(cmd)
			defer cancel()

			if !list && file == "" {
				return fmt.Errorf("either --file or --list is required")
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireBigQuery(); err != nil {
				return err
			}

			exporter, err := bigquery.NewExporter(ctx, cfg.GCP.ProjectID, cfg.GCP.Dataset, cfg.GCP.CredentialsFile)
			if err != nil {
				return err
			}
			defer exporter.Close()

			if list {
				snapshots, err := exporter.ListSnapshots(ctx, limit)
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), snapshots)
			}

			txs, err := readTransactions(file)
			if err != nil {
				return err
			}
			txs = validTransactions(log, txs)

			snapshotID, err := exporter.ExportSnapshot(ctx, txs)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), map[string]interface{}{
				"snapshotId":   snapshotID,
				"transactions": len(txs),
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "transactions JSON file")
	cmd.Flags().BoolVar(&list, "list", false, "list recent snapshots instead of exporting")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of snapshots to list")
	return cmd
}
