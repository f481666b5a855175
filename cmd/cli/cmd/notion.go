package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dvloznov/finance-dashboard/internal/notionsync"
)

func newNotionSyncCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "notion-sync",
		Short: "Mirror a transactions file into a Notion database",
		Long: `Create, update and archive Notion pages so that the database
(NOTION_DATABASE_ID) mirrors the transactions file.

Example:
  dashboard notion-sync --file transactions.json --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, log := opts.commandContext(cmd)
			defer cancel()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireNotion(); err != nil {
				return err
			}

			txs, err := readTransactions(file)
			if err != nil {
				return err
			}
			txs = validTransactions(log, txs)

			client, err := notionsync.NewNotionClient(cfg.Notion.Token)
			if err != nil {
				return err
			}

			result, err := notionsync.SyncTransactions(ctx, client, cfg.Notion.DatabaseID, txs, dryRun)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "transactions JSON file (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview changes without writing to Notion")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
