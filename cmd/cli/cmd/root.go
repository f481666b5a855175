// Package cmd provides the CLI commands for the finance dashboard.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// commandTimeout bounds every command so the CLI never hangs.
const commandTimeout = 10 * time.Minute

type rootOptions struct {
	envFile  string
	logLevel string
	output   string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Derive accounting figures from categorized transactions",
		Long: `dashboard computes metrics, monthly cash flow and statement checks
from a list of categorized transactions, and moves that list between the
analysis backend, Notion and BigQuery.

Example:
  dashboard report --file transactions.json
  dashboard balance --file statements.json --output yaml
  dashboard ingest invoice.pdf gs://bucket/uploads/bill.pdf`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "path to a .env file (default is ./.env when present)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format (json or yaml)")

	root.AddCommand(
		newReportCmd(opts),
		newBalanceCmd(opts),
		newValidateCmd(opts),
		newIngestCmd(opts),
		newNotionSyncCmd(opts),
		newExportBQCmd(opts),
	)

	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// commandContext returns a bounded context carrying a stderr logger.
func (o *rootOptions) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc, zerolog.Logger) {
	log := logger.NewWithLevel(o.logLevel, "console").Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	return logger.WithContext(ctx, log), cancel, log
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// render writes v in the selected output format.
func (o *rootOptions) render(w io.Writer, v interface{}) error {
	switch o.output {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q", o.output)
	}
}

// readTransactions loads a JSON array of transactions, or an object with a
// "transactions" array.
func readTransactions(path string) ([]domain.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("readTransactions: %w", err)
	}

	var txs []domain.Transaction
	if err := json.Unmarshal(data, &txs); err == nil {
		return txs, nil
	}

	var wrapped struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("readTransactions: decoding %s: %w", path, err)
	}
	return wrapped.Transactions, nil
}

// validTransactions drops records that break the record invariants, logging
// each one.
func validTransactions(log zerolog.Logger, txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("Skipping invalid transaction")
			continue
		}
		out = append(out, tx)
	}
	return out
}
