package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dvloznov/finance-dashboard/internal/cashflow"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/metrics"
	"github.com/dvloznov/finance-dashboard/internal/statements"
)

// dashboardReport is everything the dashboard shows for one transaction list.
type dashboardReport struct {
	Metrics            metrics.Metrics        `json:"metrics" yaml:"metrics"`
	DisplayCashBalance decimal.Decimal        `json:"displayCashBalance" yaml:"displayCashBalance"`
	CashFlow           []cashflow.MonthlyFlow `json:"cashFlow" yaml:"cashFlow"`
	Summary            metrics.Summary        `json:"summary" yaml:"summary"`
}

func buildDashboardReport(txs []domain.Transaction) dashboardReport {
	m := metrics.Aggregate(txs)
	return dashboardReport{
		Metrics:            m,
		DisplayCashBalance: m.DisplayCashBalance(),
		CashFlow:           cashflow.Bucketize(txs),
		Summary:            metrics.Summarize(txs),
	}
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print metrics, monthly cash flow and the statement summary",
		Long: `Compute every derived figure from a transactions JSON file.

Invalid records are skipped with a warning.

Example:
  dashboard report --file transactions.json --output yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cancel, log := opts.commandContext(cmd)
			defer cancel()

			txs, err := readTransactions(file)
			if err != nil {
				return err
			}
			txs = validTransactions(log, txs)

			log.Debug().Int("transactions", len(txs)).Msg("Building report")
			return opts.render(cmd.OutOrStdout(), buildDashboardReport(txs))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "transactions JSON file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Check a generated financial statement",
		Long: `Run the balance check and the trial balance, P&L and cash-flow totals
over a statements JSON file. An imbalance is reported as a warning; with
--strict it also makes the command exit non-zero.

Example:
  dashboard balance --file statements.json --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cancel, log := opts.commandContext(cmd)
			defer cancel()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("balance: %w", err)
			}

			var stmt domain.FinancialStatement
			if err := json.Unmarshal(data, &stmt); err != nil {
				return fmt.Errorf("balance: decoding %s: %w", file, err)
			}

			report := statements.BuildReport(stmt)
			if err := opts.render(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if report.Balance.IsBalanced {
				return nil
			}
			if strict {
				return fmt.Errorf("balance sheet is out of balance by %s", report.Balance.Difference)
			}
			log.Warn().
				Str("difference", report.Balance.Difference.String()).
				Msg("Balance sheet does not balance")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "statements JSON file (required)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the balance sheet does not balance")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
