package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dvloznov/finance-dashboard/internal/corrections"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/services"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

type validateOutput struct {
	Validation   *services.ValidationResponse `json:"validation" yaml:"validation"`
	Applied      *corrections.Result          `json:"applied,omitempty" yaml:"applied,omitempty"`
	Transactions []domain.Transaction         `json:"transactions,omitempty" yaml:"transactions,omitempty"`
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		file  string
		apply bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Send a transactions file to the validation service",
		Long: `Ask the validation service (SERVICES_URL) to review a transactions file.
With --apply the proposed corrections are merged into the list and the
corrected list is printed as well.

Example:
  dashboard validate --file transactions.json --apply`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, log := opts.commandContext(cmd)
			defer cancel()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			txs, err := readTransactions(file)
			if err != nil {
				return err
			}

			s := store.NewMemoryWith(validTransactions(log, txs))
			reviewer := pipeline.NewReviewer(s, services.NewHTTPClient(cfg.Services.URL, cfg.Services.Timeout), nil)

			if !apply {
				resp, err := reviewer.Validate(ctx)
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), validateOutput{Validation: resp})
			}

			resp, result, err := reviewer.ValidateAndApply(ctx)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), validateOutput{
				Validation:   resp,
				Applied:      &result,
				Transactions: s.Transactions(),
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "transactions JSON file (required)")
	cmd.Flags().BoolVar(&apply, "apply", false, "merge the proposed corrections and print the corrected list")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
