package cmd

import (
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/core/services"
	"github.com/spf13/cobra"
)

// summaryFilters narrows the bookkeeping records before they are summarized.
type summaryFilters struct {
	file      string
	period    string
	company   string
	entryType string
	from, to  string
}

func (f *summaryFilters) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "JSON array of bookkeeping records (default stdin)")
	cmd.Flags().StringVar(&f.period, "period", "", "this-month, last-month, this-year, last-year or all-time")
	cmd.Flags().StringVar(&f.company, "company", "", "only records of this company")
	cmd.Flags().StringVar(&f.entryType, "type", "", "only income or expense records")
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD")
}

func (f *summaryFilters) load(cmd *cobra.Command, svc portssvc.SummarySvc, now time.Time) ([]domain.BookkeepingEntry, error) {
	data, err := readInput(cmd, f.file)
	if err != nil {
		return nil, err
	}
	records, err := decodeBookkeeping(data)
	if err != nil {
		return nil, err
	}

	if f.period != "" {
		if records, err = svc.FilterByPeriod(records, domain.PeriodPreset(f.period), now); err != nil {
			return nil, err
		}
	}
	if f.company != "" {
		records = svc.FilterByCompany(records, f.company)
	}
	if f.entryType != "" {
		records = svc.FilterByType(records, domain.BookkeepingType(f.entryType))
	}
	if f.from != "" || f.to != "" {
		start, err := parseDayFlag("from", f.from, time.Time{})
		if err != nil {
			return nil, err
		}
		end, err := parseDayFlag("to", f.to, now)
		if err != nil {
			return nil, err
		}
		records = svc.FilterByDateRange(records, start, end)
	}
	return records, nil
}

func newSummaryCmd(app *cliApp) *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Cash-basis summaries of bookkeeping records",
		Long: `Summaries over bookkeeping income/expense records read as JSON.
These commands do not read or change the ledger.`,
	}

	var financial summaryFilters
	financialCmd := &cobra.Command{
		Use:   "financial",
		Short: "Income, COGS, expenses, payables and net profit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := services.NewSummaryService()
			records, err := financial.load(cmd, svc, time.Now())
			if err != nil {
				return err
			}
			return writeJSON(cmd, svc.FinancialSummary(records))
		},
	}
	financial.register(financialCmd)

	var expenses summaryFilters
	expensesCmd := &cobra.Command{
		Use:   "expenses",
		Short: "Expenses grouped by category, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := services.NewSummaryService()
			records, err := expenses.load(cmd, svc, time.Now())
			if err != nil {
				return err
			}
			return writeJSON(cmd, svc.ExpenseBreakdown(records))
		},
	}
	expenses.register(expensesCmd)

	summaryCmd.AddCommand(financialCmd, expensesCmd)
	return summaryCmd
}
