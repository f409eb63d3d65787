package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/categories"
	"github.com/fintrack-dev/fintrack/internal/ledger"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/report"
	"github.com/fintrack-dev/fintrack/internal/session"
)

func printSummary(w io.Writer, sum model.BalanceSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t\n", sum.Label)
	fmt.Fprintf(tw, "Income:\t%s\t\n", report.Money(sum.TotalIncome))
	fmt.Fprintf(tw, "Expense:\t%s\t\n", report.Money(sum.TotalExpense))
	fmt.Fprintf(tw, "Balance:\t%s\t\n", report.Money(sum.TotalBalance))
	tw.Flush()
}

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total income, expense and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.dir)
			if err != nil {
				return err
			}
			return a.withSession(opts, func(s *session.Session) error {
				sum, err := s.CurrentSummary()
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), sum)
				return nil
			})
		},
	}
}

func newBreakdownCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown",
		Short: "Show sums per category and subcategory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.dir)
			if err != nil {
				return err
			}
			return a.withSession(opts, func(s *session.Session) error {
				groups, err := s.Breakdown()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, g := range groups {
					fmt.Fprintf(tw, "%s\t%s\n", g.Category, report.Money(g.Total))
					for _, sub := range g.Subcategories {
						fmt.Fprintf(tw, "  %s\t%s\n", report.PercentLabel(sub.Subcategory, sub.Percent), report.Money(sub.Amount))
					}
				}
				return tw.Flush()
			})
		},
	}
}

func newMonthCommand(opts *globalOptions) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "month <1..12>",
		Short: "Summarize one month",
		Long: "Summarize one month of the year. Without --year the month is " +
			"aggregated across every year in the ledger.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := strconv.Atoi(args[0])
			if err != nil || month < 1 || month > 12 {
				return fmt.Errorf("month must be a number from 1 to 12, got %q", args[0])
			}

			a, err := openApp(opts.dir)
			if err != nil {
				return err
			}
			return a.withSession(opts, func(s *session.Session) error {
				var sum model.BalanceSummary
				var err error
				if year != 0 {
					sum, err = s.YearMonth(year, month)
				} else {
					sum, err = s.Month(month)
				}
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), sum)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "limit to one calendar year")

	return cmd
}

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List transactions in entry order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.dir)
			if err != nil {
				return err
			}
			return a.withSession(opts, func(s *session.Session) error {
				txns, err := s.Transactions()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, t := range txns {
					layout := "2006-01-02"
					if t.HasTime() {
						layout = "2006-01-02 15:04:05"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						t.Timestamp.Format(layout), t.Category, t.Subcategory, ledger.FormatAmount(t.Amount), t.Description)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				if skipped := s.LoadReport().Skipped; len(skipped) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "%d malformed line(s) skipped\n", len(skipped))
				}
				return nil
			})
		},
	}
}

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and their subcategories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, c := range categories.NewDefault().All() {
				fmt.Fprintln(out, c.Name)
				for _, sub := range c.Subcategories {
					fmt.Fprintf(out, "  %s\n", sub)
				}
			}
			return nil
		},
	}
}
