package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/report"
	"github.com/fintrack-dev/fintrack/internal/session"
)

var dateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)", s)
}

func newAddCommand(opts *globalOptions) *cobra.Command {
	var description string
	var date string

	cmd := &cobra.Command{
		Use:   "add <category> <subcategory> <amount>",
		Short: "Record an income or expense",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[2])
			}
			ts := time.Now()
			if date != "" {
				if ts, err = parseDate(date); err != nil {
					return err
				}
			}

			a, err := openApp(opts.dir)
			if err != nil {
				return err
			}
			category, sub := a.catalog.Canonical(args[0], args[1])

			err = a.withSession(opts, func(s *session.Session) error {
				txn, err := s.RecordTransaction(session.RecordParams{
					Category:    category,
					Subcategory: sub,
					Amount:      amount,
					Description: description,
					Timestamp:   ts,
				})
				if err != nil && !isPersistError(err) {
					return err
				}
				sum, serr := s.CurrentSummary()
				if serr != nil {
					return serr
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Recorded %s/%s %s on %s\n",
					txn.Category, txn.Subcategory, report.Money(txn.Amount), txn.Timestamp.Format("2006-01-02"))
				fmt.Fprintf(out, "Balance: %s\n", report.Money(sum.TotalBalance))
				return err
			})
			if err != nil && !isPersistError(err) {
				return err
			}
			a.snapshot(fmt.Sprintf("add: %s/%s %s", category, sub, report.Money(amount)))
			return err
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (default now)")

	return cmd
}
