package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"homekeep/internal/amqp"
	"homekeep/internal/core"
	"homekeep/internal/services"
)

func digestCmd() *cobra.Command {
	var (
		days      int
		printOnly bool
	)
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Build the budget and task digest and publish it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var publisher services.DigestPublisher
			if session.Publisher != nil && !printOnly {
				publisher = session.Publisher
			}
			svc := services.NewDigestService(session.Store, publisher, days)
			today := core.DateOf(time.Now())

			if publisher == nil {
				return printDigest(cmd.OutOrStdout(), svc.Build(today))
			}
			digest, err := svc.Publish(cmd.Context(), today)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "digest published: %d overdue, %d upcoming\n", len(digest.Overdue), len(digest.Upcoming))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", services.DefaultDigestHorizon, "include upcoming tasks due within this many days")
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the digest instead of publishing it")
	return cmd
}

func printDigest(w io.Writer, d *amqp.DigestMessage) error {
	b := d.Budget
	fmt.Fprintf(w, "%04d-%02d: spent %s of %s, %s remaining\n",
		b.Year, b.Month, formatMoney(b.TotalSpent), formatMoney(b.MonthlyBudget), formatMoney(b.Remaining))

	for _, section := range []struct {
		title string
		tasks []amqp.DigestTask
	}{
		{"Overdue", d.Overdue},
		{"Upcoming", d.Upcoming},
	} {
		fmt.Fprintf(w, "\n%s (%d)\n", section.title, len(section.tasks))
		if len(section.tasks) == 0 {
			continue
		}
		tw := newTable(w)
		for _, t := range section.tasks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.DueDate, t.Priority, t.Title, t.ID)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
