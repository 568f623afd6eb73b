package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Monthly budget",
	}
	cmd.AddCommand(budgetSetCmd(), budgetSummaryCmd())
	return cmd
}

func budgetSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the monthly budget (0 clears it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMoney(args[0])
			if err != nil {
				return err
			}
			session.Store.SetMonthlyBudget(m)
			fmt.Fprintf(cmd.OutOrStdout(), "monthly budget set to %s\n", formatMoney(m))
			return nil
		},
	}
}

func budgetSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show this month's spend against the budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum := session.Store.BudgetSummary()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%04d-%02d\n", sum.Year, sum.Month)
			fmt.Fprintf(out, "Budget:    %s\n", formatMoney(sum.MonthlyBudget))
			fmt.Fprintf(out, "Spent:     %s\n", formatMoney(sum.TotalSpent))
			fmt.Fprintf(out, "Remaining: %s\n", formatMoney(sum.Remaining))
			if len(sum.ByCategory) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			tw := newTable(out)
			fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tSHARE")
			for _, c := range sum.ByCategory {
				fmt.Fprintf(tw, "%s\t%s\t%.2f%%\n", c.Category, formatMoney(c.Amount), c.Percent)
			}
			return tw.Flush()
		},
	}
}
