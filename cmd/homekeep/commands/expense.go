package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"homekeep/internal/core"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses"},
		Short:   "Log and review household expenses",
	}
	cmd.AddCommand(expenseAddCmd(), expenseListCmd(), expenseDeleteCmd())
	return cmd
}

func expenseAddCmd() *cobra.Command {
	var (
		category, date, appliance, pro, provider string
		payment, invoice, notes                  string
		receipts                                 []string
	)
	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Log an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney(args[0])
			if err != nil {
				return err
			}
			c, err := core.ParseExpenseCategory(category)
			if err != nil {
				return err
			}
			day, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			if day.IsEmpty() {
				day = core.DateOf(time.Now())
			}
			b := core.BudgetItem{
				Amount:        amount,
				Description:   args[1],
				Category:      c,
				Date:          day,
				ApplianceID:   appliance,
				ReceiptImages: receipts,
				InvoiceNumber: invoice,
				Notes:         notes,
			}
			if payment != "" {
				if b.PaymentMethod, err = core.ParsePaymentMethod(payment); err != nil {
					return err
				}
			}
			switch {
			case pro != "":
				p, ok := session.Store.TrustedPro(pro)
				if !ok {
					return notFound("pro", pro)
				}
				b.Provider = p.Snapshot()
			case provider != "":
				b.Provider = &core.ProviderSnapshot{Name: provider}
			}
			if err := b.Validate(); err != nil {
				return err
			}
			id, err := session.Store.AddBudgetItem(b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&category, "category", "c", string(core.ExpenseOther), "expense category")
	f.StringVar(&date, "date", "", "date of the expense (YYYY-MM-DD, default today)")
	f.StringVar(&appliance, "appliance", "", "appliance id")
	f.StringVar(&pro, "pro", "", "trusted pro id to record as provider")
	f.StringVar(&provider, "provider", "", "provider name when not a trusted pro")
	f.StringVar(&payment, "payment", "", "payment method")
	f.StringVar(&invoice, "invoice", "", "invoice number")
	f.StringVar(&notes, "notes", "", "notes")
	f.StringSliceVar(&receipts, "receipt", nil, "receipt image reference (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("pro", "provider")
	return cmd
}

func expenseListCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := session.Store.BudgetItems()
			if month != "" {
				first, err := core.ParseDate(month + "-01")
				if err != nil {
					return fmt.Errorf("month %q: expected YYYY-MM", month)
				}
				filtered := items[:0]
				for _, b := range items {
					if b.Date.SameMonth(first) {
						filtered = append(filtered, b)
					}
				}
				items = filtered
			}
			return printExpenses(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "only expenses in this month (YYYY-MM)")
	return cmd
}

func expenseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.Store.DeleteBudgetItem(args[0]) {
				return notFound("expense", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "expense deleted")
			return nil
		},
	}
}

func printExpenses(w io.Writer, items []core.BudgetItem) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION\tPROVIDER")
	for _, b := range items {
		provider := "-"
		if b.Provider != nil {
			provider = b.Provider.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.Date, formatMoney(b.Amount), b.Category, b.Description, provider)
	}
	return tw.Flush()
}
