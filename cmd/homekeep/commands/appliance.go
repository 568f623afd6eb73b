package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"homekeep/internal/core"
)

type applianceFlags struct {
	category, brand, model, serial, location string
	purchased, warranty, manual, notes       string
}

func (f *applianceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.category, "category", "c", string(core.ApplianceOther), "category (hvac, kitchen, laundry, plumbing, electrical, water-heater, outdoor, safety, entertainment, other)")
	fs.StringVar(&f.brand, "brand", "", "brand")
	fs.StringVar(&f.model, "model", "", "model")
	fs.StringVar(&f.serial, "serial", "", "serial number")
	fs.StringVar(&f.location, "location", "", "where it is in the house")
	fs.StringVar(&f.purchased, "purchased", "", "purchase date (YYYY-MM-DD)")
	fs.StringVar(&f.warranty, "warranty", "", "warranty expiry (YYYY-MM-DD)")
	fs.StringVar(&f.manual, "manual", "", "manual URL")
	fs.StringVar(&f.notes, "notes", "", "notes")
}

// apply copies the flags the user set onto a. With all set, every flag is applied.
func (f *applianceFlags) apply(cmd *cobra.Command, a *core.Appliance, all bool) error {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }
	if changed("category") {
		c, err := core.ParseApplianceCategory(f.category)
		if err != nil {
			return err
		}
		a.Category = c
	}
	if changed("brand") {
		a.Brand = f.brand
	}
	if changed("model") {
		a.Model = f.model
	}
	if changed("serial") {
		a.SerialNumber = f.serial
	}
	if changed("location") {
		a.Location = f.location
	}
	if changed("manual") {
		a.ManualURL = f.manual
	}
	if changed("notes") {
		a.Notes = f.notes
	}
	if changed("purchased") {
		d, err := parseOptionalDate(f.purchased)
		if err != nil {
			return err
		}
		a.PurchaseDate = d
	}
	if changed("warranty") {
		d, err := parseOptionalDate(f.warranty)
		if err != nil {
			return err
		}
		a.WarrantyExpiry = d
	}
	return nil
}

func applianceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appliance",
		Aliases: []string{"appliances"},
		Short:   "Manage appliances",
	}
	cmd.AddCommand(
		applianceAddCmd(),
		applianceListCmd(),
		applianceShowCmd(),
		applianceUpdateCmd(),
		applianceDeleteCmd(),
	)
	return cmd
}

func applianceAddCmd() *cobra.Command {
	var f applianceFlags
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an appliance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := core.Appliance{Name: args[0]}
			if err := f.apply(cmd, &a, true); err != nil {
				return err
			}
			if err := a.Validate(); err != nil {
				return err
			}
			id, err := session.Store.AddAppliance(a)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func applianceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List appliances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tLOCATION\tWARRANTY")
			for _, a := range session.Store.Appliances() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Category, orDash(a.Location), orDash(a.WarrantyExpiry.String()))
			}
			return tw.Flush()
		},
	}
}

func applianceShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an appliance with its tasks, expenses and pros",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := session.Store.Appliance(args[0])
			if !ok {
				return notFound("appliance", args[0])
			}
			out := cmd.OutOrStdout()
			tw := newTable(out)
			fmt.Fprintf(tw, "Name:\t%s\n", a.Name)
			fmt.Fprintf(tw, "Category:\t%s\n", a.Category)
			fmt.Fprintf(tw, "Brand / model:\t%s %s\n", a.Brand, a.Model)
			fmt.Fprintf(tw, "Serial:\t%s\n", orDash(a.SerialNumber))
			fmt.Fprintf(tw, "Location:\t%s\n", orDash(a.Location))
			fmt.Fprintf(tw, "Purchased:\t%s\n", orDash(a.PurchaseDate.String()))
			fmt.Fprintf(tw, "Warranty until:\t%s\n", orDash(a.WarrantyExpiry.String()))
			fmt.Fprintf(tw, "Manual:\t%s\n", orDash(a.ManualURL))
			fmt.Fprintf(tw, "Notes:\t%s\n", orDash(a.Notes))
			if err := tw.Flush(); err != nil {
				return err
			}

			if tasks := session.Store.TasksForAppliance(a.ID); len(tasks) > 0 {
				fmt.Fprintln(out, "\nTasks:")
				if err := printTasks(out, tasks); err != nil {
					return err
				}
			}
			if items := session.Store.BudgetItemsForAppliance(a.ID); len(items) > 0 {
				fmt.Fprintln(out, "\nExpenses:")
				if err := printExpenses(out, items); err != nil {
					return err
				}
			}
			if pros := session.Store.ProsForAppliance(a.ID); len(pros) > 0 {
				fmt.Fprintln(out, "\nPros:")
				if err := printPros(out, pros); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func applianceUpdateCmd() *cobra.Command {
	var (
		f    applianceFlags
		name string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update appliance fields; unspecified fields are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := session.Store.Appliance(args[0])
			if !ok {
				return notFound("appliance", args[0])
			}
			if cmd.Flags().Changed("name") {
				a.Name = name
			}
			if err := f.apply(cmd, &a, false); err != nil {
				return err
			}
			if err := a.Validate(); err != nil {
				return err
			}
			session.Store.UpdateAppliance(a)
			fmt.Fprintln(cmd.OutOrStdout(), "appliance updated")
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "name")
	return cmd
}

func applianceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an appliance and detach it from tasks, expenses and pros",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.Store.DeleteAppliance(args[0]) {
				return notFound("appliance", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "appliance deleted")
			return nil
		},
	}
}
