package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"homekeep/internal/core"
)

func proCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pro",
		Aliases: []string{"pros"},
		Short:   "Manage trusted pros",
	}
	cmd.AddCommand(
		proAddCmd(),
		proListCmd(),
		proShowCmd(),
		proDeleteCmd(),
		proLinkCmd(),
		proUnlinkCmd(),
		proRateCmd(),
		proNoteCmd(),
	)
	return cmd
}

func proAddCmd() *cobra.Command {
	var p core.TrustedPro
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a trusted pro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Name = args[0]
			if err := p.Validate(); err != nil {
				return err
			}
			id, err := session.Store.AddTrustedPro(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Specialty, "specialty", "", "trade or specialty")
	f.StringVar(&p.Phone, "phone", "", "phone number")
	f.StringVar(&p.Email, "email", "", "email address")
	f.StringVar(&p.Website, "website", "", "website")
	f.StringVar(&p.Address, "address", "", "business address")
	f.StringVar(&p.LicenseNumber, "license", "", "license number")
	f.BoolVar(&p.Licensed, "licensed", false, "pro is licensed")
	f.BoolVar(&p.Insured, "insured", false, "pro is insured")
	f.StringSliceVar(&p.ServiceCategories, "services", nil, "service categories (comma separated)")
	f.IntVar(&p.ServiceRadiusMiles, "radius", 0, "service radius in miles")
	return cmd
}

func proListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trusted pros",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPros(cmd.OutOrStdout(), session.Store.TrustedPros())
		},
	}
}

func proShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a trusted pro with ratings, notes and expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := session.Store.TrustedPro(args[0])
			if !ok {
				return notFound("pro", args[0])
			}
			out := cmd.OutOrStdout()
			tw := newTable(out)
			fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
			fmt.Fprintf(tw, "Specialty:\t%s\n", orDash(p.Specialty))
			fmt.Fprintf(tw, "Phone:\t%s\n", orDash(p.Phone))
			fmt.Fprintf(tw, "Email:\t%s\n", orDash(p.Email))
			fmt.Fprintf(tw, "Website:\t%s\n", orDash(p.Website))
			fmt.Fprintf(tw, "Licensed:\t%t\n", p.Licensed)
			fmt.Fprintf(tw, "Insured:\t%t\n", p.Insured)
			fmt.Fprintf(tw, "Services:\t%s\n", orDash(strings.Join(p.ServiceCategories, ", ")))
			fmt.Fprintf(tw, "Rating:\t%s\n", formatRating(p.AverageRating()))
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(p.Ratings) > 0 {
				fmt.Fprintln(out, "\nRatings")
				tw = newTable(out)
				fmt.Fprintln(tw, "SOURCE\tRATING\tREVIEWS\tURL")
				for _, r := range p.Ratings {
					reviews := "-"
					if r.ReviewCount != nil {
						reviews = strconv.Itoa(*r.ReviewCount)
					}
					fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\n", r.Source, r.Rating, reviews, orDash(r.URL))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			if len(p.PrivateNotes) > 0 {
				fmt.Fprintln(out, "\nNotes")
				tw = newTable(out)
				for _, n := range p.PrivateNotes {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.CreatedAt.Format("2006-01-02"), n.Text)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			if items := session.Store.BudgetItemsForPro(p.ID); len(items) > 0 {
				fmt.Fprintln(out, "\nExpenses")
				return printExpenses(out, items)
			}
			return nil
		},
	}
}

func proDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trusted pro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.Store.DeleteTrustedPro(args[0]) {
				return notFound("pro", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pro deleted")
			return nil
		},
	}
}

func proLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <pro-id> <appliance-id>",
		Short: "Link an appliance to a trusted pro",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := session.Store.Appliance(args[1]); !ok {
				return notFound("appliance", args[1])
			}
			if !session.Store.LinkApplianceToPro(args[0], args[1]) {
				return notFound("pro", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "appliance linked")
			return nil
		},
	}
}

func proUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <pro-id> <appliance-id>",
		Short: "Unlink an appliance from a trusted pro",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.Store.UnlinkApplianceFromPro(args[0], args[1]) {
				return notFound("pro", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "appliance unlinked")
			return nil
		},
	}
}

func proRateCmd() *cobra.Command {
	var (
		reviews int
		url     string
	)
	cmd := &cobra.Command{
		Use:   "rate <pro-id> <source> <rating>",
		Short: "Record a rating from a source, replacing that source's previous rating",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := core.ParseRatingSource(args[1])
			if err != nil {
				return err
			}
			value, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("rating %q: %w", args[2], err)
			}
			r := core.Rating{Source: source, Rating: value, URL: url}
			if cmd.Flags().Changed("reviews") {
				r.ReviewCount = &reviews
			}
			if err := r.Validate(); err != nil {
				return err
			}
			if !session.Store.AddProRating(args[0], r) {
				return notFound("pro", args[0])
			}
			avg, ok := session.Store.AverageRating(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "average rating %s\n", formatRating(avg, ok))
			return nil
		},
	}
	cmd.Flags().IntVar(&reviews, "reviews", 0, "number of reviews behind the rating")
	cmd.Flags().StringVar(&url, "url", "", "link to the rating")
	return cmd
}

func proNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Private notes about a trusted pro",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <pro-id> <text>",
			Short: "Add a private note",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				noteID, ok := session.Store.AddProPrivateNote(args[0], args[1])
				if !ok {
					return notFound("pro", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), noteID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit <pro-id> <note-id> <text>",
			Short: "Replace the text of a private note",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !session.Store.UpdateProPrivateNote(args[0], args[1], args[2]) {
					return notFound("note", args[1])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <pro-id> <note-id>",
			Short: "Remove a private note",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !session.Store.RemoveProPrivateNote(args[0], args[1]) {
					return notFound("note", args[1])
				}
				return nil
			},
		},
	)
	return cmd
}

func printPros(w io.Writer, pros []core.TrustedPro) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIALTY\tPHONE\tRATING\tAPPLIANCES")
	for _, p := range pros {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			p.ID, p.Name, orDash(p.Specialty), orDash(p.Phone), formatRating(p.AverageRating()), len(p.LinkedApplianceIDs))
	}
	return tw.Flush()
}
