package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the home profile",
	}
	cmd.AddCommand(profileShowCmd(), profileSetCmd())
	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the home profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := session.Store.HomeProfile()
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Nickname:\t%s\n", orDash(p.Nickname))
			fmt.Fprintf(tw, "Address:\t%s\n", orDash(p.Address))
			fmt.Fprintf(tw, "Property type:\t%s\n", orDash(p.PropertyType))
			fmt.Fprintf(tw, "Year built:\t%d\n", p.YearBuilt)
			fmt.Fprintf(tw, "Square feet:\t%d\n", p.SquareFeet)
			fmt.Fprintf(tw, "Lot size (sq ft):\t%d\n", p.LotSizeSqFt)
			fmt.Fprintf(tw, "Bedrooms:\t%d\n", p.Bedrooms)
			fmt.Fprintf(tw, "Bathrooms:\t%g\n", p.Bathrooms)
			fmt.Fprintf(tw, "Stories:\t%d\n", p.Stories)
			fmt.Fprintf(tw, "Heating:\t%s\n", orDash(p.HeatingType))
			fmt.Fprintf(tw, "Cooling:\t%s\n", orDash(p.CoolingType))
			fmt.Fprintf(tw, "Roof:\t%s\n", orDash(p.RoofType))
			fmt.Fprintf(tw, "Purchased:\t%s\n", orDash(p.PurchaseDate.String()))
			return tw.Flush()
		},
	}
}

func profileSetCmd() *cobra.Command {
	var (
		nickname, address, propertyType, heating, cooling, roof, purchased string
		yearBuilt, squareFeet, lotSize, bedrooms, stories                  int
		bathrooms                                                          float64
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; unspecified fields are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := session.Store.HomeProfile()
			f := cmd.Flags()
			if f.Changed("nickname") {
				p.Nickname = nickname
			}
			if f.Changed("address") {
				p.Address = address
			}
			if f.Changed("type") {
				p.PropertyType = propertyType
			}
			if f.Changed("heating") {
				p.HeatingType = heating
			}
			if f.Changed("cooling") {
				p.CoolingType = cooling
			}
			if f.Changed("roof") {
				p.RoofType = roof
			}
			if f.Changed("year-built") {
				p.YearBuilt = yearBuilt
			}
			if f.Changed("sqft") {
				p.SquareFeet = squareFeet
			}
			if f.Changed("lot-sqft") {
				p.LotSizeSqFt = lotSize
			}
			if f.Changed("bedrooms") {
				p.Bedrooms = bedrooms
			}
			if f.Changed("bathrooms") {
				p.Bathrooms = bathrooms
			}
			if f.Changed("stories") {
				p.Stories = stories
			}
			if f.Changed("purchased") {
				d, err := parseOptionalDate(purchased)
				if err != nil {
					return err
				}
				p.PurchaseDate = d
			}
			session.Store.UpdateHomeProfile(p)
			fmt.Fprintln(cmd.OutOrStdout(), "profile updated")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&nickname, "nickname", "", "home nickname")
	f.StringVar(&address, "address", "", "street address")
	f.StringVar(&propertyType, "type", "", "property type (house, condo, ...)")
	f.StringVar(&heating, "heating", "", "heating type")
	f.StringVar(&cooling, "cooling", "", "cooling type")
	f.StringVar(&roof, "roof", "", "roof type")
	f.StringVar(&purchased, "purchased", "", "purchase date (YYYY-MM-DD)")
	f.IntVar(&yearBuilt, "year-built", 0, "year built")
	f.IntVar(&squareFeet, "sqft", 0, "living area in square feet")
	f.IntVar(&lotSize, "lot-sqft", 0, "lot size in square feet")
	f.IntVar(&bedrooms, "bedrooms", 0, "number of bedrooms")
	f.Float64Var(&bathrooms, "bathrooms", 0, "number of bathrooms")
	f.IntVar(&stories, "stories", 0, "number of stories")
	return cmd
}
