package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"homekeep/internal/core"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatMoney(m core.Money) string {
	return m.Format(cfg.Currency)
}

func parseMoney(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("amount %q: %w", s, err)
	}
	return core.Money{Cents: cents}, nil
}

// parseOptionalDate returns the zero Date for an empty string.
func parseOptionalDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, fmt.Errorf("date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatRating(avg float64, ok bool) string {
	if !ok {
		return "unrated"
	}
	return strconv.FormatFloat(avg, 'f', 1, 64)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s not found", kind, id)
}
