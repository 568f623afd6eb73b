package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestApplianceValidate(t *testing.T) {
	good := Appliance{Name: "Furnace", Category: ApplianceHVAC}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Appliance{
		{Name: "", Category: ApplianceHVAC},
		{Name: "Fridge", Category: "spaceship"},
		{Name: "Fridge", Category: ApplianceKitchen, PurchaseDate: NewDate(2024, 5, 1), WarrantyExpiry: NewDate(2023, 5, 1)},
	}
	for i, a := range bads {
		if err := a.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMaintenanceTaskValidate(t *testing.T) {
	good := MaintenanceTask{
		Title:             "Replace filter",
		DueDate:           NewDate(2025, 3, 1),
		Priority:          PriorityMedium,
		Recurring:         true,
		RecurringInterval: 90,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*MaintenanceTask)
		wantErr error
	}{
		{"empty title", func(m *MaintenanceTask) { m.Title = " " }, ErrEmptyTitle},
		{"bad priority", func(m *MaintenanceTask) { m.Priority = "urgent" }, ErrInvalidPriority},
		{"recurring without interval", func(m *MaintenanceTask) { m.RecurringInterval = 0 }, ErrInvalidInterval},
		{"negative cost", func(m *MaintenanceTask) { m.EstimatedCost = &Money{Cents: -1} }, ErrInvalidAmount},
		{"zero due date", func(m *MaintenanceTask) { m.DueDate = Date{} }, ErrZeroDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := good
			tt.mutate(&task)
			if err := task.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetItemValidate(t *testing.T) {
	good := BudgetItem{
		Amount:      Money{Cents: 0},
		Description: "Inspection",
		Category:    ExpenseMaintenance,
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}

	bads := []BudgetItem{
		{Amount: Money{Cents: -5}, Description: "a", Category: ExpenseRepair, Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 5}, Description: "", Category: ExpenseRepair, Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 5}, Description: "a", Category: "fun", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 5}, Description: "a", Category: ExpenseRepair},
		{Amount: Money{Cents: 5}, Description: "a", Category: ExpenseRepair, Date: NewDate(2025, 1, 1), PaymentMethod: "barter"},
		{Amount: Money{Cents: 5}, Description: "a", Category: ExpenseRepair, Date: NewDate(2025, 1, 1), Provider: &ProviderSnapshot{}},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestValidateRatings(t *testing.T) {
	ok := []Rating{{Source: SourceGoogle, Rating: 4.5}, {Source: SourceYelp, Rating: 0}}
	if err := ValidateRatings(ok); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateRatings([]Rating{{Source: SourceGoogle, Rating: 5.1}}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if err := ValidateRatings([]Rating{{Source: SourceGoogle, Rating: 4}, {Source: SourceGoogle, Rating: 3}}); !errors.Is(err, ErrDuplicateSource) {
		t.Fatalf("expected ErrDuplicateSource, got %v", err)
	}
	if err := ValidateRatings([]Rating{{Source: "myspace", Rating: 3}}); !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}

func TestTrustedProAverageRating(t *testing.T) {
	p := TrustedPro{Name: "Ace Plumbing"}
	if _, ok := p.AverageRating(); ok {
		t.Fatal("unrated pro must not report an average")
	}

	p.Ratings = []Rating{{Source: SourceGoogle, Rating: 4.0}, {Source: SourceYelp, Rating: 3.0}}
	avg, ok := p.AverageRating()
	if !ok || avg != 3.5 {
		t.Fatalf("AverageRating() = %v, %v; want 3.5, true", avg, ok)
	}
}

func TestTrustedProMatchesProvider(t *testing.T) {
	p := TrustedPro{Name: "Ace Plumbing"}
	if !p.MatchesProvider(&ProviderSnapshot{Name: "  ace plumbing "}) {
		t.Error("expected case-insensitive trimmed match")
	}
	if p.MatchesProvider(&ProviderSnapshot{Name: "Ace"}) {
		t.Error("partial names must not match")
	}
	if p.MatchesProvider(nil) {
		t.Error("nil snapshot must not match")
	}
}

func TestCloneIsDeep(t *testing.T) {
	n := 10
	p := TrustedPro{
		Name:               "Pro",
		Ratings:            []Rating{{Source: SourceGoogle, Rating: 4, ReviewCount: &n}},
		LinkedApplianceIDs: []string{"a1"},
	}
	c := p.Clone()
	*c.Ratings[0].ReviewCount = 99
	c.LinkedApplianceIDs[0] = "changed"
	if *p.Ratings[0].ReviewCount != 10 || p.LinkedApplianceIDs[0] != "a1" {
		t.Fatal("clone shares memory with the original")
	}

	task := MaintenanceTask{Notes: []string{"first"}, EstimatedCost: &Money{Cents: 100}}
	tc := task.Clone()
	tc.Notes[0] = "x"
	tc.EstimatedCost.Cents = 1
	if task.Notes[0] != "first" || task.EstimatedCost.Cents != 100 {
		t.Fatal("task clone shares memory with the original")
	}
}

func TestParseEnums(t *testing.T) {
	if p, err := ParsePriority(" HIGH "); err != nil || p != PriorityHigh {
		t.Fatalf("ParsePriority = %q, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("expected error for unknown priority")
	}
	if c, err := ParseExpenseCategory("Repair"); err != nil || c != ExpenseRepair {
		t.Fatalf("ParseExpenseCategory = %q, %v", c, err)
	}
	if s, err := ParseRatingSource("yelp"); err != nil || s != SourceYelp {
		t.Fatalf("ParseRatingSource = %q, %v", s, err)
	}
	if _, err := ParseApplianceCategory(""); err == nil {
		t.Fatal("expected error for empty category")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
