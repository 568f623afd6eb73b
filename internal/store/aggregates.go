package store

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"homekeep/internal/core"
)

var hundred = decimal.NewFromInt(100)

// UpcomingTasks returns upcoming tasks due today or later, soonest first.
func (s *Store) UpcomingTasks() []core.MaintenanceTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.today()
	var out []core.MaintenanceTask
	for _, t := range s.tasks {
		if t.Status == core.StatusUpcoming && !t.DueDate.Before(today) {
			out = append(out, t.Clone())
		}
	}
	slices.SortStableFunc(out, func(a, b core.MaintenanceTask) int {
		return a.DueDate.Compare(b.DueDate.Time)
	})
	return out
}

// OverdueTasks returns upcoming tasks whose due date has passed, oldest first.
func (s *Store) OverdueTasks() []core.MaintenanceTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.today()
	var out []core.MaintenanceTask
	for _, t := range s.tasks {
		if t.Status == core.StatusUpcoming && t.DueDate.Before(today) {
			out = append(out, t.Clone())
		}
	}
	slices.SortStableFunc(out, func(a, b core.MaintenanceTask) int {
		return a.DueDate.Compare(b.DueDate.Time)
	})
	return out
}

// TotalSpent sums the expenses dated in the current month.
func (s *Store) TotalSpent() core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalSpentLocked(s.today())
}

// Remaining returns the monthly budget minus this month's spend, floored at zero.
func (s *Store) Remaining() core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return remaining(s.monthlyBudget, s.totalSpentLocked(s.today()))
}

// CategoryBreakdown groups this month's expenses by category, largest first.
// Percentages are of the month's total and are all zero when nothing was spent.
func (s *Store) CategoryBreakdown() []core.CategoryAmount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.breakdownLocked(s.today())
}

// BudgetSummary bundles the monthly budget view for the current month.
func (s *Store) BudgetSummary() core.BudgetSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.today()
	spent := s.totalSpentLocked(today)
	return core.BudgetSummary{
		Year:          today.Year(),
		Month:         today.Month(),
		MonthlyBudget: s.monthlyBudget,
		TotalSpent:    spent,
		Remaining:     remaining(s.monthlyBudget, spent),
		ByCategory:    s.breakdownLocked(today),
	}
}

func (s *Store) totalSpentLocked(today core.Date) core.Money {
	var total core.Money
	for _, b := range s.budgetItems {
		if b.Date.SameMonth(today) {
			total = total.Add(b.Amount)
		}
	}
	return total
}

func (s *Store) breakdownLocked(today core.Date) []core.CategoryAmount {
	sums := make(map[core.ExpenseCategory]core.Money)
	var total core.Money
	for _, b := range s.budgetItems {
		if !b.Date.SameMonth(today) {
			continue
		}
		sums[b.Category] = sums[b.Category].Add(b.Amount)
		total = total.Add(b.Amount)
	}

	out := make([]core.CategoryAmount, 0, len(sums))
	for c, amount := range sums {
		ca := core.CategoryAmount{Category: c, Amount: amount}
		if total.Cents > 0 {
			ca.Percent = amount.Decimal().Mul(hundred).Div(total.Decimal()).Round(2).InexactFloat64()
		}
		out = append(out, ca)
	}
	slices.SortFunc(out, func(a, b core.CategoryAmount) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

func remaining(budget, spent core.Money) core.Money {
	if spent.Cents >= budget.Cents {
		return core.Money{}
	}
	return budget.Sub(spent)
}

// TasksForAppliance returns the tasks that reference the appliance.
func (s *Store) TasksForAppliance(applianceID string) []core.MaintenanceTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.MaintenanceTask
	for _, t := range s.tasks {
		if t.ApplianceID == applianceID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// BudgetItemsForAppliance returns the expenses logged against the appliance.
func (s *Store) BudgetItemsForAppliance(applianceID string) []core.BudgetItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.BudgetItem
	for _, b := range s.budgetItems {
		if b.ApplianceID == applianceID {
			out = append(out, b.Clone())
		}
	}
	return out
}

// ProsForAppliance returns the pros linked to the appliance.
func (s *Store) ProsForAppliance(applianceID string) []core.TrustedPro {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.TrustedPro
	for _, p := range s.pros {
		if p.HasLinkedAppliance(applianceID) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// BudgetItemsForPro resolves the pro's expense ids, skipping ids that no
// longer exist.
func (s *Store) BudgetItemsForPro(proID string) []core.BudgetItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.proIndex(proID)
	if i < 0 {
		return nil
	}
	var out []core.BudgetItem
	for _, id := range s.pros[i].ExpenseIDs {
		if j := s.budgetItemIndex(id); j >= 0 {
			out = append(out, s.budgetItems[j].Clone())
		}
	}
	return out
}
