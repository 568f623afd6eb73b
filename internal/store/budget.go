package store

import (
	"fmt"
	"slices"

	"homekeep/internal/core"
	"homekeep/internal/log"
)

// AddBudgetItem logs an expense. When its provider snapshot names a trusted
// pro, the item id is appended to that pro's expense ids.
func (s *Store) AddBudgetItem(b core.BudgetItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = core.NewID()
	}
	if s.budgetItemIndex(b.ID) >= 0 {
		return "", fmt.Errorf("%w: budget item %s", ErrDuplicateID, b.ID)
	}
	s.budgetItems = append(s.budgetItems, b.Clone())

	changed := []core.Collection{core.CollectionBudgetItems}
	if s.linkExpenseLocked(b) {
		changed = append(changed, core.CollectionTrustedPros)
	}
	s.persistLocked(changed...)
	s.notifyLocked(core.CollectionBudgetItems, core.OpAdded, b.ID)
	return b.ID, nil
}

// UpdateBudgetItem replaces the item with the same id. A provider snapshot
// that now names another pro links the item to it as well; existing expense
// ids are never dropped by an update.
func (s *Store) UpdateBudgetItem(b core.BudgetItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.budgetItemIndex(b.ID)
	if i < 0 {
		s.warnNotFound(log.OpUpdate, core.CollectionBudgetItems, b.ID)
		return false
	}
	s.budgetItems[i] = b.Clone()

	changed := []core.Collection{core.CollectionBudgetItems}
	if s.linkExpenseLocked(b) {
		changed = append(changed, core.CollectionTrustedPros)
	}
	s.persistLocked(changed...)
	s.notifyLocked(core.CollectionBudgetItems, core.OpUpdated, b.ID)
	return true
}

// DeleteBudgetItem removes the item and drops its id from every pro.
func (s *Store) DeleteBudgetItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.budgetItemIndex(id)
	if i < 0 {
		s.warnNotFound(log.OpDelete, core.CollectionBudgetItems, id)
		return false
	}
	s.budgetItems = slices.Delete(s.budgetItems, i, i+1)

	changed := []core.Collection{core.CollectionBudgetItems}
	prosChanged := false
	for j := range s.pros {
		before := len(s.pros[j].ExpenseIDs)
		s.pros[j].ExpenseIDs = slices.DeleteFunc(s.pros[j].ExpenseIDs, func(e string) bool { return e == id })
		if len(s.pros[j].ExpenseIDs) != before {
			prosChanged = true
		}
	}
	if prosChanged {
		changed = append(changed, core.CollectionTrustedPros)
	}

	s.persistLocked(changed...)
	s.notifyLocked(core.CollectionBudgetItems, core.OpDeleted, id)
	return true
}

// BudgetItem returns the item with the given id.
func (s *Store) BudgetItem(id string) (core.BudgetItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.budgetItemIndex(id); i >= 0 {
		return s.budgetItems[i].Clone(), true
	}
	return core.BudgetItem{}, false
}

// BudgetItems returns every logged expense in insertion order.
func (s *Store) BudgetItems() []core.BudgetItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBudgetItems(s.budgetItems)
}

// MonthlyBudget returns the user-set monthly budget.
func (s *Store) MonthlyBudget() core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monthlyBudget
}

// SetMonthlyBudget sets the monthly budget. Zero clears it.
func (s *Store) SetMonthlyBudget(m core.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monthlyBudget = m
	s.persistLocked(core.CollectionMonthlyBudget)
	s.notifyLocked(core.CollectionMonthlyBudget, core.OpUpdated, "")
}

// linkExpenseLocked appends b's id to every pro its provider snapshot names.
// It reports whether any pro changed.
func (s *Store) linkExpenseLocked(b core.BudgetItem) bool {
	if b.Provider == nil {
		return false
	}
	changed := false
	for j := range s.pros {
		p := &s.pros[j]
		if p.MatchesProvider(b.Provider) && !slices.Contains(p.ExpenseIDs, b.ID) {
			p.ExpenseIDs = append(p.ExpenseIDs, b.ID)
			changed = true
		}
	}
	return changed
}

func cloneBudgetItems(items []core.BudgetItem) []core.BudgetItem {
	out := make([]core.BudgetItem, len(items))
	for i, b := range items {
		out[i] = b.Clone()
	}
	return out
}
