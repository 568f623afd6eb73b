package store

import (
	"fmt"
	"slices"

	"homekeep/internal/core"
	"homekeep/internal/log"
)

// AddAppliance stores a new appliance, assigning an id when a is missing one.
func (s *Store) AddAppliance(a core.Appliance) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = core.NewID()
	}
	if s.applianceIndex(a.ID) >= 0 {
		return "", fmt.Errorf("%w: appliance %s", ErrDuplicateID, a.ID)
	}
	s.appliances = append(s.appliances, a)

	s.persistLocked(core.CollectionAppliances)
	s.notifyLocked(core.CollectionAppliances, core.OpAdded, a.ID)
	return a.ID, nil
}

// UpdateAppliance replaces the appliance with the same id.
func (s *Store) UpdateAppliance(a core.Appliance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.applianceIndex(a.ID)
	if i < 0 {
		s.warnNotFound(log.OpUpdate, core.CollectionAppliances, a.ID)
		return false
	}
	s.appliances[i] = a

	s.persistLocked(core.CollectionAppliances)
	s.notifyLocked(core.CollectionAppliances, core.OpUpdated, a.ID)
	return true
}

// DeleteAppliance removes the appliance and every reference to it. Tasks
// and budget items that pointed at it are kept with their appliance cleared.
func (s *Store) DeleteAppliance(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.applianceIndex(id)
	if i < 0 {
		s.warnNotFound(log.OpDelete, core.CollectionAppliances, id)
		return false
	}
	s.appliances = slices.Delete(s.appliances, i, i+1)
	changed := []core.Collection{core.CollectionAppliances}

	tasksChanged := false
	for j := range s.tasks {
		if s.tasks[j].ApplianceID == id {
			s.tasks[j].ApplianceID = ""
			tasksChanged = true
		}
	}
	if tasksChanged {
		changed = append(changed, core.CollectionTasks)
	}

	itemsChanged := false
	for j := range s.budgetItems {
		if s.budgetItems[j].ApplianceID == id {
			s.budgetItems[j].ApplianceID = ""
			itemsChanged = true
		}
	}
	if itemsChanged {
		changed = append(changed, core.CollectionBudgetItems)
	}

	prosChanged := false
	for j := range s.pros {
		before := len(s.pros[j].LinkedApplianceIDs)
		s.pros[j].LinkedApplianceIDs = slices.DeleteFunc(s.pros[j].LinkedApplianceIDs, func(linked string) bool {
			return linked == id
		})
		if len(s.pros[j].LinkedApplianceIDs) != before {
			prosChanged = true
		}
	}
	if prosChanged {
		changed = append(changed, core.CollectionTrustedPros)
	}

	s.persistLocked(changed...)
	s.notifyLocked(core.CollectionAppliances, core.OpDeleted, id)
	s.logger.Info("Appliance deleted",
		log.FieldApplianceID, id,
		"cleared_tasks", tasksChanged,
		"cleared_budget_items", itemsChanged,
		"cleared_pro_links", prosChanged)
	return true
}

// Appliance returns the appliance with the given id.
func (s *Store) Appliance(id string) (core.Appliance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.applianceIndex(id); i >= 0 {
		return s.appliances[i], true
	}
	return core.Appliance{}, false
}

// Appliances returns every appliance in insertion order.
func (s *Store) Appliances() []core.Appliance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.appliances)
}
