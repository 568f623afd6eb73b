package store

import (
	"fmt"
	"slices"

	"homekeep/internal/core"
	"homekeep/internal/log"
)

// AddTrustedPro stores a new pro. Expenses already logged under the pro's
// name are linked to it, and ratings are collapsed to one per source.
func (s *Store) AddTrustedPro(p core.TrustedPro) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = core.NewID()
	}
	if s.proIndex(p.ID) >= 0 {
		return "", fmt.Errorf("%w: trusted pro %s", ErrDuplicateID, p.ID)
	}
	p = p.Clone()
	p.Ratings = dedupeRatings(p.Ratings)
	for _, b := range s.budgetItems {
		if p.MatchesProvider(b.Provider) && !slices.Contains(p.ExpenseIDs, b.ID) {
			p.ExpenseIDs = append(p.ExpenseIDs, b.ID)
		}
	}
	s.pros = append(s.pros, p)

	s.persistLocked(core.CollectionTrustedPros)
	s.notifyLocked(core.CollectionTrustedPros, core.OpAdded, p.ID)
	return p.ID, nil
}

// UpdateTrustedPro replaces the pro with the same id. Expense ids are
// append-only: ids already recorded survive even if p omits them.
func (s *Store) UpdateTrustedPro(p core.TrustedPro) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.proIndex(p.ID)
	if i < 0 {
		s.warnNotFound(log.OpUpdate, core.CollectionTrustedPros, p.ID)
		return false
	}
	p = p.Clone()
	p.Ratings = dedupeRatings(p.Ratings)
	for _, id := range s.pros[i].ExpenseIDs {
		if !slices.Contains(p.ExpenseIDs, id) {
			p.ExpenseIDs = append(p.ExpenseIDs, id)
		}
	}
	s.pros[i] = p

	s.persistLocked(core.CollectionTrustedPros)
	s.notifyLocked(core.CollectionTrustedPros, core.OpUpdated, p.ID)
	return true
}

// DeleteTrustedPro removes the pro and clears it from tasks assigned to it.
// Provider snapshots on logged expenses are left as they were recorded.
func (s *Store) DeleteTrustedPro(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.proIndex(id)
	if i < 0 {
		s.warnNotFound(log.OpDelete, core.CollectionTrustedPros, id)
		return false
	}
	s.pros = slices.Delete(s.pros, i, i+1)

	changed := []core.Collection{core.CollectionTrustedPros}
	tasksChanged := false
	for j := range s.tasks {
		if s.tasks[j].TrustedProID == id {
			s.tasks[j].TrustedProID = ""
			tasksChanged = true
		}
	}
	if tasksChanged {
		changed = append(changed, core.CollectionTasks)
	}

	s.persistLocked(changed...)
	s.notifyLocked(core.CollectionTrustedPros, core.OpDeleted, id)
	return true
}

// TrustedPro returns the pro with the given id.
func (s *Store) TrustedPro(id string) (core.TrustedPro, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.proIndex(id); i >= 0 {
		return s.pros[i].Clone(), true
	}
	return core.TrustedPro{}, false
}

// TrustedPros returns every pro in insertion order.
func (s *Store) TrustedPros() []core.TrustedPro {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.TrustedPro, len(s.pros))
	for i, p := range s.pros {
		out[i] = p.Clone()
	}
	return out
}

// LinkApplianceToPro links an appliance to a pro. Linking an existing pair
// is a no-op.
func (s *Store) LinkApplianceToPro(proID, applianceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.proIndex(proID)
	if i < 0 {
		s.warnNotFound(log.OpLink, core.CollectionTrustedPros, proID)
		return false
	}
	if s.pros[i].HasLinkedAppliance(applianceID) {
		return true
	}
	if s.applianceIndex(applianceID) < 0 {
		s.logger.Warn("Linking unknown appliance",
			log.FieldProID, proID,
			log.FieldApplianceID, applianceID)
	}
	s.pros[i].LinkedApplianceIDs = append(s.pros[i].LinkedApplianceIDs, applianceID)

	s.persistLocked(core.CollectionTrustedPros)
	s.notifyLocked(core.CollectionTrustedPros, core.OpUpdated, proID)
	return true
}

// UnlinkApplianceFromPro removes the link. Unlinking an absent pair is a no-op.
func (s *Store) UnlinkApplianceFromPro(proID, applianceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.proIndex(proID)
	if i < 0 {
		s.warnNotFound(log.OpUnlink, core.CollectionTrustedPros, proID)
		return false
	}
	if !s.pros[i].HasLinkedAppliance(applianceID) {
		return true
	}
	s.pros[i].LinkedApplianceIDs = slices.DeleteFunc(s.pros[i].LinkedApplianceIDs, func(id string) bool {
		return id == applianceID
	})

	s.persistLocked(core.CollectionTrustedPros)
	s.notifyLocked(core.CollectionTrustedPros, core.OpUpdated, proID)
	return true
}

// AddProPrivateNote appends a timestamped note and returns its id.
func (s *Store) AddProPrivateNote(proID, text string) (noteID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.proIndex(proID)
	if i < 0 {
		s.warnNotFound(log.OpCreate, core.CollectionTrustedPros, proID)
		return "", false
	}
	note := core.PrivateNote{ID: core.NewID(), Text: text, CreatedAt: s.now()}
	s.pros[i].PrivateNotes = append(s.pros[i].PrivateNotes, note)

	s.persistLocked(core.CollectionTrustedPros)
	s.notifyLocked(core.CollectionTrustedPros, core.OpUpdated, proID)
	return note.ID, true
}

// UpdateProPrivateNote replaces a note's text, keeping its position and
// creation time.
func (s *Store) UpdateProPrivateNote(proID, noteID, text string) bool {
	return s.mutateProNote(proID, noteID, func(notes []core.PrivateNote, j int) []core.PrivateNote {
		notes[j].Text = text
		return notes
	})
}

// RemoveProPrivateNote deletes a note by id.
func (s *Store) RemoveProPrivateNote(proID, noteID string) bool {
	return s.mutateProNote(proID, noteID, func(notes []core.PrivateNote, j int) []core.PrivateNote {
		return slices.Delete(notes, j, j+1)
	})
}

func (s *Store) mutateProNote(proID, noteID string, fn func([]core.PrivateNote, int) []core.PrivateNote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.proIndex(proID)
	if i < 0 {
		s.warnNotFound(log.OpUpdate, core.CollectionTrustedPros, proID)
		return false
	}
	j := slices.IndexFunc(s.pros[i].PrivateNotes, func(n core.PrivateNote) bool { return n.ID == noteID })
	if j < 0 {
		s.logger.Warn("Private note not found, ignoring", log.FieldProID, proID, log.FieldNoteID, noteID)
		return false
	}
	s.pros[i].PrivateNotes = fn(s.pros[i].PrivateNotes, j)

	s.persistLocked(core.CollectionTrustedPros)
	s.notifyLocked(core.CollectionTrustedPros, core.OpUpdated, proID)
	return true
}

// UpdateProRatings replaces the pro's ratings. Callers should pass at most
// one rating per source; if a source repeats, its last entry wins.
func (s *Store) UpdateProRatings(proID string, ratings []core.Rating) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.proIndex(proID)
	if i < 0 {
		s.warnNotFound(log.OpUpdate, core.CollectionTrustedPros, proID)
		return false
	}
	withRatings := core.TrustedPro{Ratings: ratings}.Clone()
	s.pros[i].Ratings = dedupeRatings(withRatings.Ratings)

	s.persistLocked(core.CollectionTrustedPros)
	s.notifyLocked(core.CollectionTrustedPros, core.OpUpdated, proID)
	return true
}

// AddProRating records a rating, replacing any rating from the same source.
func (s *Store) AddProRating(proID string, r core.Rating) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.proIndex(proID)
	if i < 0 {
		s.warnNotFound(log.OpUpdate, core.CollectionTrustedPros, proID)
		return false
	}
	r = core.TrustedPro{Ratings: []core.Rating{r}}.Clone().Ratings[0]
	ratings := s.pros[i].Ratings
	if j := slices.IndexFunc(ratings, func(x core.Rating) bool { return x.Source == r.Source }); j >= 0 {
		ratings[j] = r
	} else {
		s.pros[i].Ratings = append(ratings, r)
	}

	s.persistLocked(core.CollectionTrustedPros)
	s.notifyLocked(core.CollectionTrustedPros, core.OpUpdated, proID)
	return true
}

// AverageRating returns the mean rating of a pro. ok is false when the pro
// does not exist or has no ratings.
func (s *Store) AverageRating(proID string) (avg float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.proIndex(proID)
	if i < 0 {
		return 0, false
	}
	return s.pros[i].AverageRating()
}

// dedupeRatings keeps one rating per source, at the position of the first
// occurrence, with the value of the last.
func dedupeRatings(ratings []core.Rating) []core.Rating {
	if len(ratings) < 2 {
		return ratings
	}
	out := make([]core.Rating, 0, len(ratings))
	pos := make(map[core.RatingSource]int, len(ratings))
	for _, r := range ratings {
		if j, seen := pos[r.Source]; seen {
			out[j] = r
			continue
		}
		pos[r.Source] = len(out)
		out = append(out, r)
	}
	return out
}
