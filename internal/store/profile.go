package store

import "homekeep/internal/core"

// HomeProfile returns the household profile.
func (s *Store) HomeProfile() core.HomeProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// UpdateHomeProfile replaces the profile in place.
func (s *Store) UpdateHomeProfile(p core.HomeProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	s.persistLocked(core.CollectionHomeProfile)
	s.notifyLocked(core.CollectionHomeProfile, core.OpUpdated, "")
}
