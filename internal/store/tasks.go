package store

import (
	"fmt"
	"slices"

	"homekeep/internal/core"
	"homekeep/internal/log"
)

// AddTask stores a new task. An empty status becomes upcoming and a
// non-recurring task loses any interval it carried.
func (s *Store) AddTask(t core.MaintenanceTask) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = core.NewID()
	}
	if s.taskIndex(t.ID) >= 0 {
		return "", fmt.Errorf("%w: task %s", ErrDuplicateID, t.ID)
	}
	if t.Status == "" {
		t.Status = core.StatusUpcoming
	}
	t.NormalizeRecurrence()
	s.tasks = append(s.tasks, t.Clone())

	s.persistLocked(core.CollectionTasks)
	s.notifyLocked(core.CollectionTasks, core.OpAdded, t.ID)
	return t.ID, nil
}

// UpdateTask replaces the task with the same id. Status and completion time
// are kept from the stored task: they only change through CompleteTask,
// ArchiveTask and UnarchiveTask.
func (s *Store) UpdateTask(t core.MaintenanceTask) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(t.ID)
	if i < 0 {
		s.warnNotFound(log.OpUpdate, core.CollectionTasks, t.ID)
		return false
	}
	current := s.tasks[i]
	if t.Status != "" && t.Status != current.Status {
		s.logger.Warn("Ignoring status change on task update",
			log.FieldTaskID, t.ID,
			log.FieldStatus, t.Status,
			"kept_status", current.Status)
	}
	t = t.Clone()
	t.Status = current.Status
	t.CompletedAt = current.CompletedAt
	t.NormalizeRecurrence()
	s.tasks[i] = t

	s.persistLocked(core.CollectionTasks)
	s.notifyLocked(core.CollectionTasks, core.OpUpdated, t.ID)
	return true
}

// DeleteTask removes a task in any state. Deleting never spawns a recurrence.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		s.warnNotFound(log.OpDelete, core.CollectionTasks, id)
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)

	s.persistLocked(core.CollectionTasks)
	s.notifyLocked(core.CollectionTasks, core.OpDeleted, id)
	return true
}

// Task returns the task with the given id.
func (s *Store) Task(id string) (core.MaintenanceTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.taskIndex(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return core.MaintenanceTask{}, false
}

// Tasks returns every task in insertion order.
func (s *Store) Tasks() []core.MaintenanceTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

// CompleteTask moves an upcoming task to completed. When the task recurs,
// its next occurrence is created in the same step, due interval days after
// today, and its id is returned as nextID.
//
// ok is false, and nothing changes, when the task is missing or not upcoming.
func (s *Store) CompleteTask(id string) (nextID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		s.warnNotFound(log.OpComplete, core.CollectionTasks, id)
		return "", false
	}
	if s.tasks[i].Status != core.StatusUpcoming {
		s.logger.Warn("Only upcoming tasks can be completed",
			log.FieldTaskID, id,
			log.FieldStatus, s.tasks[i].Status)
		return "", false
	}

	now := s.now()
	done := &s.tasks[i]
	done.Status = core.StatusCompleted
	done.CompletedAt = &now

	if done.HasValidRecurrence() {
		next := nextOccurrence(*done, core.DateOf(now))
		for s.taskIndex(next.ID) >= 0 {
			next.ID = core.NewID()
		}
		nextID = next.ID
		s.tasks = append(s.tasks, next)
	}

	s.persistLocked(core.CollectionTasks)
	s.notifyLocked(core.CollectionTasks, core.OpCompleted, id)
	if nextID != "" {
		s.notifyLocked(core.CollectionTasks, core.OpAdded, nextID)
		s.logger.Info("Recurring task completed, next occurrence scheduled",
			log.FieldTaskID, id,
			log.FieldNextTaskID, nextID,
			log.FieldDueDate, s.tasks[len(s.tasks)-1].DueDate.String())
	}
	return nextID, true
}

// nextOccurrence builds the successor of a completed recurring task.
// Calendar, reminder and notes belong to a single occurrence and are not carried.
func nextOccurrence(t core.MaintenanceTask, completedOn core.Date) core.MaintenanceTask {
	next := core.MaintenanceTask{
		ID:                core.NewID(),
		Title:             t.Title,
		Description:       t.Description,
		DueDate:           completedOn.AddDays(t.RecurringInterval),
		Priority:          t.Priority,
		Status:            core.StatusUpcoming,
		ApplianceID:       t.ApplianceID,
		Recurring:         t.Recurring,
		RecurringInterval: t.RecurringInterval,
	}
	if t.EstimatedCost != nil {
		cost := *t.EstimatedCost
		next.EstimatedCost = &cost
	}
	return next
}

// ArchiveTask moves a task in any state to archived.
func (s *Store) ArchiveTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		s.warnNotFound(log.OpArchive, core.CollectionTasks, id)
		return false
	}
	if s.tasks[i].Status == core.StatusArchived {
		return true
	}
	s.tasks[i].Status = core.StatusArchived

	s.persistLocked(core.CollectionTasks)
	s.notifyLocked(core.CollectionTasks, core.OpArchived, id)
	return true
}

// UnarchiveTask returns an archived task to upcoming, whatever its status
// was before archiving.
func (s *Store) UnarchiveTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		s.warnNotFound(log.OpUnarchive, core.CollectionTasks, id)
		return false
	}
	if s.tasks[i].Status != core.StatusArchived {
		s.logger.Warn("Task is not archived",
			log.FieldTaskID, id,
			log.FieldStatus, s.tasks[i].Status)
		return false
	}
	s.tasks[i].Status = core.StatusUpcoming
	s.tasks[i].CompletedAt = nil

	s.persistLocked(core.CollectionTasks)
	s.notifyLocked(core.CollectionTasks, core.OpRestored, id)
	return true
}

// AddTaskNote appends a note to the task's notes.
func (s *Store) AddTaskNote(id, text string) bool {
	return s.mutateTask(id, func(t *core.MaintenanceTask) {
		t.Notes = append(t.Notes, text)
	})
}

// SetTaskCalendarEvent records the calendar event created for the task.
// An empty eventID clears it.
func (s *Store) SetTaskCalendarEvent(id, eventID string) bool {
	return s.mutateTask(id, func(t *core.MaintenanceTask) {
		t.CalendarEventID = eventID
	})
}

// SetTaskReminderEvent records the reminder created for the task.
// An empty eventID clears it.
func (s *Store) SetTaskReminderEvent(id, eventID string) bool {
	return s.mutateTask(id, func(t *core.MaintenanceTask) {
		t.ReminderEventID = eventID
	})
}

func (s *Store) mutateTask(id string, fn func(*core.MaintenanceTask)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		s.warnNotFound(log.OpUpdate, core.CollectionTasks, id)
		return false
	}
	fn(&s.tasks[i])

	s.persistLocked(core.CollectionTasks)
	s.notifyLocked(core.CollectionTasks, core.OpUpdated, id)
	return true
}

func cloneTasks(tasks []core.MaintenanceTask) []core.MaintenanceTask {
	out := make([]core.MaintenanceTask, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
