package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"homekeep/internal/core"
	"homekeep/internal/log"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrNotSchedulable = errors.New("only upcoming tasks with a due date can be scheduled")
)

// CalendarEvent is what gets written to the user's calendar for a task.
type CalendarEvent struct {
	Title string
	Notes string
	Date  core.Date
}

// Calendar creates and deletes all-day events in the user's calendar.
type Calendar interface {
	CreateEvent(ctx context.Context, ev CalendarEvent) (eventID string, err error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Reminders creates and deletes reminders in the user's reminders list.
type Reminders interface {
	CreateReminder(ctx context.Context, ev CalendarEvent) (reminderID string, err error)
	DeleteReminder(ctx context.Context, reminderID string) error
}

// TaskStore is the part of the domain store the calendar service needs.
type TaskStore interface {
	Task(id string) (core.MaintenanceTask, bool)
	SetTaskCalendarEvent(id, eventID string) bool
	SetTaskReminderEvent(id, eventID string) bool
}

// CalendarService keeps a task's calendar event and reminder in step with
// the ids recorded on the task.
type CalendarService struct {
	tasks     TaskStore
	calendar  Calendar
	reminders Reminders
	logger    *slog.Logger
}

// NewCalendarService builds the service. Either collaborator may be nil when
// the platform does not provide it.
func NewCalendarService(tasks TaskStore, calendar Calendar, reminders Reminders, logger *slog.Logger) *CalendarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarService{
		tasks:     tasks,
		calendar:  calendar,
		reminders: reminders,
		logger:    logger.With(log.FieldComponent, log.ComponentCalendar),
	}
}

// ScheduleTask creates a calendar event for the task and records its id,
// replacing any event created earlier.
func (s *CalendarService) ScheduleTask(ctx context.Context, taskID string) (string, error) {
	if s.calendar == nil {
		return "", errors.New("calendar not available")
	}
	task, err := s.schedulable(taskID)
	if err != nil {
		return "", err
	}

	if task.CalendarEventID != "" {
		if err := s.calendar.DeleteEvent(ctx, task.CalendarEventID); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete previous calendar event",
				log.FieldTaskID, taskID,
				"event_id", task.CalendarEventID,
				log.FieldError, err)
		}
	}

	eventID, err := s.calendar.CreateEvent(ctx, eventFor(task))
	if err != nil {
		return "", fmt.Errorf("create calendar event: %w", err)
	}
	if !s.tasks.SetTaskCalendarEvent(taskID, eventID) {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	s.logger.InfoContext(ctx, "Task added to calendar", log.FieldTaskID, taskID, "event_id", eventID)
	return eventID, nil
}

// UnscheduleTask deletes the task's calendar event and clears its id.
// A task without an event is left alone.
func (s *CalendarService) UnscheduleTask(ctx context.Context, taskID string) error {
	task, ok := s.tasks.Task(taskID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.CalendarEventID == "" {
		return nil
	}
	if s.calendar != nil {
		if err := s.calendar.DeleteEvent(ctx, task.CalendarEventID); err != nil {
			return fmt.Errorf("delete calendar event: %w", err)
		}
	}
	s.tasks.SetTaskCalendarEvent(taskID, "")
	return nil
}

// AddReminder creates a reminder for the task and records its id, replacing
// any reminder created earlier.
func (s *CalendarService) AddReminder(ctx context.Context, taskID string) (string, error) {
	if s.reminders == nil {
		return "", errors.New("reminders not available")
	}
	task, err := s.schedulable(taskID)
	if err != nil {
		return "", err
	}

	if task.ReminderEventID != "" {
		if err := s.reminders.DeleteReminder(ctx, task.ReminderEventID); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete previous reminder",
				log.FieldTaskID, taskID,
				"reminder_id", task.ReminderEventID,
				log.FieldError, err)
		}
	}

	reminderID, err := s.reminders.CreateReminder(ctx, eventFor(task))
	if err != nil {
		return "", fmt.Errorf("create reminder: %w", err)
	}
	if !s.tasks.SetTaskReminderEvent(taskID, reminderID) {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return reminderID, nil
}

// RemoveReminder deletes the task's reminder and clears its id.
func (s *CalendarService) RemoveReminder(ctx context.Context, taskID string) error {
	task, ok := s.tasks.Task(taskID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.ReminderEventID == "" {
		return nil
	}
	if s.reminders != nil {
		if err := s.reminders.DeleteReminder(ctx, task.ReminderEventID); err != nil {
			return fmt.Errorf("delete reminder: %w", err)
		}
	}
	s.tasks.SetTaskReminderEvent(taskID, "")
	return nil
}

func (s *CalendarService) schedulable(taskID string) (core.MaintenanceTask, error) {
	task, ok := s.tasks.Task(taskID)
	if !ok {
		return core.MaintenanceTask{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status != core.StatusUpcoming || task.DueDate.IsEmpty() {
		return core.MaintenanceTask{}, ErrNotSchedulable
	}
	return task, nil
}

func eventFor(t core.MaintenanceTask) CalendarEvent {
	return CalendarEvent{
		Title: t.Title,
		Notes: t.Description,
		Date:  t.DueDate,
	}
}
