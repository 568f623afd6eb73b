package services

import (
	"context"

	"homekeep/internal/amqp"
	"homekeep/internal/core"
)

// CalendarPublisher sends calendar requests to the platform agent.
type CalendarPublisher interface {
	PublishCalendarRequest(ctx context.Context, req *amqp.CalendarRequest) error
}

// QueuedCalendar implements Calendar and Reminders by queueing requests for
// an agent running where the calendar lives. Ids are minted here so the task
// records them before the agent acts.
type QueuedCalendar struct {
	publisher CalendarPublisher
}

func NewQueuedCalendar(publisher CalendarPublisher) *QueuedCalendar {
	return &QueuedCalendar{publisher: publisher}
}

func (q *QueuedCalendar) CreateEvent(ctx context.Context, ev CalendarEvent) (string, error) {
	return q.create(ctx, amqp.TargetEvent, ev)
}

func (q *QueuedCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	return q.delete(ctx, amqp.TargetEvent, eventID)
}

func (q *QueuedCalendar) CreateReminder(ctx context.Context, ev CalendarEvent) (string, error) {
	return q.create(ctx, amqp.TargetReminder, ev)
}

func (q *QueuedCalendar) DeleteReminder(ctx context.Context, reminderID string) error {
	return q.delete(ctx, amqp.TargetReminder, reminderID)
}

func (q *QueuedCalendar) create(ctx context.Context, target amqp.CalendarTarget, ev CalendarEvent) (string, error) {
	id := core.NewID()
	err := q.publisher.PublishCalendarRequest(ctx, &amqp.CalendarRequest{
		Action:  amqp.CalendarCreate,
		Target:  target,
		EventID: id,
		Title:   ev.Title,
		Notes:   ev.Notes,
		Date:    ev.Date.String(),
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (q *QueuedCalendar) delete(ctx context.Context, target amqp.CalendarTarget, id string) error {
	return q.publisher.PublishCalendarRequest(ctx, &amqp.CalendarRequest{
		Action:  amqp.CalendarDelete,
		Target:  target,
		EventID: id,
	})
}
