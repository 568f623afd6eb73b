package services

import (
	"context"
	"errors"
	"testing"

	"homekeep/internal/amqp"
	"homekeep/internal/core"
)

type recordingPublisher struct {
	requests []*amqp.CalendarRequest
	err      error
}

func (p *recordingPublisher) PublishCalendarRequest(_ context.Context, req *amqp.CalendarRequest) error {
	if p.err != nil {
		return p.err
	}
	p.requests = append(p.requests, req)
	return nil
}

func TestQueuedCalendar_CreateAndDelete(t *testing.T) {
	pub := &recordingPublisher{}
	cal := NewQueuedCalendar(pub)
	ctx := context.Background()

	eventID, err := cal.CreateEvent(ctx, CalendarEvent{Title: "Flush water heater", Date: core.NewDate(2024, 3, 1)})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	reminderID, err := cal.CreateReminder(ctx, CalendarEvent{Title: "Flush water heater", Date: core.NewDate(2024, 3, 1)})
	if err != nil {
		t.Fatalf("CreateReminder() error = %v", err)
	}
	if eventID == "" || eventID == reminderID {
		t.Errorf("ids = %q, %q, want distinct non-empty", eventID, reminderID)
	}
	if err := cal.DeleteEvent(ctx, eventID); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}

	want := []struct {
		action amqp.CalendarAction
		target amqp.CalendarTarget
		id     string
	}{
		{amqp.CalendarCreate, amqp.TargetEvent, eventID},
		{amqp.CalendarCreate, amqp.TargetReminder, reminderID},
		{amqp.CalendarDelete, amqp.TargetEvent, eventID},
	}
	if len(pub.requests) != len(want) {
		t.Fatalf("published %d requests, want %d", len(pub.requests), len(want))
	}
	for i, w := range want {
		got := pub.requests[i]
		if got.Action != w.action || got.Target != w.target || got.EventID != w.id {
			t.Errorf("request %d = %+v, want %v %v %s", i, got, w.action, w.target, w.id)
		}
	}
	if pub.requests[0].Date != "2024-03-01" {
		t.Errorf("Date = %q, want 2024-03-01", pub.requests[0].Date)
	}
}

func TestQueuedCalendar_PublishFailureLeavesTaskUnscheduled(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, core.MaintenanceTask{ID: "t1", Title: "Clean gutters", DueDate: core.NewDate(2024, 4, 1)})
	cal := NewQueuedCalendar(&recordingPublisher{err: amqp.ErrCircuitOpen})
	svc := NewCalendarService(s, cal, cal, nil)

	if _, err := svc.ScheduleTask(context.Background(), "t1"); !errors.Is(err, amqp.ErrCircuitOpen) {
		t.Fatalf("ScheduleTask() error = %v, want ErrCircuitOpen", err)
	}
	if task, _ := s.Task("t1"); task.CalendarEventID != "" {
		t.Errorf("CalendarEventID = %q, want empty", task.CalendarEventID)
	}
}
