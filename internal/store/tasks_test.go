package store

import (
	"testing"

	"homekeep/internal/core"
	"homekeep/internal/kv/memory"
)

func TestCompleteTask_RecurringSpawnsNextOccurrence(t *testing.T) {
	s := openTestStore(t, memory.New())
	cost := core.Money{Cents: 2500}
	mustAdd(t, s.AddTask, core.MaintenanceTask{
		ID:                "t1",
		Title:             "Replace HVAC filter",
		Description:       "MERV 11",
		DueDate:           core.NewDate(2024, 1, 1),
		Priority:          core.PriorityHigh,
		Status:            core.StatusUpcoming,
		ApplianceID:       "a1",
		EstimatedCost:     &cost,
		Recurring:         true,
		RecurringInterval: 30,
		CalendarEventID:   "cal-1",
		ReminderEventID:   "rem-1",
		Notes:             []string{"bought 3 filters"},
	})

	nextID, ok := s.CompleteTask("t1")
	if !ok {
		t.Fatal("CompleteTask() ok = false")
	}
	if nextID == "" || nextID == "t1" {
		t.Fatalf("nextID = %q, want a fresh id", nextID)
	}

	done, _ := s.Task("t1")
	if done.Status != core.StatusCompleted {
		t.Errorf("t1 status = %s, want completed", done.Status)
	}
	if done.DueDate.String() != "2024-01-01" {
		t.Errorf("t1 due date changed to %s", done.DueDate)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(jan5) {
		t.Errorf("t1 CompletedAt = %v, want %v", done.CompletedAt, jan5)
	}

	next, ok := s.Task(nextID)
	if !ok {
		t.Fatal("next occurrence missing")
	}
	if next.DueDate.String() != "2024-02-04" {
		t.Errorf("next due date = %s, want 2024-02-04", next.DueDate)
	}
	if next.Status != core.StatusUpcoming {
		t.Errorf("next status = %s, want upcoming", next.Status)
	}
	if next.Title != done.Title || next.Description != done.Description || next.Priority != done.Priority || next.ApplianceID != done.ApplianceID {
		t.Errorf("next occurrence fields not carried: %+v", next)
	}
	if !next.Recurring || next.RecurringInterval != 30 {
		t.Errorf("next recurrence = %v/%d, want true/30", next.Recurring, next.RecurringInterval)
	}
	if next.EstimatedCost == nil || next.EstimatedCost.Cents != 2500 {
		t.Errorf("next EstimatedCost = %v, want 2500", next.EstimatedCost)
	}
	if next.CalendarEventID != "" || next.ReminderEventID != "" || len(next.Notes) != 0 || next.CompletedAt != nil {
		t.Errorf("per-occurrence fields carried over: %+v", next)
	}
	if got := len(s.Tasks()); got != 2 {
		t.Errorf("Tasks() len = %d, want 2", got)
	}
}

func TestCompleteTask_NonRecurring(t *testing.T) {
	tests := []struct {
		name string
		task core.MaintenanceTask
	}{
		{"not recurring", core.MaintenanceTask{ID: "t1", Title: "Paint fence"}},
		{"recurring without interval", core.MaintenanceTask{ID: "t1", Title: "Paint fence", Recurring: true}},
		{"interval without recurring", core.MaintenanceTask{ID: "t1", Title: "Paint fence", RecurringInterval: 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTestStore(t, memory.New())
			mustAdd(t, s.AddTask, tt.task)

			nextID, ok := s.CompleteTask("t1")
			if !ok {
				t.Fatal("CompleteTask() ok = false")
			}
			if nextID != "" {
				t.Errorf("nextID = %q, want empty", nextID)
			}
			if got := len(s.Tasks()); got != 1 {
				t.Errorf("Tasks() len = %d, want 1", got)
			}
		})
	}
}

func TestCompleteTask_OnlyFromUpcoming(t *testing.T) {
	s := openTestStore(t, memory.New())
	mustAdd(t, s.AddTask, core.MaintenanceTask{ID: "t1", Title: "Gutters", Recurring: true, RecurringInterval: 7})

	if _, ok := s.CompleteTask("t1"); !ok {
		t.Fatal("first CompleteTask() ok = false")
	}
	if _, ok := s.CompleteTask("t1"); ok {
		t.Error("completing a completed task succeeded")
	}
	if got := len(s.Tasks()); got != 2 {
		t.Errorf("Tasks() len = %d, want 2", got)
	}

	mustAdd(t, s.AddTask, core.MaintenanceTask{ID: "t2", Title: "Roof"})
	s.ArchiveTask("t2")
	if _, ok := s.CompleteTask("t2"); ok {
		t.Error("completing an archived task succeeded")
	}
}

func TestArchiveAndUnarchive(t *testing.T) {
	tests := []struct {
		name     string
		complete bool
	}{
		{"archived while upcoming", false},
		{"archived while completed", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTestStore(t, memory.New())
			mustAdd(t, s.AddTask, core.MaintenanceTask{ID: "t1", Title: "Test smoke alarms"})
			if tt.complete {
				s.CompleteTask("t1")
			}

			if !s.ArchiveTask("t1") {
				t.Fatal("ArchiveTask() = false")
			}
			if task, _ := s.Task("t1"); task.Status != core.StatusArchived {
				t.Fatalf("status = %s, want archived", task.Status)
			}

			if !s.UnarchiveTask("t1") {
				t.Fatal("UnarchiveTask() = false")
			}
			task, _ := s.Task("t1")
			if task.Status != core.StatusUpcoming {
				t.Errorf("status = %s, want upcoming", task.Status)
			}
			if task.CompletedAt != nil {
				t.Errorf("CompletedAt = %v, want nil", task.CompletedAt)
			}
		})
	}
}

func TestUnarchiveTask_RequiresArchived(t *testing.T) {
	s := openTestStore(t, memory.New())
	mustAdd(t, s.AddTask, core.MaintenanceTask{ID: "t1", Title: "Test smoke alarms"})

	if s.UnarchiveTask("t1") {
		t.Error("UnarchiveTask() on upcoming task = true")
	}
}

func TestDeleteTask_NeverSpawnsRecurrence(t *testing.T) {
	s := openTestStore(t, memory.New())
	mustAdd(t, s.AddTask, core.MaintenanceTask{ID: "t1", Title: "Drain tank", Recurring: true, RecurringInterval: 180})

	if !s.DeleteTask("t1") {
		t.Fatal("DeleteTask() = false")
	}
	if got := len(s.Tasks()); got != 0 {
		t.Errorf("Tasks() len = %d, want 0", got)
	}
}

func TestUpdateTask_KeepsStatus(t *testing.T) {
	s := openTestStore(t, memory.New())
	mustAdd(t, s.AddTask, core.MaintenanceTask{ID: "t1", Title: "Clean dryer vent"})
	s.CompleteTask("t1")

	ok := s.UpdateTask(core.MaintenanceTask{ID: "t1", Title: "Clean dryer vent and duct", Status: core.StatusUpcoming, RecurringInterval: 30})
	if !ok {
		t.Fatal("UpdateTask() = false")
	}
	task, _ := s.Task("t1")
	if task.Title != "Clean dryer vent and duct" {
		t.Errorf("Title = %q", task.Title)
	}
	if task.Status != core.StatusCompleted || task.CompletedAt == nil {
		t.Errorf("status = %s completedAt = %v, want completed with timestamp", task.Status, task.CompletedAt)
	}
	if task.RecurringInterval != 0 {
		t.Errorf("RecurringInterval = %d on non-recurring task, want 0", task.RecurringInterval)
	}
}

func TestTaskNotesAndExternalIDs(t *testing.T) {
	s := openTestStore(t, memory.New())
	mustAdd(t, s.AddTask, core.MaintenanceTask{ID: "t1", Title: "Service boiler"})

	s.AddTaskNote("t1", "called plumber")
	s.AddTaskNote("t1", "booked for friday")
	s.SetTaskCalendarEvent("t1", "cal-9")
	s.SetTaskReminderEvent("t1", "rem-9")

	task, _ := s.Task("t1")
	if len(task.Notes) != 2 || task.Notes[0] != "called plumber" || task.Notes[1] != "booked for friday" {
		t.Errorf("Notes = %v", task.Notes)
	}
	if task.CalendarEventID != "cal-9" || task.ReminderEventID != "rem-9" {
		t.Errorf("event ids = %q/%q", task.CalendarEventID, task.ReminderEventID)
	}

	s.SetTaskCalendarEvent("t1", "")
	if task, _ := s.Task("t1"); task.CalendarEventID != "" {
		t.Errorf("CalendarEventID = %q after clear", task.CalendarEventID)
	}
}

func TestUpcomingAndOverdueTasks(t *testing.T) {
	s := openTestStore(t, memory.New())
	add := func(id string, due core.Date) {
		mustAdd(t, s.AddTask, core.MaintenanceTask{ID: id, Title: id, DueDate: due})
	}
	add("later", core.NewDate(2024, 3, 1))
	add("today", core.NewDate(2024, 1, 5))
	add("soon", core.NewDate(2024, 1, 20))
	add("late", core.NewDate(2024, 1, 4))
	add("very-late", core.NewDate(2023, 12, 1))
	add("done", core.NewDate(2024, 1, 10))
	s.CompleteTask("done")
	add("shelved", core.NewDate(2023, 11, 1))
	s.ArchiveTask("shelved")

	ids := func(tasks []core.MaintenanceTask) []string {
		out := make([]string, len(tasks))
		for i, t := range tasks {
			out[i] = t.ID
		}
		return out
	}

	upcoming := ids(s.UpcomingTasks())
	wantUpcoming := []string{"today", "soon", "later"}
	if len(upcoming) != len(wantUpcoming) {
		t.Fatalf("UpcomingTasks() = %v, want %v", upcoming, wantUpcoming)
	}
	for i := range wantUpcoming {
		if upcoming[i] != wantUpcoming[i] {
			t.Errorf("UpcomingTasks() = %v, want %v", upcoming, wantUpcoming)
			break
		}
	}

	overdue := ids(s.OverdueTasks())
	wantOverdue := []string{"very-late", "late"}
	if len(overdue) != len(wantOverdue) || overdue[0] != wantOverdue[0] || overdue[1] != wantOverdue[1] {
		t.Errorf("OverdueTasks() = %v, want %v", overdue, wantOverdue)
	}
}
