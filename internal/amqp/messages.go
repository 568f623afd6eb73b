package amqp

import (
	"encoding/json"
	"time"

	"homekeep/internal/core"
)

// Message types, set as the AMQP Type property.
const (
	MessageTypeChange   = "store.change"
	MessageTypeDigest   = "household.digest"
	MessageTypeCalendar = "calendar.request"
)

// ChangeMessage announces one applied store mutation. Consumers fetch the
// entity itself; the message carries only what changed.
type ChangeMessage struct {
	Collection core.Collection `json:"collection"`
	Op         core.ChangeOp   `json:"op"`
	ID         string          `json:"id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

func NewChangeMessage(ev core.ChangeEvent) *ChangeMessage {
	ts := ev.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &ChangeMessage{
		Collection: ev.Collection,
		Op:         ev.Op,
		ID:         ev.ID,
		Timestamp:  ts,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DigestTask is the short form of a task inside a digest.
type DigestTask struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	DueDate  string        `json:"dueDate"`
	Priority core.Priority `json:"priority"`
}

// DigestMessage summarizes the household's month and task backlog.
type DigestMessage struct {
	Budget    core.BudgetSummary `json:"budget"`
	Overdue   []DigestTask       `json:"overdue"`
	Upcoming  []DigestTask       `json:"upcoming"`
	Timestamp time.Time          `json:"timestamp"`
}

func NewDigestMessage(budget core.BudgetSummary, overdue, upcoming []core.MaintenanceTask) *DigestMessage {
	return &DigestMessage{
		Budget:    budget,
		Overdue:   digestTasks(overdue),
		Upcoming:  digestTasks(upcoming),
		Timestamp: time.Now(),
	}
}

func digestTasks(tasks []core.MaintenanceTask) []DigestTask {
	out := make([]DigestTask, len(tasks))
	for i, t := range tasks {
		out[i] = DigestTask{ID: t.ID, Title: t.Title, DueDate: t.DueDate.String(), Priority: t.Priority}
	}
	return out
}

// ToJSON converts the message to JSON bytes
func (m *DigestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DigestMessageFromJSON creates a message from JSON bytes
func DigestMessageFromJSON(data []byte) (*DigestMessage, error) {
	var msg DigestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

type (
	CalendarAction string
	CalendarTarget string
)

const (
	CalendarCreate CalendarAction = "create"
	CalendarDelete CalendarAction = "delete"

	TargetEvent    CalendarTarget = "event"
	TargetReminder CalendarTarget = "reminder"
)

// CalendarRequest asks the platform agent to create or delete a calendar
// event or reminder. EventID is assigned by the sender on create.
type CalendarRequest struct {
	Action    CalendarAction `json:"action"`
	Target    CalendarTarget `json:"target"`
	EventID   string         `json:"eventId"`
	Title     string         `json:"title,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Date      string         `json:"date,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *CalendarRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CalendarRequestFromJSON creates a message from JSON bytes
func CalendarRequestFromJSON(data []byte) (*CalendarRequest, error) {
	var msg CalendarRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
