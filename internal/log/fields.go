package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldCollection  = "collection"
	FieldKey         = "key"
	FieldID          = "id"
	FieldTaskID      = "task_id"
	FieldNextTaskID  = "next_task_id"
	FieldApplianceID = "appliance_id"
	FieldProID       = "pro_id"
	FieldNoteID      = "note_id"
	FieldStatus      = "status"
	FieldDueDate     = "due_date"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldCount       = "count"
	FieldBytes       = "bytes"
	FieldBackend     = "backend"
	FieldDuration    = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStore    = "store"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentCalendar = "calendar"
	ComponentBackend  = "backend"
	ComponentCLI      = "cli"
	ComponentWorker   = "digest-worker"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpLoad      = "load"
	OpPersist   = "persist"
	OpComplete  = "complete"
	OpArchive   = "archive"
	OpUnarchive = "unarchive"
	OpLink      = "link"
	OpUnlink    = "unlink"
	OpNotify    = "notify"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntity adds the collection and id of the entity being operated on
func (f LogFields) WithEntity(collection, id string) LogFields {
	f[FieldCollection] = collection
	f[FieldID] = id
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
