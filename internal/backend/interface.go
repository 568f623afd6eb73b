package backend

import (
	"context"
	"slices"

	"homekeep/internal/amqp"
	"homekeep/internal/kv"
)

// BackendType names a kv implementation.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool { return slices.Contains(GetBackendTypes(), bt) }

// GetBackendTypes returns every supported backend type.
func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, MemoryBackend}
}

// GetBackendTypeStrings returns GetBackendTypes as strings, for messages.
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

// CleanupFunc releases whatever a backend opened.
type CleanupFunc func() error

// BackendResult is what the store is opened against.
type BackendResult struct {
	Store kv.Store
	// Publisher is nil when AMQP is not configured or unreachable.
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// Factory creates backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
