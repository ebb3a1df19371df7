package backend

import (
	"context"

	"lexia/internal/core"
	"lexia/internal/sheets"
)

// Store is everything the API server needs from a data backend.
type Store interface {
	sheets.RecordStore
	sheets.ItemStore
	sheets.BookingStore
	sheets.SubscriptionStore
	sheets.ProjectStore
	sheets.SyncTracker
	// ImportRecords creates all records or none.
	ImportRecords(ctx context.Context, recs []core.LedgerRecord) ([]core.LedgerRecord, error)
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the backend store, its readiness probe and an optional
// cleanup function.
type Result struct {
	Store   Store
	Ready   func(ctx context.Context) error
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory backend specific: directory holding the optional seed_items.txt
	DataDirectory string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
