package sheets

import (
	"context"

	"lexia/internal/core"
)

// Ports for outbound adapters.
type (
	// RecordStore persists ledger records. Update and Delete return
	// core.ErrNotFound for unknown ids.
	RecordStore interface {
		CreateRecord(ctx context.Context, r core.LedgerRecord) (core.LedgerRecord, error)
		UpdateRecord(ctx context.Context, r core.LedgerRecord) (core.LedgerRecord, error)
		DeleteRecord(ctx context.Context, id int64) error
		GetRecord(ctx context.Context, id int64) (core.LedgerRecord, error)
		// ListRecords returns records dated within [from, to]; zero bounds are
		// open. With both bounds zero every record is returned, including
		// those whose date could not be parsed.
		ListRecords(ctx context.Context, from, to core.Date) ([]core.LedgerRecord, error)
	}

	// ItemStore holds the item catalog. CreateItem returns the existing
	// item when the name is already taken. Records keep their item id after
	// the item is deleted.
	ItemStore interface {
		ListItems(ctx context.Context) ([]core.Item, error)
		CreateItem(ctx context.Context, name string) (core.Item, error)
		DeleteItem(ctx context.Context, id int64) error
	}

	// BookingStore persists reservations. CreateBooking returns
	// core.ErrSlotTaken when an active booking already holds the slot.
	BookingStore interface {
		CreateBooking(ctx context.Context, b core.Booking) (core.Booking, error)
		GetBooking(ctx context.Context, id int64) (core.Booking, error)
		ListBookings(ctx context.Context, from, to core.Date) ([]core.Booking, error)
		UpdateBookingStatus(ctx context.Context, id int64, status core.BookingStatus) (core.Booking, error)
		DeleteBooking(ctx context.Context, id int64) error
	}

	// SubscriptionStore persists recurring record templates.
	// UpdateSubscription leaves LastGenerated untouched; only
	// MarkSubscriptionGenerated moves it.
	SubscriptionStore interface {
		CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
		UpdateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
		DeleteSubscription(ctx context.Context, id int64) error
		GetSubscription(ctx context.Context, id int64) (core.Subscription, error)
		ListSubscriptions(ctx context.Context) ([]core.Subscription, error)
		MarkSubscriptionGenerated(ctx context.Context, id int64, on core.Date) error
	}

	// ProjectStore persists the progress board. ListProjects is ordered by
	// sort order, CreateProject appends to the end, and ReorderProjects
	// assigns each listed id its index as sort order.
	ProjectStore interface {
		ListProjects(ctx context.Context) ([]core.Project, error)
		GetProject(ctx context.Context, id int64) (core.Project, error)
		CreateProject(ctx context.Context, p core.Project) (core.Project, error)
		UpdateProject(ctx context.Context, p core.Project) (core.Project, error)
		DeleteProject(ctx context.Context, id int64) error
		ReorderProjects(ctx context.Context, ids []int64) error
	}

	// SyncTracker records which ledger rows have been mirrored downstream.
	SyncTracker interface {
		PendingSync(ctx context.Context, limit int) ([]PendingRecord, error)
		MarkSynced(ctx context.Context, id int64, version int64) error
		MarkSyncError(ctx context.Context, id int64) error
	}

	// RowExporter mirrors ledger records into an external spreadsheet.
	RowExporter interface {
		AppendRecord(ctx context.Context, r core.LedgerRecord) (rowRef string, err error)
		DeleteRecordRow(ctx context.Context, id int64) error
	}

	// PendingRecord is the minimal data needed to enqueue a sync message.
	PendingRecord struct {
		ID      int64
		Version int64
	}
)
