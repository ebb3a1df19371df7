package services

import (
	"context"
	"fmt"
	"log/slog"

	"lexia/internal/config"
	"lexia/internal/core"
	"lexia/internal/sheets"
)

// Publisher announces ledger changes to the sync worker.
type Publisher interface {
	PublishRecordSync(ctx context.Context, id, version int64) error
	PublishRecordDelete(ctx context.Context, id int64) error
}

// RecordRepository is a record store that can insert a batch atomically.
type RecordRepository interface {
	sheets.RecordStore
	ImportRecords(ctx context.Context, recs []core.LedgerRecord) ([]core.LedgerRecord, error)
}

// Invalidator drops derived data after a write.
type Invalidator interface {
	Purge()
}

// RecordService orchestrates ledger writes across the store and AMQP.
type RecordService struct {
	repo      RecordRepository
	publisher Publisher
	settings  config.Settings
	onWrite   []Invalidator
}

// NewRecordService accepts a nil publisher; sync messages are then skipped.
func NewRecordService(repo RecordRepository, publisher Publisher, settings config.Settings, invalidate ...Invalidator) *RecordService {
	return &RecordService{
		repo:      repo,
		publisher: publisher,
		settings:  settings,
		onWrite:   invalidate,
	}
}

func (s *RecordService) validate(r core.LedgerRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if len(s.settings.AccountTypes) > 0 && !s.settings.HasAccountType(r.AccountType) {
		return fmt.Errorf("%w: %q", core.ErrUnknownAccountType, r.AccountType)
	}
	return nil
}

// Create saves a record locally and publishes a sync message.
func (s *RecordService) Create(ctx context.Context, r core.LedgerRecord) (core.LedgerRecord, error) {
	if err := s.validate(r); err != nil {
		return core.LedgerRecord{}, err
	}
	created, err := s.repo.CreateRecord(ctx, r)
	if err != nil {
		return core.LedgerRecord{}, fmt.Errorf("save record: %w", err)
	}
	s.written()
	s.publishSync(ctx, created)
	return created, nil
}

// Update replaces every field of an existing record.
func (s *RecordService) Update(ctx context.Context, r core.LedgerRecord) (core.LedgerRecord, error) {
	if err := s.validate(r); err != nil {
		return core.LedgerRecord{}, err
	}
	updated, err := s.repo.UpdateRecord(ctx, r)
	if err != nil {
		return core.LedgerRecord{}, fmt.Errorf("update record: %w", err)
	}
	s.written()
	s.publishSync(ctx, updated)
	return updated, nil
}

func (s *RecordService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	s.written()
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishRecordDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
	}
	return nil
}

func (s *RecordService) Get(ctx context.Context, id int64) (core.LedgerRecord, error) {
	return s.repo.GetRecord(ctx, id)
}

// List returns records within [from, to]; zero bounds are open.
func (s *RecordService) List(ctx context.Context, from, to core.Date) ([]core.LedgerRecord, error) {
	return s.repo.ListRecords(ctx, from, to)
}

// Import validates the whole batch before storing any of it.
func (s *RecordService) Import(ctx context.Context, recs []core.LedgerRecord) ([]core.LedgerRecord, error) {
	for i, r := range recs {
		if err := s.validate(r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	created, err := s.repo.ImportRecords(ctx, recs)
	if err != nil {
		return nil, fmt.Errorf("import records: %w", err)
	}
	s.written()
	for _, r := range created {
		s.publishSync(ctx, r)
	}
	slog.InfoContext(ctx, "Records imported", "count", len(created))
	return created, nil
}

func (s *RecordService) written() {
	for _, inv := range s.onWrite {
		inv.Purge()
	}
}

// publishSync never fails the caller: the record is saved and the worker's
// pending sweep picks it up if the message is lost.
func (s *RecordService) publishSync(ctx context.Context, r core.LedgerRecord) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordSync(ctx, r.ID, r.Version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", r.ID, "error", err)
	}
}
