package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"lexia/internal/core"
	"lexia/internal/sheets"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var (
	_ sheets.RecordStore  = (*SQLiteRepository)(nil)
	_ sheets.ItemStore    = (*SQLiteRepository)(nil)
	_ sheets.BookingStore = (*SQLiteRepository)(nil)
	_ sheets.SyncTracker  = (*SQLiteRepository)(nil)
)

// dsn enables foreign keys and a busy timeout so concurrent writers wait
// instead of failing with SQLITE_BUSY.
func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping is used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateRecord(ctx context.Context, rec core.LedgerRecord) (core.LedgerRecord, error) {
	row, err := r.queries.CreateRecord(ctx, recordParams(rec))
	if err != nil {
		return core.LedgerRecord{}, fmt.Errorf("create record: %w", err)
	}
	slog.DebugContext(ctx, "Record saved to SQLite", "id", row.ID, "category", row.Category, "amount", row.Amount)
	return toCoreRecord(row), nil
}

// ImportRecords inserts all records in one transaction; any failure rolls
// back the whole batch.
func (r *SQLiteRepository) ImportRecords(ctx context.Context, recs []core.LedgerRecord) ([]core.LedgerRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	out := make([]core.LedgerRecord, 0, len(recs))
	for i, rec := range recs {
		row, err := q.CreateRecord(ctx, recordParams(rec))
		if err != nil {
			return nil, fmt.Errorf("import record %d: %w", i+1, err)
		}
		out = append(out, toCoreRecord(row))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateRecord(ctx context.Context, rec core.LedgerRecord) (core.LedgerRecord, error) {
	row, err := r.queries.UpdateRecord(ctx, UpdateRecordParams{CreateRecordParams: recordParams(rec), ID: rec.ID})
	if errors.Is(err, sql.ErrNoRows) {
		return core.LedgerRecord{}, core.ErrNotFound
	}
	if err != nil {
		return core.LedgerRecord{}, fmt.Errorf("update record %d: %w", rec.ID, err)
	}
	return toCoreRecord(row), nil
}

func (r *SQLiteRepository) DeleteRecord(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetRecord(ctx context.Context, id int64) (core.LedgerRecord, error) {
	row, err := r.queries.GetRecord(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.LedgerRecord{}, core.ErrNotFound
	}
	if err != nil {
		return core.LedgerRecord{}, fmt.Errorf("get record %d: %w", id, err)
	}
	return toCoreRecord(row), nil
}

func (r *SQLiteRepository) ListRecords(ctx context.Context, from, to core.Date) ([]core.LedgerRecord, error) {
	rows, err := r.queries.ListRecords(ctx, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]core.LedgerRecord, len(rows))
	for i, row := range rows {
		out[i] = toCoreRecord(row)
	}
	return out, nil
}

func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]sheets.PendingRecord, error) {
	rows, err := r.queries.GetPendingSyncRecords(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync records: %w", err)
	}
	out := make([]sheets.PendingRecord, len(rows))
	for i, row := range rows {
		out[i] = sheets.PendingRecord{ID: row.ID, Version: row.Version}
	}
	return out, nil
}

// MarkSynced is a no-op when the record changed after the message was sent;
// the newer version has its own message in flight.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id, version int64) error {
	if err := r.queries.MarkRecordSynced(ctx, id, version); err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkRecordSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	slog.WarnContext(ctx, "Record marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) ListItems(ctx context.Context) ([]core.Item, error) {
	rows, err := r.queries.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]core.Item, len(rows))
	for i, row := range rows {
		out[i] = core.Item{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateItem(ctx context.Context, name string) (core.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Item{}, core.ErrEmptyName
	}
	row, err := r.queries.UpsertItem(ctx, name)
	if err != nil {
		return core.Item{}, fmt.Errorf("create item: %w", err)
	}
	return core.Item{ID: row.ID, Name: row.Name}, nil
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateBooking(ctx context.Context, b core.Booking) (core.Booking, error) {
	status := b.Status
	if status == "" {
		status = core.StatusPending
	}
	row, err := r.queries.CreateBooking(ctx, CreateBookingParams{
		PatientName:     b.PatientName,
		Phone:           b.Phone,
		Email:           b.Email,
		AppointmentDate: b.AppointmentDate.String(),
		AppointmentTime: b.AppointmentTime,
		Notes:           b.Notes,
		Status:          string(status),
	})
	if isUniqueViolation(err) {
		return core.Booking{}, core.ErrSlotTaken
	}
	if err != nil {
		return core.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return toCoreBooking(row), nil
}

func (r *SQLiteRepository) GetBooking(ctx context.Context, id int64) (core.Booking, error) {
	row, err := r.queries.GetBooking(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Booking{}, core.ErrNotFound
	}
	if err != nil {
		return core.Booking{}, fmt.Errorf("get booking %d: %w", id, err)
	}
	return toCoreBooking(row), nil
}

func (r *SQLiteRepository) ListBookings(ctx context.Context, from, to core.Date) ([]core.Booking, error) {
	rows, err := r.queries.ListBookings(ctx, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]core.Booking, len(rows))
	for i, row := range rows {
		out[i] = toCoreBooking(row)
	}
	return out, nil
}

// UpdateBookingStatus returns core.ErrSlotTaken when reactivating a
// cancelled booking whose slot has since been taken.
func (r *SQLiteRepository) UpdateBookingStatus(ctx context.Context, id int64, status core.BookingStatus) (core.Booking, error) {
	row, err := r.queries.UpdateBookingStatus(ctx, id, string(status))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Booking{}, core.ErrNotFound
	}
	if isUniqueViolation(err) {
		return core.Booking{}, core.ErrSlotTaken
	}
	if err != nil {
		return core.Booking{}, fmt.Errorf("update booking %d: %w", id, err)
	}
	return toCoreBooking(row), nil
}

func (r *SQLiteRepository) DeleteBooking(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteBooking(ctx, id)
	if err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func recordParams(rec core.LedgerRecord) CreateRecordParams {
	p := CreateRecordParams{
		Category:     string(rec.Category),
		AccountType:  rec.AccountType,
		RecordDate:   rec.Date.String(),
		Amount:       rec.Amount.Cents,
		Counterparty: rec.Counterparty,
		ItemName:     rec.ItemName,
		Note:         rec.Note,
	}
	if rec.ItemID != nil && *rec.ItemID != 0 {
		p.ItemID = sql.NullInt64{Int64: *rec.ItemID, Valid: true}
	}
	return p
}

func toCoreRecord(row Record) core.LedgerRecord {
	rec := core.LedgerRecord{
		ID:           row.ID,
		Category:     core.Category(row.Category),
		AccountType:  row.AccountType,
		Date:         core.ParseDateLenient(row.RecordDate),
		Amount:       core.Money{Cents: row.Amount},
		Counterparty: row.Counterparty,
		ItemName:     row.ItemName,
		Note:         row.Note,
		Version:      row.Version,
	}
	if row.ItemID.Valid {
		id := row.ItemID.Int64
		rec.ItemID = &id
	}
	return rec
}

func toCoreBooking(row Booking) core.Booking {
	return core.Booking{
		ID:              row.ID,
		PatientName:     row.PatientName,
		Phone:           row.Phone,
		Email:           row.Email,
		AppointmentDate: core.ParseDateLenient(row.AppointmentDate),
		AppointmentTime: row.AppointmentTime,
		Notes:           row.Notes,
		Status:          core.BookingStatus(row.Status),
	}
}
