package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Record struct {
	ID           int64
	Category     string
	AccountType  string
	RecordDate   string
	Amount       int64
	Counterparty string
	ItemName     string
	ItemID       sql.NullInt64
	Note         string
	Version      int64
	SyncStatus   string
}

type Item struct {
	ID   int64
	Name string
}

type Booking struct {
	ID              int64
	PatientName     string
	Phone           string
	Email           string
	AppointmentDate string
	AppointmentTime string
	Notes           string
	Status          string
}

const recordColumns = `id, category, account_type, record_date, amount, counterparty, item_name, item_id, note, version, sync_status`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var i Record
	err := row.Scan(
		&i.ID,
		&i.Category,
		&i.AccountType,
		&i.RecordDate,
		&i.Amount,
		&i.Counterparty,
		&i.ItemName,
		&i.ItemID,
		&i.Note,
		&i.Version,
		&i.SyncStatus,
	)
	return i, err
}

const createRecord = `-- name: CreateRecord :one
INSERT INTO records (category, account_type, record_date, amount, counterparty, item_name, item_id, note)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + recordColumns

type CreateRecordParams struct {
	Category     string
	AccountType  string
	RecordDate   string
	Amount       int64
	Counterparty string
	ItemName     string
	ItemID       sql.NullInt64
	Note         string
}

func (q *Queries) CreateRecord(ctx context.Context, arg CreateRecordParams) (Record, error) {
	row := q.db.QueryRowContext(ctx, createRecord,
		arg.Category,
		arg.AccountType,
		arg.RecordDate,
		arg.Amount,
		arg.Counterparty,
		arg.ItemName,
		arg.ItemID,
		arg.Note,
	)
	return scanRecord(row)
}

const updateRecord = `-- name: UpdateRecord :one
UPDATE records
SET category = ?, account_type = ?, record_date = ?, amount = ?, counterparty = ?,
    item_name = ?, item_id = ?, note = ?,
    version = version + 1, sync_status = 'pending', updated_at = CURRENT_TIMESTAMP
WHERE id = ?
RETURNING ` + recordColumns

type UpdateRecordParams struct {
	CreateRecordParams
	ID int64
}

func (q *Queries) UpdateRecord(ctx context.Context, arg UpdateRecordParams) (Record, error) {
	row := q.db.QueryRowContext(ctx, updateRecord,
		arg.Category,
		arg.AccountType,
		arg.RecordDate,
		arg.Amount,
		arg.Counterparty,
		arg.ItemName,
		arg.ItemID,
		arg.Note,
		arg.ID,
	)
	return scanRecord(row)
}

const deleteRecord = `-- name: DeleteRecord :execrows
DELETE FROM records WHERE id = ?`

func (q *Queries) DeleteRecord(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRecord, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getRecord = `-- name: GetRecord :one
SELECT ` + recordColumns + ` FROM records WHERE id = ?`

func (q *Queries) GetRecord(ctx context.Context, id int64) (Record, error) {
	return scanRecord(q.db.QueryRowContext(ctx, getRecord, id))
}

const listRecords = `-- name: ListRecords :many
SELECT ` + recordColumns + ` FROM records
WHERE (?1 = '' AND ?2 = '')
   OR (record_date <> ''
       AND (?1 = '' OR record_date >= ?1)
       AND (?2 = '' OR record_date <= ?2))
ORDER BY record_date, id`

// ListRecords filters on the YYYY-MM-DD text column; lexical order is
// chronological for that layout.
func (q *Queries) ListRecords(ctx context.Context, from, to string) ([]Record, error) {
	rows, err := q.db.QueryContext(ctx, listRecords, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Record
	for rows.Next() {
		i, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPendingSyncRecords = `-- name: GetPendingSyncRecords :many
SELECT id, version FROM records
WHERE sync_status IN ('pending', 'error')
ORDER BY id
LIMIT ?`

type GetPendingSyncRecordsRow struct {
	ID      int64
	Version int64
}

func (q *Queries) GetPendingSyncRecords(ctx context.Context, limit int64) ([]GetPendingSyncRecordsRow, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncRecords, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetPendingSyncRecordsRow
	for rows.Next() {
		var i GetPendingSyncRecordsRow
		if err := rows.Scan(&i.ID, &i.Version); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markRecordSynced = `-- name: MarkRecordSynced :exec
UPDATE records SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP
WHERE id = ? AND version = ?`

func (q *Queries) MarkRecordSynced(ctx context.Context, id, version int64) error {
	_, err := q.db.ExecContext(ctx, markRecordSynced, id, version)
	return err
}

const markRecordSyncError = `-- name: MarkRecordSyncError :exec
UPDATE records SET sync_status = 'error' WHERE id = ?`

func (q *Queries) MarkRecordSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markRecordSyncError, id)
	return err
}

const listItems = `-- name: ListItems :many
SELECT id, name FROM items ORDER BY name`

func (q *Queries) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, listItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertItem = `-- name: UpsertItem :one
INSERT INTO items (name) VALUES (?)
ON CONFLICT (name) DO UPDATE SET name = excluded.name
RETURNING id, name`

func (q *Queries) UpsertItem(ctx context.Context, name string) (Item, error) {
	var i Item
	err := q.db.QueryRowContext(ctx, upsertItem, name).Scan(&i.ID, &i.Name)
	return i, err
}

const deleteItem = `-- name: DeleteItem :execrows
DELETE FROM items WHERE id = ?`

func (q *Queries) DeleteItem(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const bookingColumns = `id, patient_name, phone, email, appointment_date, appointment_time, notes, status`

func scanBooking(row interface{ Scan(...any) error }) (Booking, error) {
	var i Booking
	err := row.Scan(
		&i.ID,
		&i.PatientName,
		&i.Phone,
		&i.Email,
		&i.AppointmentDate,
		&i.AppointmentTime,
		&i.Notes,
		&i.Status,
	)
	return i, err
}

const createBooking = `-- name: CreateBooking :one
INSERT INTO bookings (patient_name, phone, email, appointment_date, appointment_time, notes, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + bookingColumns

type CreateBookingParams struct {
	PatientName     string
	Phone           string
	Email           string
	AppointmentDate string
	AppointmentTime string
	Notes           string
	Status          string
}

func (q *Queries) CreateBooking(ctx context.Context, arg CreateBookingParams) (Booking, error) {
	row := q.db.QueryRowContext(ctx, createBooking,
		arg.PatientName,
		arg.Phone,
		arg.Email,
		arg.AppointmentDate,
		arg.AppointmentTime,
		arg.Notes,
		arg.Status,
	)
	return scanBooking(row)
}

const getBooking = `-- name: GetBooking :one
SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

func (q *Queries) GetBooking(ctx context.Context, id int64) (Booking, error) {
	return scanBooking(q.db.QueryRowContext(ctx, getBooking, id))
}

const listBookings = `-- name: ListBookings :many
SELECT ` + bookingColumns + ` FROM bookings
WHERE (?1 = '' OR appointment_date >= ?1)
  AND (?2 = '' OR appointment_date <= ?2)
ORDER BY appointment_date, appointment_time, id`

func (q *Queries) ListBookings(ctx context.Context, from, to string) ([]Booking, error) {
	rows, err := q.db.QueryContext(ctx, listBookings, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Booking
	for rows.Next() {
		i, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateBookingStatus = `-- name: UpdateBookingStatus :one
UPDATE bookings SET status = ? WHERE id = ?
RETURNING ` + bookingColumns

func (q *Queries) UpdateBookingStatus(ctx context.Context, id int64, status string) (Booking, error) {
	return scanBooking(q.db.QueryRowContext(ctx, updateBookingStatus, status, id))
}

const deleteBooking = `-- name: DeleteBooking :execrows
DELETE FROM bookings WHERE id = ?`

func (q *Queries) DeleteBooking(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBooking, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
