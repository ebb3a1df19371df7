package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"lexia/internal/core"
	"lexia/internal/sheets"
)

type syncState struct {
	version int64
	synced  bool
	failed  bool
}

// Store keeps records, items, bookings, subscriptions and projects in
// process memory. It honours the
// same contracts as the SQLite repository, including one active booking per
// slot.
type Store struct {
	mu sync.Mutex
	// ids holds the last id handed out per table, as SQLite's
	// AUTOINCREMENT does.
	ids      map[string]int64
	records  map[int64]core.LedgerRecord
	syncs    map[int64]*syncState
	items    []core.Item
	bookings map[int64]core.Booking
	subs     map[int64]core.Subscription
	projects map[int64]core.Project
}

var (
	_ sheets.RecordStore  = (*Store)(nil)
	_ sheets.ItemStore    = (*Store)(nil)
	_ sheets.BookingStore = (*Store)(nil)
	_ sheets.SyncTracker  = (*Store)(nil)

	_ sheets.SubscriptionStore = (*Store)(nil)
	_ sheets.ProjectStore      = (*Store)(nil)
)

func New(items []string) *Store {
	s := &Store{
		records:  make(map[int64]core.LedgerRecord),
		syncs:    make(map[int64]*syncState),
		bookings: make(map[int64]core.Booking),
		subs:     make(map[int64]core.Subscription),
		projects: make(map[int64]core.Project),
		ids:      make(map[string]int64),
	}
	for _, name := range dedupe(items) {
		s.items = append(s.items, core.Item{ID: s.id(tableItems), Name: name})
	}
	return s
}

// NewFromFiles seeds items from seed_items.txt in base, one name per line.
func NewFromFiles(base string) *Store {
	return New(readLines(filepath.Join(base, "seed_items.txt")))
}

const (
	tableRecords       = "records"
	tableItems         = "items"
	tableBookings      = "bookings"
	tableSubscriptions = "subscriptions"
	tableProjects      = "projects"
)

func (s *Store) id(table string) int64 {
	s.ids[table]++
	return s.ids[table]
}

func (s *Store) CreateRecord(_ context.Context, r core.LedgerRecord) (core.LedgerRecord, error) {
	if err := r.Validate(); err != nil {
		return core.LedgerRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id(tableRecords)
	r = normalizeItem(r)
	r.Version = 1
	s.records[r.ID] = r
	s.syncs[r.ID] = &syncState{version: 1}
	return r, nil
}

// ImportRecords validates the whole batch before storing any of it.
func (s *Store) ImportRecords(ctx context.Context, recs []core.LedgerRecord) ([]core.LedgerRecord, error) {
	for i, r := range recs {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("import record %d: %w", i+1, err)
		}
	}
	out := make([]core.LedgerRecord, 0, len(recs))
	for _, r := range recs {
		created, err := s.CreateRecord(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

func (s *Store) UpdateRecord(_ context.Context, r core.LedgerRecord) (core.LedgerRecord, error) {
	if err := r.Validate(); err != nil {
		return core.LedgerRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.ID]; !ok {
		return core.LedgerRecord{}, core.ErrNotFound
	}
	r = normalizeItem(r)
	st := s.syncs[r.ID]
	st.version++
	st.synced, st.failed = false, false
	r.Version = st.version
	s.records[r.ID] = r
	return r, nil
}

func (s *Store) DeleteRecord(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.records, id)
	delete(s.syncs, id)
	return nil
}

func (s *Store) GetRecord(_ context.Context, id int64) (core.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return core.LedgerRecord{}, core.ErrNotFound
	}
	return r, nil
}

func (s *Store) ListRecords(_ context.Context, from, to core.Date) ([]core.LedgerRecord, error) {
	s.mu.Lock()
	all := make([]core.LedgerRecord, 0, len(s.records))
	for _, r := range s.records {
		all = append(all, r)
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		di, dj := all[i].Date.String(), all[j].Date.String()
		if di != dj {
			return di < dj
		}
		return all[i].ID < all[j].ID
	})
	return core.FilterByDateRange(all, from, to), nil
}

func (s *Store) PendingSync(_ context.Context, limit int) ([]sheets.PendingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sheets.PendingRecord
	for id, st := range s.syncs {
		if !st.synced {
			out = append(out, sheets.PendingRecord{ID: id, Version: st.version})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) MarkSynced(_ context.Context, id, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.syncs[id]; ok && st.version == version {
		st.synced, st.failed = true, false
	}
	return nil
}

func (s *Store) MarkSyncError(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.syncs[id]; ok {
		st.failed = true
	}
	return nil
}

func (s *Store) ListItems(_ context.Context) ([]core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Item(nil), s.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateItem(_ context.Context, name string) (core.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Item{}, core.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Name == name {
			return it, nil
		}
	}
	it := core.Item{ID: s.id(tableItems), Name: name}
	s.items = append(s.items, it)
	return it, nil
}

func (s *Store) DeleteItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// slotHeldLocked reports whether another active booking holds b's slot.
func (s *Store) slotHeldLocked(b core.Booking) bool {
	for id, other := range s.bookings {
		if id == b.ID || !other.Status.Occupies() {
			continue
		}
		if other.AppointmentTime == b.AppointmentTime && other.AppointmentDate.Equal(b.AppointmentDate.Time) {
			return true
		}
	}
	return false
}

func (s *Store) CreateBooking(_ context.Context, b core.Booking) (core.Booking, error) {
	if b.Status == "" {
		b.Status = core.StatusPending
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Status.Occupies() && s.slotHeldLocked(b) {
		return core.Booking{}, core.ErrSlotTaken
	}
	b.ID = s.id(tableBookings)
	s.bookings[b.ID] = b
	return b, nil
}

func (s *Store) GetBooking(_ context.Context, id int64) (core.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return core.Booking{}, core.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBookings(_ context.Context, from, to core.Date) ([]core.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Booking
	for _, b := range s.bookings {
		if from.Valid() && b.AppointmentDate.Before(from.Time) {
			continue
		}
		if to.Valid() && b.AppointmentDate.After(to.Time) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate.Time) {
			return out[i].AppointmentDate.Before(out[j].AppointmentDate.Time)
		}
		if out[i].AppointmentTime != out[j].AppointmentTime {
			return out[i].AppointmentTime < out[j].AppointmentTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateBookingStatus(_ context.Context, id int64, status core.BookingStatus) (core.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return core.Booking{}, core.ErrNotFound
	}
	b.Status = status
	if status.Occupies() && s.slotHeldLocked(b) {
		return core.Booking{}, core.ErrSlotTaken
	}
	s.bookings[id] = b
	return b, nil
}

func (s *Store) DeleteBooking(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

// normalizeItem stores item id 0 as unlinked, matching the SQLite store.
func normalizeItem(r core.LedgerRecord) core.LedgerRecord {
	if r.ItemID != nil && *r.ItemID == 0 {
		r.ItemID = nil
	}
	return r
}

// Exporter is an in-memory RowExporter for local runs and tests.
type Exporter struct {
	mu   sync.Mutex
	rows map[int64]core.LedgerRecord
}

var _ sheets.RowExporter = (*Exporter)(nil)

func NewExporter() *Exporter {
	return &Exporter{rows: make(map[int64]core.LedgerRecord)}
}

// AppendRecord upserts by record id so redelivered messages do not duplicate rows.
func (e *Exporter) AppendRecord(_ context.Context, r core.LedgerRecord) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows[r.ID] = r
	return fmt.Sprintf("mem:%d", r.ID), nil
}

func (e *Exporter) DeleteRecordRow(_ context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.rows, id)
	return nil
}

// Rows returns a snapshot of the exported rows keyed by record id.
func (e *Exporter) Rows() map[int64]core.LedgerRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int64]core.LedgerRecord, len(e.rows))
	for k, v := range e.rows {
		out[k] = v
	}
	return out
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, keeping input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
