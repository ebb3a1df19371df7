package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lexia/internal/core"
	"lexia/internal/metrics"
	"lexia/internal/sheets"
)

// BookingService handles reservations and availability views.
type BookingService struct {
	store     sheets.BookingStore
	timeSlots []string
	metrics   *metrics.Metrics
}

func NewBookingService(store sheets.BookingStore, timeSlots []string, m *metrics.Metrics) *BookingService {
	if len(timeSlots) == 0 {
		timeSlots = core.DefaultTimeSlots
	}
	return &BookingService{store: store, timeSlots: timeSlots, metrics: m}
}

func (s *BookingService) TimeSlots() []string {
	return append([]string(nil), s.timeSlots...)
}

// Reserve books a slot. The store's uniqueness constraint is authoritative;
// the pre-check only avoids a write for the common conflict.
func (s *BookingService) Reserve(ctx context.Context, b core.Booking) (core.Booking, error) {
	if b.Status == "" {
		b.Status = core.StatusPending
	}
	if err := b.Validate(s.timeSlots); err != nil {
		return core.Booking{}, err
	}

	sameDay, err := s.store.ListBookings(ctx, b.AppointmentDate, b.AppointmentDate)
	if err != nil {
		return core.Booking{}, fmt.Errorf("load bookings: %w", err)
	}
	if b.Status.Occupies() && !core.IsSlotFree(b.AppointmentDate, b.AppointmentTime, core.ActiveBookings(sameDay)) {
		s.metrics.BookingConflict()
		return core.Booking{}, core.ErrSlotTaken
	}

	created, err := s.store.CreateBooking(ctx, b)
	if err != nil {
		if errors.Is(err, core.ErrSlotTaken) {
			s.metrics.BookingConflict()
			return core.Booking{}, core.ErrSlotTaken
		}
		return core.Booking{}, fmt.Errorf("save booking: %w", err)
	}
	slog.InfoContext(ctx, "Booking reserved",
		"id", created.ID,
		"date", created.AppointmentDate.String(),
		"time", created.AppointmentTime)
	return created, nil
}

// GridView is an availability grid together with the range it covers.
type GridView struct {
	Ref         core.Date        `json:"ref"`
	Granularity core.Granularity `json:"view"`
	Grid        core.Grid        `json:"grid"`
	Booked      int              `json:"booked"`
}

// Grid builds the availability grid for the period containing ref.
func (s *BookingService) Grid(ctx context.Context, ref core.Date, g core.Granularity) (GridView, error) {
	dates := core.BuildRange(ref, g)
	var bookings []core.Booking
	if len(dates) > 0 {
		var err error
		bookings, err = s.store.ListBookings(ctx, dates[0], dates[len(dates)-1])
		if err != nil {
			return GridView{}, fmt.Errorf("load bookings: %w", err)
		}
	}
	grid := core.BuildGrid(dates, s.timeSlots, core.ActiveBookings(bookings))
	return GridView{Ref: ref, Granularity: g, Grid: grid, Booked: grid.BookedCount()}, nil
}

// Step moves ref one period and returns the grid there.
func (s *BookingService) Step(ctx context.Context, ref core.Date, g core.Granularity, dir core.Direction) (GridView, error) {
	return s.Grid(ctx, core.NextPeriod(ref, g, dir), g)
}

func (s *BookingService) List(ctx context.Context, from, to core.Date) ([]core.Booking, error) {
	return s.store.ListBookings(ctx, from, to)
}

// UpdateStatus changes a booking's status. Reactivating a cancelled booking
// whose slot was taken in the meantime fails with core.ErrSlotTaken.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status core.BookingStatus) (core.Booking, error) {
	if !status.Valid() {
		return core.Booking{}, core.ErrInvalidStatus
	}
	b, err := s.store.UpdateBookingStatus(ctx, id, status)
	if errors.Is(err, core.ErrSlotTaken) {
		s.metrics.BookingConflict()
	}
	return b, err
}

func (s *BookingService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteBooking(ctx, id)
}
