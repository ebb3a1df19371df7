package http

import (
	"fmt"
	"net/http"
	"strings"

	"lexia/internal/core"
)

type bookingView struct {
	ID          int64     `json:"id"`
	PatientName string    `json:"patientName"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Date        core.Date `json:"date"`
	Time        string    `json:"time"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
}

func toBookingView(b core.Booking) bookingView {
	return bookingView{
		ID:          b.ID,
		PatientName: b.PatientName,
		Phone:       b.Phone,
		Email:       b.Email,
		Date:        b.AppointmentDate,
		Time:        b.AppointmentTime,
		Notes:       b.Notes,
		Status:      string(b.Status),
	}
}

func (s *Server) handleListReservations(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseDateRange(r.URL.Query())
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	list, err := s.deps.Bookings.List(r.Context(), rng.From, rng.To)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	out := make([]bookingView, len(list))
	for i, b := range list {
		out[i] = toBookingView(b)
	}
	NewJSONResponse().Data(map[string]any{"reservations": out}).Write(w)
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	var in BookingInput
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	b, err := in.Booking()
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	created, err := s.deps.Bookings.Reserve(r.Context(), b)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	s.log.LogBookingReserved(r.Context(), created.ID, created.AppointmentDate.String(), created.AppointmentTime, string(created.Status))
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", fmt.Sprintf("/api/reservations/%d", created.ID)).
		Data(toBookingView(created)).
		Write(w)
}

// gridParams reads date (default today) and view (default week).
func (s *Server) gridParams(r *http.Request) (core.Date, core.Granularity, error) {
	q := r.URL.Query()
	ref, err := ParseRefDate(q, "date", s.now())
	if err != nil {
		return core.Date{}, "", err
	}
	g, err := core.ParseGranularity(q.Get("view"))
	if err != nil {
		return core.Date{}, "", fmt.Errorf("%w: %q", err, q.Get("view"))
	}
	return ref, g, nil
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	ref, g, err := s.gridParams(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	view, err := s.deps.Bookings.Grid(r.Context(), ref, g)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(view).Write(w)
}

func (s *Server) handleNextGrid(w http.ResponseWriter, r *http.Request) {
	ref, g, err := s.gridParams(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	dir := core.ParseDirection(r.URL.Query().Get("dir"))
	view, err := s.deps.Bookings.Step(r.Context(), ref, g, dir)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(view).Write(w)
}

func (s *Server) handleUpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	var in StatusInput
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	status := core.BookingStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	updated, err := s.deps.Bookings.UpdateStatus(r.Context(), id, status)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(toBookingView(updated)).Write(w)
}

func (s *Server) handleDeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	if err := s.deps.Bookings.Delete(r.Context(), id); err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
