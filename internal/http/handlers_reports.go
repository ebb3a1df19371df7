package http

import (
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := ParseDateRange(q)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	ref, err := ParseRefDate(q, "ref", s.now())
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	rep, err := s.deps.Reports.Dashboard(r.Context(), rng.From, rng.To, ref)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(rep).Write(w)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	year, err := ParseYear(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	rep, err := s.deps.Reports.Monthly(r.Context(), year)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(rep).Write(w)
}
