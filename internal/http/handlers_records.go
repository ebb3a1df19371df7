package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"lexia/internal/core"
	"lexia/internal/csvio"
	applog "lexia/internal/log"
)

const maxImportBytes = 5 << 20

// recordView is the JSON form of a ledger record.
type recordView struct {
	ID           int64     `json:"id"`
	Category     string    `json:"category"`
	AccountType  string    `json:"accountType"`
	Date         core.Date `json:"date"`
	Amount       int64     `json:"amount"`
	Counterparty string    `json:"counterparty,omitempty"`
	ItemName     string    `json:"itemName,omitempty"`
	ItemID       *int64    `json:"itemId,omitempty"`
	Note         string    `json:"note,omitempty"`
	Version      int64     `json:"version"`
}

func toRecordView(r core.LedgerRecord) recordView {
	v := recordView{
		ID:           r.ID,
		Category:     string(r.Category),
		AccountType:  r.AccountType,
		Date:         r.Date,
		Amount:       r.Amount.Cents,
		Counterparty: r.Counterparty,
		ItemName:     r.ItemName,
		Note:         r.Note,
		Version:      r.Version,
	}
	if k := core.KeyOf(r); k.Kind == core.LinkedKey {
		id := k.ID
		v.ItemID = &id
	}
	return v
}

func toRecordViews(recs []core.LedgerRecord) []recordView {
	out := make([]recordView, len(recs))
	for i, r := range recs {
		out[i] = toRecordView(r)
	}
	return out
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseDateRange(r.URL.Query())
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	recs, err := s.deps.Records.List(r.Context(), rng.From, rng.To)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(map[string]any{"records": toRecordViews(recs)}).Write(w)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	rec, err := s.deps.Records.Get(r.Context(), id)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(toRecordView(rec)).Write(w)
}

func (s *Server) decodeRecord(w http.ResponseWriter, r *http.Request) (core.LedgerRecord, bool) {
	var in RecordInput
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return core.LedgerRecord{}, false
	}
	rec, err := in.Record()
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return core.LedgerRecord{}, false
	}
	return rec, true
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.decodeRecord(w, r)
	if !ok {
		return
	}
	created, err := s.deps.Records.Create(r.Context(), rec)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	s.log.LogRecordWritten(r.Context(), applog.OpCreate, created.ID, string(created.Category), created.AccountType, created.Date.String(), created.Amount.Cents)
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", fmt.Sprintf("/api/records/%d", created.ID)).
		Data(toRecordView(created)).
		Write(w)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	rec, ok := s.decodeRecord(w, r)
	if !ok {
		return
	}
	rec.ID = id
	updated, err := s.deps.Records.Update(r.Context(), rec)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	s.log.LogRecordWritten(r.Context(), applog.OpUpdate, updated.ID, string(updated.Category), updated.AccountType, updated.Date.String(), updated.Amount.Cents)
	NewJSONResponse().Data(toRecordView(updated)).Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	if err := s.deps.Records.Delete(r.Context(), id); err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handleImportRecords takes a CSV body. The batch is stored only if every
// row is valid.
func (s *Server) handleImportRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := csvio.Read(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			ErrorResponse(r, http.StatusRequestEntityTooLarge, "import too large").Write(w)
			return
		}
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	if len(recs) == 0 {
		BadRequestError(r, "no records in import").Write(w)
		return
	}
	created, err := s.deps.Records.Import(r.Context(), recs)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Data(map[string]any{"imported": len(created), "records": toRecordViews(created)}).
		Write(w)
}

func (s *Server) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseDateRange(r.URL.Query())
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	recs, err := s.deps.Records.List(r.Context(), rng.From, rng.To)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	var buf bytes.Buffer
	if err := csvio.Write(&buf, recs); err != nil {
		FromError(r, err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
