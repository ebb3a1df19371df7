package http

import (
	"fmt"
	"net/http"

	"lexia/internal/core"
)

type itemView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toItemViews(items []core.Item) []itemView {
	out := make([]itemView, len(items))
	for i, it := range items {
		out[i] = itemView{ID: it.ID, Name: it.Name}
	}
	return out
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Catalog.List(r.Context())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(map[string]any{"items": toItemViews(items)}).Write(w)
}

// handleCreateItem returns the existing item when the name is taken.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in ItemInput
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	it, err := s.deps.Catalog.Create(r.Context(), sanitizeInput(in.Name))
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", fmt.Sprintf("/api/items/%d", it.ID)).
		Data(itemView{ID: it.ID, Name: it.Name}).
		Write(w)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	if err := s.deps.Catalog.Delete(r.Context(), id); err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
