package http

import (
	"fmt"
	"net/http"

	"lexia/internal/core"
)

type projectView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Client    string    `json:"client,omitempty"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	DueDate   core.Date `json:"dueDate"`
	UnitPrice int64     `json:"unitPrice"`
	SortOrder int       `json:"sortOrder"`
}

func toProjectView(p core.Project) projectView {
	return projectView{
		ID:        p.ID,
		Name:      p.Name,
		Client:    p.Client,
		Status:    string(p.Status),
		Progress:  p.Status.Progress(),
		DueDate:   p.DueDate,
		UnitPrice: p.UnitPrice.Cents,
		SortOrder: p.SortOrder,
	}
}

func toProjectViews(ps []core.Project) []projectView {
	out := make([]projectView, len(ps))
	for i, p := range ps {
		out[i] = toProjectView(p)
	}
	return out
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ps, summary, err := s.deps.Projects.List(r.Context())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(map[string]any{
		"projects": toProjectViews(ps),
		"summary":  summary,
	}).Write(w)
}

func (s *Server) decodeProject(w http.ResponseWriter, r *http.Request) (core.Project, bool) {
	var in ProjectInput
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return core.Project{}, false
	}
	p, err := in.Project()
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return core.Project{}, false
	}
	return p, true
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeProject(w, r)
	if !ok {
		return
	}
	created, err := s.deps.Projects.Create(r.Context(), p)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", fmt.Sprintf("/api/projects/%d", created.ID)).
		Data(toProjectView(created)).
		Write(w)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	p, ok := s.decodeProject(w, r)
	if !ok {
		return
	}
	p.ID = id
	updated, err := s.deps.Projects.Update(r.Context(), p)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(toProjectView(updated)).Write(w)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	if err := s.deps.Projects.Delete(r.Context(), id); err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handleMoveProject returns the whole board in its new order.
func (s *Server) handleMoveProject(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	var in MoveInput
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	dir, err := core.ParseMoveDirection(in.Direction)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	ps, err := s.deps.Projects.Move(r.Context(), id, dir)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(map[string]any{"projects": toProjectViews(ps)}).Write(w)
}
