package services

import (
	"context"
	"fmt"
	"sync"

	"lexia/internal/core"
	"lexia/internal/sheets"
)

// ProjectService runs the project progress board.
type ProjectService struct {
	store sheets.ProjectStore
	// moveMu serializes reorders so two concurrent moves cannot interleave
	// their read and write of the board.
	moveMu sync.Mutex
}

func NewProjectService(store sheets.ProjectStore) *ProjectService {
	return &ProjectService{store: store}
}

// List returns the board in display order with its summary.
func (s *ProjectService) List(ctx context.Context) ([]core.Project, core.ProjectSummary, error) {
	ps, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, core.ProjectSummary{}, fmt.Errorf("list projects: %w", err)
	}
	return ps, core.SummarizeProjects(ps), nil
}

func (s *ProjectService) Get(ctx context.Context, id int64) (core.Project, error) {
	return s.store.GetProject(ctx, id)
}

// Create appends p to the end of the board. An empty status means the
// project has not started.
func (s *ProjectService) Create(ctx context.Context, p core.Project) (core.Project, error) {
	if p.Status == "" {
		p.Status = core.ProjectWaiting
	}
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	created, err := s.store.CreateProject(ctx, p)
	if err != nil {
		return core.Project{}, fmt.Errorf("save project: %w", err)
	}
	return created, nil
}

// Update replaces every field but the board position.
func (s *ProjectService) Update(ctx context.Context, p core.Project) (core.Project, error) {
	if p.Status == "" {
		p.Status = core.ProjectWaiting
	}
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	updated, err := s.store.UpdateProject(ctx, p)
	if err != nil {
		return core.Project{}, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// Move swaps a project with its neighbour and returns the new board order.
func (s *ProjectService) Move(ctx context.Context, id int64, dir core.MoveDirection) ([]core.Project, error) {
	s.moveMu.Lock()
	defer s.moveMu.Unlock()

	ps, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	moved, err := core.MoveProject(ps, id, dir)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(moved))
	for i, p := range moved {
		ids[i] = p.ID
	}
	if err := s.store.ReorderProjects(ctx, ids); err != nil {
		return nil, fmt.Errorf("reorder projects: %w", err)
	}
	return moved, nil
}
