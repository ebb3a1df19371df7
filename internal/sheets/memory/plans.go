package memory

import (
	"context"
	"sort"

	"lexia/internal/core"
)

func (s *Store) CreateSubscription(_ context.Context, sub core.Subscription) (core.Subscription, error) {
	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.ID = s.id(tableSubscriptions)
	s.subs[sub.ID] = sub
	return sub, nil
}

func (s *Store) UpdateSubscription(_ context.Context, sub core.Subscription) (core.Subscription, error) {
	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.subs[sub.ID]
	if !ok {
		return core.Subscription{}, core.ErrNotFound
	}
	sub.LastGenerated = old.LastGenerated
	s.subs[sub.ID] = sub
	return sub, nil
}

func (s *Store) DeleteSubscription(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.subs, id)
	return nil
}

func (s *Store) GetSubscription(_ context.Context, id int64) (core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return core.Subscription{}, core.ErrNotFound
	}
	return sub, nil
}

func (s *Store) ListSubscriptions(_ context.Context) ([]core.Subscription, error) {
	s.mu.Lock()
	out := make([]core.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) MarkSubscriptionGenerated(_ context.Context, id int64, on core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return core.ErrNotFound
	}
	sub.LastGenerated = on
	s.subs[id] = sub
	return nil
}

func (s *Store) ListProjects(_ context.Context) ([]core.Project, error) {
	s.mu.Lock()
	out := make([]core.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	s.mu.Unlock()
	core.SortProjects(out)
	return out, nil
}

func (s *Store) GetProject(_ context.Context, id int64) (core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return core.Project{}, core.ErrNotFound
	}
	return p, nil
}

func (s *Store) CreateProject(_ context.Context, p core.Project) (core.Project, error) {
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := 0
	for _, other := range s.projects {
		if other.SortOrder >= next {
			next = other.SortOrder + 1
		}
	}
	p.ID = s.id(tableProjects)
	p.SortOrder = next
	s.projects[p.ID] = p
	return p, nil
}

func (s *Store) UpdateProject(_ context.Context, p core.Project) (core.Project, error) {
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.projects[p.ID]
	if !ok {
		return core.Project{}, core.ErrNotFound
	}
	p.SortOrder = old.SortOrder
	s.projects[p.ID] = p
	return p, nil
}

func (s *Store) DeleteProject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// ReorderProjects applies all positions or none.
func (s *Store) ReorderProjects(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.projects[id]; !ok {
			return core.ErrNotFound
		}
	}
	for i, id := range ids {
		p := s.projects[id]
		p.SortOrder = i
		s.projects[id] = p
	}
	return nil
}
