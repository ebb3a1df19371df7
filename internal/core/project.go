package core

import (
	"errors"
	"sort"
	"strings"
)

// Project statuses as shown on the progress board.
const (
	ProjectWaiting    ProjectStatus = "制作待ち"
	ProjectInProgress ProjectStatus = "進行中"
	ProjectDone       ProjectStatus = "完了"
)

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

type (
	ProjectStatus string

	MoveDirection string

	// Project is one row of the progress board. SortOrder is its position;
	// the board lists projects by SortOrder and then by ID.
	Project struct {
		ID        int64
		Name      string
		Client    string
		Status    ProjectStatus
		DueDate   Date // zero when no deadline is set
		UnitPrice Money
		SortOrder int
	}

	ProjectSummary struct {
		Count           int   `json:"count"`
		Done            int   `json:"done"`
		AverageProgress int   `json:"averageProgress"`
		OpenValue       int64 `json:"openValue"`
	}
)

var (
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrInvalidDirection     = errors.New("invalid direction")
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectWaiting, ProjectInProgress, ProjectDone:
		return true
	}
	return false
}

// Progress maps the status to a percentage.
func (s ProjectStatus) Progress() int {
	switch s {
	case ProjectInProgress:
		return 50
	case ProjectDone:
		return 100
	}
	return 0
}

// ParseProjectStatus accepts the board labels; an empty value is
// ProjectWaiting.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ProjectWaiting, nil
	}
	if st := ProjectStatus(s); st.Valid() {
		return st, nil
	}
	return "", ErrInvalidProjectStatus
}

func ParseMoveDirection(s string) (MoveDirection, error) {
	switch d := MoveDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case MoveUp, MoveDown:
		return d, nil
	}
	return "", ErrInvalidDirection
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !p.Status.Valid() {
		return ErrInvalidProjectStatus
	}
	return p.UnitPrice.Validate()
}

// SortProjects orders ps in place by SortOrder, then ID.
func SortProjects(ps []Project) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].SortOrder != ps[j].SortOrder {
			return ps[i].SortOrder < ps[j].SortOrder
		}
		return ps[i].ID < ps[j].ID
	})
}

// MoveProject swaps project id with its neighbour in dir and renumbers
// SortOrder from zero. Moving the first project up or the last one down
// leaves the order as it is. The input slice is not modified.
func MoveProject(ps []Project, id int64, dir MoveDirection) ([]Project, error) {
	out := append([]Project(nil), ps...)
	SortProjects(out)
	idx := -1
	for i, p := range out {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	swap := idx + 1
	if dir == MoveUp {
		swap = idx - 1
	}
	if swap >= 0 && swap < len(out) {
		out[idx], out[swap] = out[swap], out[idx]
	}
	for i := range out {
		out[i].SortOrder = i
	}
	return out, nil
}

// SummarizeProjects counts finished projects, averages progress and sums
// the unit price of everything not yet done.
func SummarizeProjects(ps []Project) ProjectSummary {
	s := ProjectSummary{Count: len(ps)}
	if len(ps) == 0 {
		return s
	}
	total := 0
	for _, p := range ps {
		total += p.Status.Progress()
		if p.Status == ProjectDone {
			s.Done++
		} else {
			s.OpenValue += p.UnitPrice.Cents
		}
	}
	s.AverageProgress = total / len(ps)
	return s
}
