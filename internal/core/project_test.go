package core

import (
	"errors"
	"testing"
)

func TestProjectStatusProgress(t *testing.T) {
	cases := map[ProjectStatus]int{
		ProjectWaiting:    0,
		ProjectInProgress: 50,
		ProjectDone:       100,
		"unknown":         0,
	}
	for st, want := range cases {
		if got := st.Progress(); got != want {
			t.Errorf("%q progress = %d, want %d", st, got, want)
		}
	}
}

func TestParseProjectStatus(t *testing.T) {
	if st, err := ParseProjectStatus(""); err != nil || st != ProjectWaiting {
		t.Fatalf("empty: %q %v", st, err)
	}
	if st, err := ParseProjectStatus(" 完了 "); err != nil || st != ProjectDone {
		t.Fatalf("done: %q %v", st, err)
	}
	if _, err := ParseProjectStatus("done"); !errors.Is(err, ErrInvalidProjectStatus) {
		t.Fatalf("expected ErrInvalidProjectStatus, got %v", err)
	}
}

func TestProjectValidate(t *testing.T) {
	p := Project{Name: "Site", Status: ProjectWaiting}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	p.Name = ""
	if !errors.Is(p.Validate(), ErrEmptyName) {
		t.Fatal("expected ErrEmptyName")
	}
	p.Name, p.Status = "Site", "?"
	if !errors.Is(p.Validate(), ErrInvalidProjectStatus) {
		t.Fatal("expected ErrInvalidProjectStatus")
	}
	p.Status, p.UnitPrice = ProjectDone, Money{Cents: -1}
	if !errors.Is(p.Validate(), ErrInvalidAmount) {
		t.Fatal("expected ErrInvalidAmount")
	}
}

func ids(ps []Project) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMoveProject(t *testing.T) {
	board := []Project{
		{ID: 1, SortOrder: 0},
		{ID: 2, SortOrder: 5},
		{ID: 3, SortOrder: 5},
	}
	tests := []struct {
		name string
		id   int64
		dir  MoveDirection
		want []int64
	}{
		{"down from top", 1, MoveDown, []int64{2, 1, 3}},
		{"up from bottom", 3, MoveUp, []int64{1, 3, 2}},
		{"up at top is a no-op", 1, MoveUp, []int64{1, 2, 3}},
		{"down at bottom is a no-op", 3, MoveDown, []int64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveProject(board, tt.id, tt.dir)
			if err != nil {
				t.Fatalf("MoveProject: %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Fatalf("order = %v, want %v", ids(got), tt.want)
			}
			for i, p := range got {
				if p.SortOrder != i {
					t.Fatalf("sort order not renumbered: %+v", got)
				}
			}
		})
	}
	if board[1].SortOrder != 5 {
		t.Fatal("input slice was modified")
	}
	if _, err := MoveProject(board, 9, MoveUp); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummarizeProjects(t *testing.T) {
	if s := SummarizeProjects(nil); s != (ProjectSummary{}) {
		t.Fatalf("empty summary = %+v", s)
	}
	s := SummarizeProjects([]Project{
		{Status: ProjectWaiting, UnitPrice: Money{Cents: 100}},
		{Status: ProjectInProgress, UnitPrice: Money{Cents: 200}},
		{Status: ProjectDone, UnitPrice: Money{Cents: 400}},
	})
	want := ProjectSummary{Count: 3, Done: 1, AverageProgress: 50, OpenValue: 300}
	if s != want {
		t.Fatalf("summary = %+v, want %+v", s, want)
	}
}
