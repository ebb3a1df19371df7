package storage

import (
	"context"
	"errors"
	"testing"

	"lexia/internal/core"
)

func TestSubscriptionCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item := int64(4)
	in := core.Subscription{
		Name:        "Retainer",
		Category:    core.Income,
		AccountType: "売上高",
		Amount:      core.Money{Cents: 50000},
		ItemID:      &item,
		Every:       core.Monthly,
		StartDate:   core.NewDate(2024, 1, 31),
	}
	created, err := repo.CreateSubscription(ctx, in)
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if created.ID == 0 || created.EndDate.Valid() || created.LastGenerated.Valid() || *created.ItemID != 4 {
		t.Fatalf("unexpected subscription %+v", created)
	}

	on := core.NewDate(2024, 2, 29)
	if err := repo.MarkSubscriptionGenerated(ctx, created.ID, on); err != nil {
		t.Fatalf("MarkSubscriptionGenerated: %v", err)
	}
	created.EndDate = core.NewDate(2024, 12, 31)
	updated, err := repo.UpdateSubscription(ctx, created)
	if err != nil {
		t.Fatalf("UpdateSubscription: %v", err)
	}
	if updated.EndDate.String() != "2024-12-31" || updated.LastGenerated.String() != "2024-02-29" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	list, err := repo.ListSubscriptions(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListSubscriptions: %+v %v", list, err)
	}

	if err := repo.DeleteSubscription(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSubscription: %v", err)
	}
	if _, err := repo.GetSubscription(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.UpdateSubscription(ctx, created); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.MarkSubscriptionGenerated(ctx, created.ID, on); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectBoard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"A", "B", "C"} {
		p, err := repo.CreateProject(ctx, core.Project{Name: name, Client: "Acme", Status: core.ProjectWaiting, UnitPrice: core.Money{Cents: 1000}})
		if err != nil {
			t.Fatalf("CreateProject: %v", err)
		}
		ids = append(ids, p.ID)
	}
	first, _ := repo.GetProject(ctx, ids[0])
	last, _ := repo.GetProject(ctx, ids[2])
	if first.SortOrder != 0 || last.SortOrder != 2 {
		t.Fatalf("projects should append: %d, %d", first.SortOrder, last.SortOrder)
	}

	if err := repo.ReorderProjects(ctx, []int64{ids[1], ids[0], ids[2]}); err != nil {
		t.Fatalf("ReorderProjects: %v", err)
	}
	list, err := repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if list[0].Name != "B" || list[1].Name != "A" || list[2].Name != "C" {
		t.Fatalf("unexpected order %+v", list)
	}

	if err := repo.ReorderProjects(ctx, []int64{ids[2], 999}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, _ = repo.ListProjects(ctx)
	if list[0].Name != "B" {
		t.Fatal("failed reorder should roll back")
	}

	b := list[0]
	b.Status = core.ProjectInProgress
	b.DueDate = core.NewDate(2024, 9, 1)
	updated, err := repo.UpdateProject(ctx, b)
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.SortOrder != 0 || updated.Status.Progress() != 50 || updated.DueDate.String() != "2024-09-01" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if err := repo.DeleteProject(ctx, b.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if err := repo.DeleteProject(ctx, b.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
