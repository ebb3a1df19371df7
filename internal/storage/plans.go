package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lexia/internal/core"
	"lexia/internal/sheets"
)

var (
	_ sheets.SubscriptionStore = (*SQLiteRepository)(nil)
	_ sheets.ProjectStore      = (*SQLiteRepository)(nil)
)

func (r *SQLiteRepository) CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	if err := s.Validate(); err != nil {
		return core.Subscription{}, err
	}
	row, err := r.queries.CreateSubscription(ctx, subscriptionParams(s))
	if err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	return toCoreSubscription(row), nil
}

func (r *SQLiteRepository) UpdateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	if err := s.Validate(); err != nil {
		return core.Subscription{}, err
	}
	row, err := r.queries.UpdateSubscription(ctx, UpdateSubscriptionParams{CreateSubscriptionParams: subscriptionParams(s), ID: s.ID})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subscription{}, core.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription %d: %w", s.ID, err)
	}
	return toCoreSubscription(row), nil
}

func (r *SQLiteRepository) DeleteSubscription(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteSubscription(ctx, id)
	if err != nil {
		return fmt.Errorf("delete subscription %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetSubscription(ctx context.Context, id int64) (core.Subscription, error) {
	row, err := r.queries.GetSubscription(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subscription{}, core.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, fmt.Errorf("get subscription %d: %w", id, err)
	}
	return toCoreSubscription(row), nil
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.queries.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	out := make([]core.Subscription, len(rows))
	for i, row := range rows {
		out[i] = toCoreSubscription(row)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkSubscriptionGenerated(ctx context.Context, id int64, on core.Date) error {
	n, err := r.queries.MarkSubscriptionGenerated(ctx, id, on.String())
	if err != nil {
		return fmt.Errorf("mark subscription %d generated: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]core.Project, error) {
	rows, err := r.queries.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]core.Project, len(rows))
	for i, row := range rows {
		out[i] = toCoreProject(row)
	}
	return out, nil
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id int64) (core.Project, error) {
	row, err := r.queries.GetProject(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Project{}, core.ErrNotFound
	}
	if err != nil {
		return core.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	return toCoreProject(row), nil
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, p core.Project) (core.Project, error) {
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	row, err := r.queries.CreateProject(ctx, projectParams(p))
	if err != nil {
		return core.Project{}, fmt.Errorf("create project: %w", err)
	}
	return toCoreProject(row), nil
}

func (r *SQLiteRepository) UpdateProject(ctx context.Context, p core.Project) (core.Project, error) {
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	row, err := r.queries.UpdateProject(ctx, UpdateProjectParams{CreateProjectParams: projectParams(p), ID: p.ID})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Project{}, core.ErrNotFound
	}
	if err != nil {
		return core.Project{}, fmt.Errorf("update project %d: %w", p.ID, err)
	}
	return toCoreProject(row), nil
}

func (r *SQLiteRepository) DeleteProject(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteProject(ctx, id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ReorderProjects writes every position in one transaction; an unknown id
// rolls back the whole reorder.
func (r *SQLiteRepository) ReorderProjects(ctx context.Context, ids []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	for i, id := range ids {
		n, err := q.SetProjectOrder(ctx, id, int64(i))
		if err != nil {
			return fmt.Errorf("reorder project %d: %w", id, err)
		}
		if n == 0 {
			return core.ErrNotFound
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

func subscriptionParams(s core.Subscription) CreateSubscriptionParams {
	p := CreateSubscriptionParams{
		Name:         s.Name,
		Category:     string(s.Category),
		AccountType:  s.AccountType,
		Amount:       s.Amount.Cents,
		Counterparty: s.Counterparty,
		ItemName:     s.ItemName,
		Note:         s.Note,
		Frequency:    string(s.Every),
		StartDate:    s.StartDate.String(),
	}
	if s.EndDate.Valid() {
		p.EndDate = s.EndDate.String()
	}
	if s.ItemID != nil && *s.ItemID != 0 {
		p.ItemID = sql.NullInt64{Int64: *s.ItemID, Valid: true}
	}
	return p
}

func toCoreSubscription(row Subscription) core.Subscription {
	s := core.Subscription{
		ID:            row.ID,
		Name:          row.Name,
		Category:      core.Category(row.Category),
		AccountType:   row.AccountType,
		Amount:        core.Money{Cents: row.Amount},
		Counterparty:  row.Counterparty,
		ItemName:      row.ItemName,
		Note:          row.Note,
		Every:         core.Frequency(row.Frequency),
		StartDate:     core.ParseDateLenient(row.StartDate),
		EndDate:       core.ParseDateLenient(row.EndDate),
		LastGenerated: core.ParseDateLenient(row.LastGenerated),
	}
	if row.ItemID.Valid {
		id := row.ItemID.Int64
		s.ItemID = &id
	}
	return s
}

func projectParams(p core.Project) CreateProjectParams {
	params := CreateProjectParams{
		ProjectName: p.Name,
		ClientName:  p.Client,
		Status:      string(p.Status),
		UnitPrice:   p.UnitPrice.Cents,
	}
	if p.DueDate.Valid() {
		params.DueDate = p.DueDate.String()
	}
	return params
}

func toCoreProject(row Project) core.Project {
	return core.Project{
		ID:        row.ID,
		Name:      row.ProjectName,
		Client:    row.ClientName,
		Status:    core.ProjectStatus(row.Status),
		DueDate:   core.ParseDateLenient(row.DueDate),
		UnitPrice: core.Money{Cents: row.UnitPrice},
		SortOrder: int(row.SortOrder),
	}
}
