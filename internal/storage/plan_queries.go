package storage

import (
	"context"
	"database/sql"
)

type Subscription struct {
	ID            int64
	Name          string
	Category      string
	AccountType   string
	Amount        int64
	Counterparty  string
	ItemName      string
	ItemID        sql.NullInt64
	Note          string
	Frequency     string
	StartDate     string
	EndDate       string
	LastGenerated string
}

type Project struct {
	ID          int64
	ProjectName string
	ClientName  string
	Status      string
	DueDate     string
	UnitPrice   int64
	SortOrder   int64
}

const subscriptionColumns = `id, name, category, account_type, amount, counterparty, item_name, item_id, note, frequency, start_date, end_date, last_generated`

func scanSubscription(row interface{ Scan(...any) error }) (Subscription, error) {
	var i Subscription
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.AccountType,
		&i.Amount,
		&i.Counterparty,
		&i.ItemName,
		&i.ItemID,
		&i.Note,
		&i.Frequency,
		&i.StartDate,
		&i.EndDate,
		&i.LastGenerated,
	)
	return i, err
}

type CreateSubscriptionParams struct {
	Name         string
	Category     string
	AccountType  string
	Amount       int64
	Counterparty string
	ItemName     string
	ItemID       sql.NullInt64
	Note         string
	Frequency    string
	StartDate    string
	EndDate      string
}

const createSubscription = `-- name: CreateSubscription :one
INSERT INTO subscriptions (name, category, account_type, amount, counterparty, item_name, item_id, note, frequency, start_date, end_date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + subscriptionColumns

func (q *Queries) CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) (Subscription, error) {
	row := q.db.QueryRowContext(ctx, createSubscription,
		arg.Name,
		arg.Category,
		arg.AccountType,
		arg.Amount,
		arg.Counterparty,
		arg.ItemName,
		arg.ItemID,
		arg.Note,
		arg.Frequency,
		arg.StartDate,
		arg.EndDate,
	)
	return scanSubscription(row)
}

const updateSubscription = `-- name: UpdateSubscription :one
UPDATE subscriptions
SET name = ?, category = ?, account_type = ?, amount = ?, counterparty = ?,
    item_name = ?, item_id = ?, note = ?, frequency = ?, start_date = ?, end_date = ?
WHERE id = ?
RETURNING ` + subscriptionColumns

type UpdateSubscriptionParams struct {
	CreateSubscriptionParams
	ID int64
}

func (q *Queries) UpdateSubscription(ctx context.Context, arg UpdateSubscriptionParams) (Subscription, error) {
	row := q.db.QueryRowContext(ctx, updateSubscription,
		arg.Name,
		arg.Category,
		arg.AccountType,
		arg.Amount,
		arg.Counterparty,
		arg.ItemName,
		arg.ItemID,
		arg.Note,
		arg.Frequency,
		arg.StartDate,
		arg.EndDate,
		arg.ID,
	)
	return scanSubscription(row)
}

const deleteSubscription = `-- name: DeleteSubscription :execrows
DELETE FROM subscriptions WHERE id = ?`

func (q *Queries) DeleteSubscription(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSubscription, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getSubscription = `-- name: GetSubscription :one
SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`

func (q *Queries) GetSubscription(ctx context.Context, id int64) (Subscription, error) {
	return scanSubscription(q.db.QueryRowContext(ctx, getSubscription, id))
}

const listSubscriptions = `-- name: ListSubscriptions :many
SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY id`

func (q *Queries) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	rows, err := q.db.QueryContext(ctx, listSubscriptions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Subscription
	for rows.Next() {
		i, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markSubscriptionGenerated = `-- name: MarkSubscriptionGenerated :execrows
UPDATE subscriptions SET last_generated = ? WHERE id = ?`

func (q *Queries) MarkSubscriptionGenerated(ctx context.Context, id int64, on string) (int64, error) {
	result, err := q.db.ExecContext(ctx, markSubscriptionGenerated, on, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const projectColumns = `id, project_name, client_name, status, due_date, unit_price, sort_order`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var i Project
	err := row.Scan(
		&i.ID,
		&i.ProjectName,
		&i.ClientName,
		&i.Status,
		&i.DueDate,
		&i.UnitPrice,
		&i.SortOrder,
	)
	return i, err
}

const listProjects = `-- name: ListProjects :many
SELECT ` + projectColumns + ` FROM project_progress ORDER BY sort_order, id`

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, listProjects)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Project
	for rows.Next() {
		i, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getProject = `-- name: GetProject :one
SELECT ` + projectColumns + ` FROM project_progress WHERE id = ?`

func (q *Queries) GetProject(ctx context.Context, id int64) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProject, id))
}

type CreateProjectParams struct {
	ProjectName string
	ClientName  string
	Status      string
	DueDate     string
	UnitPrice   int64
}

// The new row takes the next free position at the end of the board.
const createProject = `-- name: CreateProject :one
INSERT INTO project_progress (project_name, client_name, status, due_date, unit_price, sort_order)
VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM project_progress))
RETURNING ` + projectColumns

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, createProject,
		arg.ProjectName,
		arg.ClientName,
		arg.Status,
		arg.DueDate,
		arg.UnitPrice,
	)
	return scanProject(row)
}

const updateProject = `-- name: UpdateProject :one
UPDATE project_progress
SET project_name = ?, client_name = ?, status = ?, due_date = ?, unit_price = ?
WHERE id = ?
RETURNING ` + projectColumns

type UpdateProjectParams struct {
	CreateProjectParams
	ID int64
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, updateProject,
		arg.ProjectName,
		arg.ClientName,
		arg.Status,
		arg.DueDate,
		arg.UnitPrice,
		arg.ID,
	)
	return scanProject(row)
}

const deleteProject = `-- name: DeleteProject :execrows
DELETE FROM project_progress WHERE id = ?`

func (q *Queries) DeleteProject(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteProject, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setProjectOrder = `-- name: SetProjectOrder :execrows
UPDATE project_progress SET sort_order = ? WHERE id = ?`

func (q *Queries) SetProjectOrder(ctx context.Context, id, sortOrder int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, setProjectOrder, sortOrder, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
