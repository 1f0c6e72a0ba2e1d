package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"monitoring-service/internal/models"
)

// Postgres is a pgx-backed Store. A partial unique index on the open-task
// fingerprint makes CreateTask's check-then-act atomic across instances.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and runs migrations.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	p := &Postgres{pool: pool}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		task_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		building_id TEXT NOT NULL,
		action_type TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL,
		sla_hours INT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	);

	CREATE UNIQUE INDEX IF NOT EXISTS tasks_open_fingerprint
		ON tasks (building_id, asset_id, lower(title))
		WHERE status = 'OPEN';

	CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		severity TEXT NOT NULL,
		building_id TEXT NOT NULL,
		related_task_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		read BOOLEAN NOT NULL DEFAULT FALSE
	);`
	_, err := p.pool.Exec(ctx, schema)
	return err
}

func (p *Postgres) CreateTask(ctx context.Context, in CreateTaskInput) (models.Task, bool, error) {
	now := time.Now().UTC()
	task := models.Task{
		TaskID:      NewID("TASK"),
		Title:       in.Title,
		Description: in.Description,
		AssetType:   in.AssetType,
		AssetID:     in.AssetID,
		BuildingID:  in.BuildingID,
		ActionType:  in.ActionType,
		Priority:    in.Priority,
		SLAHours:    in.SLAHours,
		Status:      models.TaskOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The partial unique index turns concurrent duplicate creates into a
	// no-op insert; the loser reads back the winner's row.
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO tasks (task_id, title, description, asset_type, asset_id, building_id,
		                   action_type, priority, sla_hours, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (building_id, asset_id, lower(title)) WHERE status = 'OPEN' DO NOTHING`,
		task.TaskID, task.Title, task.Description, task.AssetType, task.AssetID, task.BuildingID,
		string(task.ActionType), string(task.Priority), task.SLAHours, string(task.Status),
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return models.Task{}, false, fmt.Errorf("failed to insert task: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return task, true, nil
	}

	row := p.pool.QueryRow(ctx, taskSelect+`
		WHERE status = 'OPEN' AND lower(title) = lower($1)
		  AND asset_id = $2 AND building_id = $3
		LIMIT 1`,
		in.Title, in.AssetID, in.BuildingID)
	existing, err := scanPGTask(row)
	if err != nil {
		return models.Task{}, false, fmt.Errorf("failed to read existing open task: %w", err)
	}
	return existing, false, nil
}

const taskSelect = `
	SELECT task_id, title, description, asset_type, asset_id, building_id,
	       action_type, priority, sla_hours, status, created_at, updated_at, notes
	FROM tasks`

func (p *Postgres) GetTask(ctx context.Context, taskID string) (models.Task, error) {
	row := p.pool.QueryRow(ctx, taskSelect+` WHERE task_id = $1`, taskID)
	task, err := scanPGTask(row)
	if err == pgx.ErrNoRows {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}
	return task, nil
}

func (p *Postgres) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	query := taskSelect + ` WHERE 1=1`
	args := []interface{}{}
	if f.BuildingID != "" {
		args = append(args, f.BuildingID)
		query += fmt.Sprintf(" AND building_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanPGTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (p *Postgres) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus, notes string) (models.Task, error) {
	current, err := p.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if err := checkTransition(current.Status, status); err != nil {
		return models.Task{}, err
	}

	now := time.Now().UTC()
	if notes == "" {
		notes = current.Notes
	}
	tag, err := p.pool.Exec(ctx, `
		UPDATE tasks SET status = $1, notes = $2, updated_at = $3
		WHERE task_id = $4 AND status = $5`,
		string(status), notes, now, taskID, string(current.Status))
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}
	if tag.RowsAffected() == 0 {
		// Lost a race with a concurrent transition.
		return models.Task{}, fmt.Errorf("%w: task %s changed concurrently", ErrInvalidTransition, taskID)
	}
	current.Status = status
	current.Notes = notes
	current.UpdatedAt = now
	return current, nil
}

func (p *Postgres) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO notifications (id, type, title, message, severity, building_id, related_task_id, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.Type, n.Title, n.Message, n.Severity, n.BuildingID, n.RelatedTaskID, n.CreatedAt, n.Read)
	if err != nil {
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (p *Postgres) ListNotifications(ctx context.Context, f NotificationFilter) ([]models.Notification, error) {
	query := `
		SELECT id, type, title, message, severity, building_id, related_task_id, created_at, read
		FROM notifications WHERE 1=1`
	args := []interface{}{}
	if f.BuildingID != "" {
		args = append(args, f.BuildingID)
		query += fmt.Sprintf(" AND building_id = $%d", len(args))
	}
	if f.UnreadOnly {
		query += " AND read = FALSE"
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.Severity,
			&n.BuildingID, &n.RelatedTaskID, &n.CreatedAt, &n.Read); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (p *Postgres) MarkNotificationRead(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func scanPGTask(row pgx.Row) (models.Task, error) {
	var t models.Task
	var actionType, priority, status string
	err := row.Scan(&t.TaskID, &t.Title, &t.Description, &t.AssetType, &t.AssetID,
		&t.BuildingID, &actionType, &priority, &t.SLAHours, &status,
		&t.CreatedAt, &t.UpdatedAt, &t.Notes)
	if err != nil {
		return models.Task{}, err
	}
	t.ActionType = models.ActionType(actionType)
	t.Priority = models.Priority(priority)
	t.Status = models.TaskStatus(status)
	return t, nil
}
