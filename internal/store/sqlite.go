package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"monitoring-service/internal/models"
)

// SQLite is a file-backed Store for single-node deployments. A single
// connection plus a process-level mutex serializes the dedup check-then-act.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and runs migrations.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
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
		sla_hours INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_building ON tasks(building_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		severity TEXT NOT NULL,
		building_id TEXT NOT NULL,
		related_task_id TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		read INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) CreateTask(ctx context.Context, in CreateTaskInput) (models.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT task_id, title, description, asset_type, asset_id, building_id,
		       action_type, priority, sla_hours, status, created_at, updated_at, notes
		FROM tasks
		WHERE status = 'OPEN' AND title = ? COLLATE NOCASE
		  AND asset_id = ? AND building_id = ?
		LIMIT 1`,
		in.Title, in.AssetID, in.BuildingID)
	existing, err := scanSQLiteTask(row)
	if err == nil {
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return models.Task{}, false, fmt.Errorf("lookup open task: %w", err)
	}

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
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (task_id, title, description, asset_type, asset_id, building_id,
		                   action_type, priority, sla_hours, status, created_at, updated_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '')`,
		task.TaskID, task.Title, task.Description, task.AssetType, task.AssetID, task.BuildingID,
		string(task.ActionType), string(task.Priority), task.SLAHours, string(task.Status),
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return models.Task{}, false, fmt.Errorf("insert task: %w", err)
	}
	return task, true, nil
}

func (s *SQLite) GetTask(ctx context.Context, taskID string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT task_id, title, description, asset_type, asset_id, building_id,
		       action_type, priority, sla_hours, status, created_at, updated_at, notes
		FROM tasks WHERE task_id = ?`, taskID)
	task, err := scanSQLiteTask(row)
	if err == sql.ErrNoRows {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %s: %w", taskID, err)
	}
	return task, nil
}

func (s *SQLite) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	query := `
		SELECT task_id, title, description, asset_type, asset_id, building_id,
		       action_type, priority, sla_hours, status, created_at, updated_at, notes
		FROM tasks WHERE 1=1`
	var args []interface{}
	if f.BuildingID != "" {
		query += " AND building_id = ?"
		args = append(args, f.BuildingID)
	}
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, string(f.Status))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *SQLite) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus, notes string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.GetTask(ctx, taskID)
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
	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, notes = ?, updated_at = ? WHERE task_id = ?`,
		string(status), notes, now, taskID)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", taskID, err)
	}
	current.Status = status
	current.Notes = notes
	current.UpdatedAt = now
	return current, nil
}

func (s *SQLite) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, type, title, message, severity, building_id, related_task_id, created_at, read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Type, n.Title, n.Message, n.Severity, n.BuildingID, n.RelatedTaskID, n.CreatedAt, boolToInt(n.Read))
	if err != nil {
		return models.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (s *SQLite) ListNotifications(ctx context.Context, f NotificationFilter) ([]models.Notification, error) {
	query := `
		SELECT id, type, title, message, severity, building_id, related_task_id, created_at, read
		FROM notifications WHERE 1=1`
	var args []interface{}
	if f.BuildingID != "" {
		query += " AND building_id = ?"
		args = append(args, f.BuildingID)
	}
	if f.UnreadOnly {
		query += " AND read = 0"
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var read int
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.Severity,
			&n.BuildingID, &n.RelatedTaskID, &n.CreatedAt, &read); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Read = read != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLite) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteTask(row rowScanner) (models.Task, error) {
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
