package db

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	queryTimeout = 15 * time.Second

	uniqueViolation = "23505"

	userColumns = `id, name, email, password, role, profile_image_url, created_at, updated_at`
	taskColumns = `id, title, description, priority, status, due_date, assigned_to, created_by,
		todo_checklist, attachments, progress, created_at, updated_at`
)

type Storage struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger

	qCreateUser     string
	qGetUserByID    string
	qGetUserByEmail string
	qUpdateUser     string
	qCreateTask     string
	qGetTaskByID    string
	qUpdateTask     string
	qDeleteTask     string
}

func NewStorage(connStr string, logger *logrus.Logger) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		logger.WithField("event", "DB_CONNECTION_FAILED").Errorf("cannot create connection pool: %v", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.WithField("event", "DB_PING_FAILED").Errorf("cannot reach database: %v", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	s := &Storage{
		pool:            pool,
		logger:          logger,
		qCreateUser:     `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		qGetUserByID:    `SELECT ` + userColumns + ` FROM users WHERE id = $1`,
		qGetUserByEmail: `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`,
		qUpdateUser:     `UPDATE users SET name = $1, email = $2, password = $3, role = $4, profile_image_url = $5, updated_at = $6 WHERE id = $7`,
		qCreateTask:     `INSERT INTO tasks (` + taskColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		qGetTaskByID:    `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`,
		qUpdateTask: `UPDATE tasks SET title = $1, description = $2, priority = $3, status = $4, due_date = $5,
			assigned_to = $6, todo_checklist = $7, attachments = $8, progress = $9, updated_at = $10 WHERE id = $11`,
		qDeleteTask: `DELETE FROM tasks WHERE id = $1`,
	}
	logger.WithField("event", "DB_CONNECTED").Info("connected to PostgreSQL")
	return s, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

func (s *Storage) fail(event string, err error) error {
	s.logger.WithField("event", event).Errorf("database error: %v", err)
	return fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx, s.qCreateUser,
		user.ID, user.Name, user.Email, user.Password, string(user.Role), user.ProfileImageURL, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrUserAlreadyExists
		}
		return s.fail("DB_CREATE_USER_FAILED", err)
	}
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.scanUser(s.pool.QueryRow(ctx, s.qGetUserByID, id))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.scanUser(s.pool.QueryRow(ctx, s.qGetUserByEmail, email))
}

func (s *Storage) GetUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, string(role))
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.fail("DB_LIST_USERS_FAILED", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("DB_LIST_USERS_FAILED", err)
	}
	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, s.qUpdateUser,
		user.Name, user.Email, user.Password, string(user.Role), user.ProfileImageURL, user.UpdatedAt, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrUserAlreadyExists
		}
		return s.fail("DB_UPDATE_USER_FAILED", err)
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (s *Storage) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var role string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &role,
		&user.ProfileImageURL, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		return nil, s.fail("DB_SCAN_USER_FAILED", err)
	}
	user.Role = models.Role(role)
	return user, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	checklist, err := json.Marshal(nonNilChecklist(task.TodoChecklist))
	if err != nil {
		return fmt.Errorf("encode checklist: %w", err)
	}
	_, err = s.pool.Exec(ctx, s.qCreateTask,
		task.ID, task.Title, task.Description, string(task.Priority), string(task.Status), task.DueDate,
		nonNilStrings(task.AssignedTo), task.CreatedBy, checklist, nonNilStrings(task.Attachments),
		task.Progress, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrConflict
		}
		return s.fail("DB_CREATE_TASK_FAILED", err)
	}
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.scanTask(s.pool.QueryRow(ctx, s.qGetTaskByID, id))
}

func (s *Storage) GetTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := taskWhere(filter)
	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY created_at DESC, id ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.fail("DB_LIST_TASKS_FAILED", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("DB_LIST_TASKS_FAILED", err)
	}
	return tasks, nil
}

func (s *Storage) CountTasks(ctx context.Context, filter models.TaskFilter) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := taskWhere(filter)
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM tasks`+where, args...).Scan(&n); err != nil {
		return 0, s.fail("DB_COUNT_TASKS_FAILED", err)
	}
	return n, nil
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	checklist, err := json.Marshal(nonNilChecklist(task.TodoChecklist))
	if err != nil {
		return fmt.Errorf("encode checklist: %w", err)
	}
	ct, err := s.pool.Exec(ctx, s.qUpdateTask,
		task.Title, task.Description, string(task.Priority), string(task.Status), task.DueDate,
		nonNilStrings(task.AssignedTo), checklist, nonNilStrings(task.Attachments), task.Progress,
		task.UpdatedAt, task.ID)
	if err != nil {
		return s.fail("DB_UPDATE_TASK_FAILED", err)
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrTaskNotFound
	}
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, s.qDeleteTask, id)
	if err != nil {
		return s.fail("DB_DELETE_TASK_FAILED", err)
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrTaskNotFound
	}
	return nil
}

func (s *Storage) scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	var (
		priority, status string
		checklist        []byte
	)
	err := row.Scan(&task.ID, &task.Title, &task.Description, &priority, &status, &task.DueDate,
		&task.AssignedTo, &task.CreatedBy, &checklist, &task.Attachments, &task.Progress,
		&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrTaskNotFound
		}
		return nil, s.fail("DB_SCAN_TASK_FAILED", err)
	}
	if err := json.Unmarshal(checklist, &task.TodoChecklist); err != nil {
		return nil, s.fail("DB_DECODE_CHECKLIST_FAILED", err)
	}
	task.Priority = models.Priority(priority)
	task.Status = models.Status(status)
	return task, nil
}

// taskWhere renders the filter as a WHERE clause with positional arguments.
func taskWhere(filter models.TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.AssignedTo != "" {
		add(`$%d = ANY(assigned_to)`, filter.AssignedTo)
	}
	if filter.Status != "" {
		add(`status = $%d`, string(filter.Status))
	}
	if filter.NotStatus != "" {
		add(`status <> $%d`, string(filter.NotStatus))
	}
	if filter.Priority != "" {
		add(`priority = $%d`, string(filter.Priority))
	}
	if !filter.DueBefore.IsZero() {
		add(`due_date < $%d`, filter.DueBefore)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nonNilChecklist(v []models.TodoItem) []models.TodoItem {
	if v == nil {
		return []models.TodoItem{}
	}
	return v
}
