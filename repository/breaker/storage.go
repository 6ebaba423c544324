// Package breaker guards a store with a circuit breaker so a failing backend
// is reported quickly instead of stalling every request.
package breaker

import (
	"context"
	stderrors "errors"
	"fmt"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

type Store interface {
	Ping(ctx context.Context) error
	Close() error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context, role models.Role) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	GetTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	CountTasks(ctx context.Context, filter models.TaskFilter) (int, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type Options struct {
	Name                string
	MaxRequests         uint32
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

var DefaultOptions = Options{
	Name:                "store-cb",
	MaxRequests:         1,
	Timeout:             5 * time.Second,
	ConsecutiveFailures: 3,
}

type Storage struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

func New(next Store, opts Options, logger *logrus.Logger) *Storage {
	if opts.Name == "" {
		opts.Name = DefaultOptions.Name
	}
	if opts.ConsecutiveFailures == 0 {
		opts.ConsecutiveFailures = DefaultOptions.ConsecutiveFailures
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: opts.MaxRequests,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"event": "CIRCUIT_BREAKER_STATE_CHANGE",
				"from":  from.String(),
				"to":    to.String(),
			}).Warnf("circuit breaker %q changed state", name)
		},
		IsSuccessful: isSuccessful,
	})
	return &Storage{next: next, cb: cb}
}

// isSuccessful counts only backend failures against the breaker. Lookups
// that miss or conflict are ordinary answers.
func isSuccessful(err error) bool {
	return err == nil || !stderrors.Is(err, errors.ErrStoreFailure)
}

func (s *Storage) State() gobreaker.State {
	return s.cb.State()
}

func call[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}
	v, _ := res.(T)
	return v, err
}

func exec(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := call(cb, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (s *Storage) Ping(ctx context.Context) error {
	return exec(s.cb, func() error { return s.next.Ping(ctx) })
}

func (s *Storage) Close() error {
	return s.next.Close()
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	return exec(s.cb, func() error { return s.next.CreateUser(ctx, user) })
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return call(s.cb, func() (*models.User, error) { return s.next.GetUserByID(ctx, id) })
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return call(s.cb, func() (*models.User, error) { return s.next.GetUserByEmail(ctx, email) })
}

func (s *Storage) GetUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	return call(s.cb, func() ([]models.User, error) { return s.next.GetUsers(ctx, role) })
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	return exec(s.cb, func() error { return s.next.UpdateUser(ctx, user) })
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	return exec(s.cb, func() error { return s.next.CreateTask(ctx, task) })
}

func (s *Storage) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	return call(s.cb, func() (*models.Task, error) { return s.next.GetTaskByID(ctx, id) })
}

func (s *Storage) GetTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return call(s.cb, func() ([]models.Task, error) { return s.next.GetTasks(ctx, filter) })
}

func (s *Storage) CountTasks(ctx context.Context, filter models.TaskFilter) (int, error) {
	return call(s.cb, func() (int, error) { return s.next.CountTasks(ctx, filter) })
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	return exec(s.cb, func() error { return s.next.UpdateTask(ctx, task) })
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	return exec(s.cb, func() error { return s.next.DeleteTask(ctx, id) })
}
