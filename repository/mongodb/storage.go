// Package mongodb stores users and tasks as MongoDB documents.
package mongodb

import (
	"context"
	stderrors "errors"
	"fmt"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	queryTimeout    = 15 * time.Second
	usersCollection = "users"
	tasksCollection = "tasks"
)

type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
	tasks  *mongo.Collection
	logger *logrus.Logger
}

func NewStorage(uri, dbName string, logger *logrus.Logger) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		logger.WithField("event", "DB_CONNECTION_FAILED").Errorf("cannot connect to MongoDB: %v", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.WithField("event", "DB_PING_FAILED").Errorf("MongoDB ping failed: %v", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	db := client.Database(dbName)
	s := &Storage{
		client: client,
		users:  db.Collection(usersCollection),
		tasks:  db.Collection(tasksCollection),
		logger: logger,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.WithFields(logrus.Fields{"event": "DB_CONNECTED", "database": dbName}).Info("connected to MongoDB")
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return s.fail("DB_INDEX_FAILED", err)
	}
	_, err = s.tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return s.fail("DB_INDEX_FAILED", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Storage) fail(event string, err error) error {
	s.logger.WithField("event", event).Errorf("MongoDB error: %v", err)
	return fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrUserAlreadyExists
		}
		return s.fail("DB_CREATE_USER_FAILED", err)
	}
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Storage) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user := &models.User{}
	if err := s.users.FindOne(ctx, filter).Decode(user); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.ErrUserNotFound
		}
		return nil, s.fail("DB_FIND_USER_FAILED", err)
	}
	return user, nil
}

func (s *Storage) GetUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, s.fail("DB_LIST_USERS_FAILED", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, s.fail("DB_LIST_USERS_FAILED", err)
	}
	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrUserAlreadyExists
		}
		return s.fail("DB_UPDATE_USER_FAILED", err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if _, err := s.tasks.InsertOne(ctx, normalize(*task)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrConflict
		}
		return s.fail("DB_CREATE_TASK_FAILED", err)
	}
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	task := &models.Task{}
	if err := s.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(task); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.ErrTaskNotFound
		}
		return nil, s.fail("DB_FIND_TASK_FAILED", err)
	}
	return task, nil
}

func (s *Storage) GetTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cursor, err := s.tasks.Find(ctx, taskQuery(filter), opts)
	if err != nil {
		return nil, s.fail("DB_LIST_TASKS_FAILED", err)
	}
	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, s.fail("DB_LIST_TASKS_FAILED", err)
	}
	return tasks, nil
}

func (s *Storage) CountTasks(ctx context.Context, filter models.TaskFilter) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := s.tasks.CountDocuments(ctx, taskQuery(filter))
	if err != nil {
		return 0, s.fail("DB_COUNT_TASKS_FAILED", err)
	}
	return int(n), nil
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.tasks.ReplaceOne(ctx, bson.M{"_id": task.ID}, normalize(*task))
	if err != nil {
		return s.fail("DB_UPDATE_TASK_FAILED", err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrTaskNotFound
	}
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return s.fail("DB_DELETE_TASK_FAILED", err)
	}
	if res.DeletedCount == 0 {
		return errors.ErrTaskNotFound
	}
	return nil
}

// taskQuery translates a filter into a MongoDB query document.
func taskQuery(filter models.TaskFilter) bson.M {
	q := bson.M{}
	if filter.AssignedTo != "" {
		q["assignedTo"] = filter.AssignedTo
	}

	status := bson.M{}
	if filter.Status != "" {
		status["$eq"] = filter.Status
	}
	if filter.NotStatus != "" {
		status["$ne"] = filter.NotStatus
	}
	if len(status) > 0 {
		q["status"] = status
	}

	if filter.Priority != "" {
		q["priority"] = filter.Priority
	}
	if !filter.DueBefore.IsZero() {
		q["dueDate"] = bson.M{"$lt": filter.DueBefore}
	}
	return q
}

// normalize replaces nil slices so documents never hold null arrays.
func normalize(t models.Task) models.Task {
	if t.AssignedTo == nil {
		t.AssignedTo = []string{}
	}
	if t.TodoChecklist == nil {
		t.TodoChecklist = []models.TodoItem{}
	}
	if t.Attachments == nil {
		t.Attachments = []string{}
	}
	return t
}
