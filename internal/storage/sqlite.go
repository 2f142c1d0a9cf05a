package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/jacqinthebox/todolist/internal/errors"
	model "github.com/jacqinthebox/todolist/internal/models"
)

// SQLiteStore persists tasks as rows of a single table in an embedded
// sqlite database file. Concurrency control is left to sqlite's own
// locking; no extra mutual exclusion is layered on top.
type SQLiteStore struct {
	db *gorm.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database file at path and ensures
// the schema exists. Migration is idempotent, safe on every startup.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrBackendUnavailable, path, err)
	}

	if err := db.AutoMigrate(&model.Task{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", apperrors.ErrBackendUnavailable, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, title string) (*model.Task, error) {
	if err := model.ValidateTitle(title); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("%w: insert: %v", apperrors.ErrBackendUnavailable, err)
	}

	return task, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("%w: select: %v", apperrors.ErrBackendUnavailable, err)
	}
	return &task, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("%w: select: %v", apperrors.ErrBackendUnavailable, err)
	}
	return tasks, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, upd TaskUpdate) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if err := model.ValidateTitle(*upd.Title); err != nil {
			return nil, err
		}
		task.Title = *upd.Title
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}

	return task, s.save(ctx, task)
}

func (s *SQLiteStore) Toggle(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	return task, s.save(ctx, task)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("%w: delete: %v", apperrors.ErrBackendUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.Wrap(apperrors.ErrTaskNotFound, id)
	}
	return nil
}

// save writes title, completed and a fresh updated_at for a task already
// known to exist. created_at is never touched after creation.
func (s *SQLiteStore) save(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res := s.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":      task.Title,
			"completed":  task.Completed,
			"updated_at": task.UpdatedAt,
		})

	if res.Error != nil {
		return fmt.Errorf("%w: update: %v", apperrors.ErrBackendUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.Wrap(apperrors.ErrTaskNotFound, task.ID)
	}
	return nil
}
