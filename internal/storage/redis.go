package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"

	apperrors "github.com/jacqinthebox/todolist/internal/errors"
	model "github.com/jacqinthebox/todolist/internal/models"
)

const (
	redisTaskKeyPrefix = "todo:task:"
	redisIndexKey      = "todo:index"
)

// RedisStore persists each task as a hash and keeps a sorted set scored by
// creation time so List returns a stable insertion order. Concurrent
// updates to the same id are last-write-wins.
type RedisStore struct {
	client rueidis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(addr string) (*RedisStore, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: redis client: %v", apperrors.ErrBackendUnavailable, err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wires an existing client, used by tests.
func NewRedisStoreWithClient(client rueidis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, title string) (*model.Task, error) {
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

	resps := s.client.DoMulti(ctx,
		s.hsetCmd(task),
		s.client.B().Zadd().Key(redisIndexKey).ScoreMember().
			ScoreMember(float64(now.UnixNano()), task.ID).Build(),
	)
	for _, resp := range resps {
		if err := resp.Error(); err != nil {
			return nil, fmt.Errorf("%w: create: %v", apperrors.ErrBackendUnavailable, err)
		}
	}

	return task, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Task, error) {
	fields, err := s.client.Do(ctx,
		s.client.B().Hgetall().Key(redisTaskKeyPrefix+id).Build(),
	).AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("%w: get: %v", apperrors.ErrBackendUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrTaskNotFound, id)
	}
	return taskFromHash(id, fields)
}

func (s *RedisStore) List(ctx context.Context) ([]model.Task, error) {
	ids, err := s.client.Do(ctx,
		s.client.B().Zrevrange().Key(redisIndexKey).Start(0).Stop(-1).Build(),
	).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", apperrors.ErrBackendUnavailable, err)
	}

	cmds := make(rueidis.Commands, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, s.client.B().Hgetall().Key(redisTaskKeyPrefix+id).Build())
	}

	var tasks []model.Task
	for i, resp := range s.client.DoMulti(ctx, cmds...) {
		fields, err := resp.AsStrMap()
		if err != nil {
			return nil, fmt.Errorf("%w: list: %v", apperrors.ErrBackendUnavailable, err)
		}
		if len(fields) == 0 {
			// index entry for a concurrently deleted task
			continue
		}
		task, err := taskFromHash(ids[i], fields)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, upd TaskUpdate) (*model.Task, error) {
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

func (s *RedisStore) Toggle(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	return task, s.save(ctx, task)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	resps := s.client.DoMulti(ctx,
		s.client.B().Del().Key(redisTaskKeyPrefix+id).Build(),
		s.client.B().Zrem().Key(redisIndexKey).Member(id).Build(),
	)

	deleted, err := resps[0].AsInt64()
	if err != nil {
		return fmt.Errorf("%w: delete: %v", apperrors.ErrBackendUnavailable, err)
	}
	if err := resps[1].Error(); err != nil {
		return fmt.Errorf("%w: delete: %v", apperrors.ErrBackendUnavailable, err)
	}
	if deleted == 0 {
		return apperrors.Wrap(apperrors.ErrTaskNotFound, id)
	}
	return nil
}

func (s *RedisStore) save(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now().UTC()

	if err := s.client.Do(ctx, s.hsetCmd(task)).Error(); err != nil {
		return fmt.Errorf("%w: save: %v", apperrors.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *RedisStore) hsetCmd(task *model.Task) rueidis.Completed {
	return s.client.B().Hset().Key(redisTaskKeyPrefix + task.ID).
		FieldValue().
		FieldValue("title", task.Title).
		FieldValue("completed", boolField(task.Completed)).
		FieldValue("created_at", task.CreatedAt.Format(time.RFC3339Nano)).
		FieldValue("updated_at", task.UpdatedAt.Format(time.RFC3339Nano)).
		Build()
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func taskFromHash(id string, fields map[string]string) (*model.Task, error) {
	completed, err := strconv.ParseBool(fields["completed"])
	if err != nil {
		return nil, fmt.Errorf("task %s: bad completed %q: %w", id, fields["completed"], err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("task %s: bad created_at %q: %w", id, fields["created_at"], err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fields["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("task %s: bad updated_at %q: %w", id, fields["updated_at"], err)
	}

	return &model.Task{
		ID:        id,
		Title:     fields["title"],
		Completed: completed,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
