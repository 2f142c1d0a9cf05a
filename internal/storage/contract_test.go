package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/jacqinthebox/todolist/internal/errors"
)

// testStoreContract runs the behavior every backend must share. The sqlite
// tests cover the same ground property by property; the redis and azure
// integration tests run this against a live store.
func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Create(ctx, "   "); !errors.Is(err, apperrors.ErrTitleRequired) {
		t.Errorf("blank title: expected ErrTitleRequired, got %v", err)
	}

	task, err := store.Create(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.ID == "" {
		t.Error("expected task ID to be set")
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("created_at %v != updated_at %v on create", task.CreatedAt, task.UpdatedAt)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != task.Title || got.Completed != task.Completed {
		t.Errorf("get returned %+v, want %+v", got, task)
	}

	time.Sleep(5 * time.Millisecond)
	toggled, err := store.Toggle(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !toggled.Completed {
		t.Error("toggle should flip completed to true")
	}
	if !toggled.UpdatedAt.After(task.UpdatedAt) {
		t.Error("toggle should advance updated_at")
	}

	title := "Buy oat milk"
	updated, err := store.Update(ctx, task.ID, TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != title {
		t.Errorf("title = %q, want %q", updated.Title, title)
	}
	if !updated.Completed {
		t.Error("partial update must not touch completed")
	}
	if !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", task.CreatedAt, updated.CreatedAt)
	}

	tasks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("get after delete: expected ErrTaskNotFound, got %v", err)
	}

	for name, err := range map[string]error{
		"get":    errOf(store.Get(ctx, "missing-id")),
		"toggle": errOf(store.Toggle(ctx, "missing-id")),
		"update": errOf(store.Update(ctx, "missing-id", TaskUpdate{})),
		"delete": store.Delete(ctx, "missing-id"),
	} {
		if !errors.Is(err, apperrors.ErrTaskNotFound) {
			t.Errorf("%s on missing id: expected ErrTaskNotFound, got %v", name, err)
		}
	}
}

func errOf[T any](_ T, err error) error { return err }
