package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/jacqinthebox/todolist/internal/errors"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "todo.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	return store
}

func TestSQLiteStore_Create(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, "Test Task")
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if task.ID == "" {
		t.Error("expected task ID to be set")
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("created_at %v should equal updated_at %v", task.CreatedAt, task.UpdatedAt)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if got.ID != task.ID || got.Title != "Test Task" || got.Completed {
		t.Errorf("get returned %+v, want created task", got)
	}
}

func TestSQLiteStore_CreateBlankTitle(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := store.Create(ctx, title); !errors.Is(err, apperrors.ErrTitleRequired) {
			t.Errorf("Create(%q): expected ErrTitleRequired, got %v", title, err)
		}
	}

	tasks, _ := store.List(ctx)
	if len(tasks) != 0 {
		t.Errorf("blank titles must never be persisted, found %d tasks", len(tasks))
	}
}

func TestSQLiteStore_Toggle(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, "Toggle me")
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	first, err := store.Toggle(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !first.Completed {
		t.Error("first toggle should set completed")
	}
	if !first.UpdatedAt.After(task.UpdatedAt) {
		t.Error("toggle should advance updated_at")
	}

	time.Sleep(5 * time.Millisecond)
	second, err := store.Toggle(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if second.Completed {
		t.Error("second toggle should restore original completed value")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("updated_at should strictly increase on each toggle")
	}
}

func TestSQLiteStore_UpdateTitleOnly(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, "Original Title")
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	title := "Updated Title"
	updated, err := store.Update(ctx, task.ID, TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Title != title {
		t.Errorf("title = %q, want %q", updated.Title, title)
	}
	if updated.Completed != task.Completed {
		t.Error("update without completed must not change it")
	}
	if !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", task.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) {
		t.Error("update should advance updated_at")
	}

	got, _ := store.Get(ctx, task.ID)
	if got.Title != title {
		t.Errorf("persisted title = %q, want %q", got.Title, title)
	}
}

func TestSQLiteStore_UpdateCompleted(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	task, _ := store.Create(ctx, "Task")

	completed := true
	updated, err := store.Update(ctx, task.ID, TaskUpdate{Completed: &completed})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Completed {
		t.Error("completed should be true")
	}
	if updated.Title != task.Title {
		t.Error("update without title must not change it")
	}
}

func TestSQLiteStore_UpdateBlankTitle(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	task, _ := store.Create(ctx, "Keep me")

	blank := "  "
	if _, err := store.Update(ctx, task.ID, TaskUpdate{Title: &blank}); !errors.Is(err, apperrors.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}

	got, _ := store.Get(ctx, task.ID)
	if got.Title != "Keep me" {
		t.Errorf("rejected update must not persist, title = %q", got.Title)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	task, _ := store.Create(ctx, "Delete me")

	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("get after delete: expected ErrTaskNotFound, got %v", err)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "nonexistent-id"); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("get: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := store.Update(ctx, "nonexistent-id", TaskUpdate{}); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("update: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := store.Toggle(ctx, "nonexistent-id"); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("toggle: expected ErrTaskNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "nonexistent-id"); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("delete: expected ErrTaskNotFound, got %v", err)
	}
}

func TestSQLiteStore_LifecycleScenario(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tasks, _ := store.List(ctx)
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" || tasks[0].Completed {
		t.Fatalf("expected exactly one incomplete 'Buy milk' task, got %+v", tasks)
	}

	if _, err := store.Toggle(ctx, task.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	tasks, _ = store.List(ctx)
	if !tasks[0].Completed {
		t.Error("list should show the task completed after toggle")
	}

	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	tasks, _ = store.List(ctx)
	if len(tasks) != 0 {
		t.Errorf("list should be empty after delete, got %d tasks", len(tasks))
	}
}

func TestSQLiteStore_TwoTasks(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	a, _ := store.Create(ctx, "A")
	b, _ := store.Create(ctx, "B")

	if a.ID == b.ID {
		t.Fatal("tasks must have distinct ids")
	}

	tasks, _ := store.List(ctx)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	tasks, _ = store.List(ctx)
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Errorf("expected only task B to remain, got %+v", tasks)
	}
}

func TestSQLiteStore_Contract(t *testing.T) {
	testStoreContract(t, setupSQLiteStore(t))
}
