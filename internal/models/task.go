package model

import (
	"strings"
	"time"

	apperrors "github.com/jacqinthebox/todolist/internal/errors"
)

// Task is the uniform representation of a todo item, independent of which
// storage backend persists it. Timestamps marshal as RFC 3339.
type Task struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateTitle rejects blank and whitespace-only titles. Every backend
// calls this before persisting, so a title is never stored empty.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.ErrTitleRequired
	}
	return nil
}
