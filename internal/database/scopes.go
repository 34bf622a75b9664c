package database

import (
	"strings"

	"gorm.io/gorm"
)

// OwnedBy restricts a task query to rows owned by userID. Every Task Store
// query and mutation goes through this scope.
func OwnedBy(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.user_id = ?", userID)
	}
}

// WithStatus filters tasks by status when status is non-empty.
func WithStatus(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("tasks.status = ?", status)
	}
}

// Search matches term case-insensitively as a literal substring of the title
// or the description.
func Search(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		return db.Where(
			"(LOWER(tasks.title) LIKE ? ESCAPE '!' OR LOWER(tasks.description) LIKE ? ESCAPE '!')",
			pattern, pattern,
		)
	}
}

// NewestFirst orders tasks by creation time, newest first.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("tasks.created_at DESC").Order("tasks.id DESC")
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
