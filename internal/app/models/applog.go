package models

import "time"

// LogFolder groups action-log entries for a user.
type LogFolder struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ActionLog is one append-only log entry for a user action. Entries are
// soft-deleted via DeletedAt and can be filed into folders.
type ActionLog struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"userId" db:"user_id"`
	FolderID  *int64     `json:"folderId,omitempty" db:"folder_id"`
	Action    string     `json:"action" db:"action" example:"student.approve"`
	Detail    string     `json:"detail" db:"detail"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}
