package models

import "time"

// Watcher-local tables. These are the only things the gateway persists itself;
// jobs/applications/resumes all live behind the core backend.

// WatcherState keeps the Gmail history bookmark between restarts.
type WatcherState struct {
	ID            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastHistoryID uint64
}

// ProcessedEmail is the dedup table: one row per Gmail message id we already handled.
type ProcessedEmail struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
}

type ApplicationEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ApplicationID string    `gorm:"index" json:"application_id"`
	EventType     string    `json:"event_type"`
	Details       string    `gorm:"type:text" json:"details"`
}
