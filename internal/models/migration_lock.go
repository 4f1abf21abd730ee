package models

import "time"

// MigrationLock is a lease on a named one-shot job. A row exists only while
// some process holds the lease; expired rows may be taken over.
type MigrationLock struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	Owner     string    `gorm:"size:64;not null" json:"owner"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
