package entities

import "time"

// Thumbnail records an uploaded image stored under a random filename.
type Thumbnail struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Filename    string    `gorm:"uniqueIndex;size:128;not null" json:"filename"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	OwnerID     uint      `gorm:"index" json:"-"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
