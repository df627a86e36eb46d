package entities

import "time"

// Excavation is a dig listed by an account.
type Excavation struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	PublicID    string    `gorm:"uniqueIndex;size:26;not null" json:"id"`
	OwnerID     uint      `gorm:"index;not null" json:"-"`
	Name        string    `gorm:"index;size:256;not null" json:"name"`
	Address1    string    `gorm:"size:256" json:"address1"`
	Address2    string    `gorm:"size:256" json:"address2,omitempty"`
	Address3    string    `gorm:"size:256" json:"address3,omitempty"`
	Postcode    string    `gorm:"size:16" json:"postcode"`
	Duration    string    `gorm:"size:128" json:"duration"`
	URL         string    `gorm:"size:2048" json:"url"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Thumbnail   string    `gorm:"size:128" json:"thumbnail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
