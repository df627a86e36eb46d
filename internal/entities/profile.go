package entities

import "time"

// Profile schema versions. Version 1 companies send a single "address";
// version 2 splits it into address1..address3.
const (
	ProfileSchemaV1      = 1
	ProfileSchemaV2      = 2
	CurrentProfileSchema = ProfileSchemaV2
)

// ArchaeologistProfile belongs to one archaeologist account.
// AccountPublicID and AccountEmail are copied from the account and are
// filled only by joined reads.
type ArchaeologistProfile struct {
	ID                uint       `gorm:"primaryKey" json:"-"`
	AccountID         uint       `gorm:"uniqueIndex;not null" json:"-"`
	AccountPublicID   string     `gorm:"->;-:migration" json:"id"`
	AccountEmail      string     `gorm:"->;-:migration" json:"email"`
	SchemaVersion     int        `gorm:"default:2" json:"schema_version"`
	FirstName         string     `gorm:"index;size:128" json:"first_name"`
	LastName          string     `gorm:"index;size:128" json:"last_name"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Address           string     `gorm:"size:512" json:"address"`
	City              string     `gorm:"index;size:128" json:"city"`
	Postcode          string     `gorm:"size:16" json:"postcode"`
	HomePhoneNumber   string     `gorm:"size:32" json:"home_phone_number"`
	MobilePhoneNumber string     `gorm:"size:32" json:"mobile_phone_number"`
	Experience        string     `gorm:"size:256" json:"experience"`
	Specialism        string     `gorm:"index;size:256" json:"specialism"`
	CSCSCard          string     `gorm:"column:cscs_card;size:64" json:"cscs_card"`
	Description       string     `gorm:"type:text" json:"description"`
	Thumbnail         string     `gorm:"size:128" json:"thumbnail,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CompanyProfile belongs to one company account. AccountPublicID and
// AccountEmail are filled only by joined reads.
type CompanyProfile struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	AccountID       uint      `gorm:"uniqueIndex;not null" json:"-"`
	AccountPublicID string    `gorm:"->;-:migration" json:"id"`
	AccountEmail    string    `gorm:"->;-:migration" json:"email"`
	SchemaVersion   int       `gorm:"default:2" json:"schema_version"`
	Name            string    `gorm:"index;size:256" json:"name"`
	Address1        string    `gorm:"size:256" json:"address1"`
	Address2        string    `gorm:"size:256" json:"address2,omitempty"`
	Address3        string    `gorm:"size:256" json:"address3,omitempty"`
	City            string    `gorm:"index;size:128" json:"city"`
	Postcode        string    `gorm:"size:16" json:"postcode"`
	PhoneNumber     string    `gorm:"size:32" json:"phone_number"`
	URL             string    `gorm:"size:2048" json:"url"`
	Description     string    `gorm:"type:text" json:"description"`
	Thumbnail       string    `gorm:"size:128" json:"thumbnail,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
