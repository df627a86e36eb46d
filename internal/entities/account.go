package entities

import "time"

type AccountKind string

const (
	AccountKindArchaeologist AccountKind = "archaeologist"
	AccountKindCompany       AccountKind = "company"
)

// Valid reports whether k names a known account variant.
func (k AccountKind) Valid() bool {
	switch k {
	case AccountKindArchaeologist, AccountKindCompany:
		return true
	}
	return false
}

// Account holds login credentials for an archaeologist or a company.
// Email is unique at the storage layer; it is stored exactly as submitted.
type Account struct {
	ID               uint        `gorm:"primaryKey" json:"-"`
	PublicID         string      `gorm:"uniqueIndex;size:26;not null" json:"id"`
	Email            string      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash     string      `gorm:"size:255;not null" json:"-"`
	Kind             AccountKind `gorm:"index;size:20;not null" json:"kind"`
	FailedLoginCount int         `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time  `json:"-"`
	LastLoginAt      *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	Archaeologist *ArchaeologistProfile `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"archaeologist,omitempty"`
	Company       *CompanyProfile       `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
}

// IsLocked reports whether login is currently blocked for the account.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}
