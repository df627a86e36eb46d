package http

import (
	"context"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

// This file gathers the interfaces HTTP controllers depend on. Production
// wiring passes *auth.Service, *auth.Issuer and the gorm repositories.

// AccountService covers registration, login and account management.
type AccountService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*entities.Account, error)
	Authenticate(ctx context.Context, email, password string) (auth.Token, *entities.Account, error)
	Account(ctx context.Context, email string) (*entities.Account, error)
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, email string) (*entities.Account, error)
}

// TokenService verifies tokens at the gate and revokes them on logout.
type TokenService interface {
	auth.TokenVerifier
	Revoke(ctx context.Context, claims *auth.Claims) error
	CanRevoke() bool
}

// ProfileStore reads and updates both kinds of profile.
type ProfileStore interface {
	SearchArchaeologists(ctx context.Context, q database.ListQuery) ([]entities.ArchaeologistProfile, int64, error)
	SearchCompanies(ctx context.Context, q database.ListQuery) ([]entities.CompanyProfile, int64, error)
	GetArchaeologist(ctx context.Context, accountPublicID string) (*entities.ArchaeologistProfile, error)
	GetCompany(ctx context.Context, accountPublicID string) (*entities.CompanyProfile, error)
	UpdateArchaeologist(ctx context.Context, accountID uint, fields map[string]any) error
	UpdateCompany(ctx context.Context, accountID uint, fields map[string]any) error
}

// ExcavationStore persists excavation listings.
type ExcavationStore interface {
	Create(ctx context.Context, excavation *entities.Excavation) error
	GetByPublicID(ctx context.Context, publicID string) (*entities.Excavation, error)
	Search(ctx context.Context, q database.ListQuery) ([]entities.Excavation, int64, error)
	Update(ctx context.Context, excavation *entities.Excavation, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}
