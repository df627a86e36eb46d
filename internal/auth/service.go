package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/ids"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AccountStore is the credential store the service depends on.
type AccountStore interface {
	Create(ctx context.Context, account *entities.Account) error
	GetByEmail(ctx context.Context, email string) (*entities.Account, error)
	GetWithProfile(ctx context.Context, email string) (*entities.Account, error)
	RecordLoginFailure(ctx context.Context, id uint, maxAttempts int, lockUntil time.Time) (int, error)
	RecordLoginSuccess(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
}

// Service verifies credentials and manages accounts.
type Service struct {
	accounts AccountStore
	tokens   *Issuer
	config   config.Auth
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewService creates a new authentication service.
func NewService(accounts AccountStore, tokens *Issuer, cfg config.Auth) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		config:   cfg,
		now:      time.Now,
	}
}

// Tokens returns the issuer used for successful logins.
func (s *Service) Tokens() *Issuer {
	return s.tokens
}

// RegisterInput carries the fields of a new account. At most one profile
// may be set and it must match Kind.
type RegisterInput struct {
	Email         string
	Password      string
	Kind          entities.AccountKind
	Archaeologist *entities.ArchaeologistProfile
	Company       *entities.CompanyProfile
}

// Register hashes the password and inserts the account. A taken email is
// reported by the store's unique index as ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entities.Account, error) {
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if in.Kind == "" {
		in.Kind = entities.AccountKindArchaeologist
	}
	if !in.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	if (in.Kind == entities.AccountKindCompany && in.Archaeologist != nil) ||
		(in.Kind == entities.AccountKindArchaeologist && in.Company != nil) {
		return nil, ErrInvalidKind
	}

	hash, err := HashPassword(in.Password, s.config.BcryptCost, s.config.MinPasswordLength)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &entities.Account{
		PublicID:      ids.New(),
		Email:         in.Email,
		PasswordHash:  hash,
		Kind:          in.Kind,
		Archaeologist: in.Archaeologist,
		Company:       in.Company,
	}
	if account.Archaeologist != nil && account.Archaeologist.SchemaVersion == 0 {
		account.Archaeologist.SchemaVersion = entities.CurrentProfileSchema
	}
	if account.Company != nil && account.Company.SchemaVersion == 0 {
		account.Company.SchemaVersion = entities.CurrentProfileSchema
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, storeError("create account", err)
	}
	return account, nil
}

// Authenticate validates credentials and issues a token bound to the email.
// Implements account lockout after too many failed attempts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Token, *entities.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		err = storeError("find account", err)
		if errors.Is(err, ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_ = CheckPassword(password, s.dummy())
		}
		return Token{}, nil, err
	}

	now := s.now()
	if account.IsLocked(now) {
		// A locked account must cost the same as any other failure.
		_ = CheckPassword(password, s.dummy())
		return Token{}, account, ErrAccountLocked
	}

	if err := CheckPassword(password, account.PasswordHash); err != nil {
		if !errors.Is(err, ErrWrongPassword) {
			return Token{}, account, fmt.Errorf("failed to compare password: %w", err)
		}
		s.recordFailedLogin(ctx, account, now)
		return Token{}, account, ErrWrongPassword
	}

	if err := s.accounts.RecordLoginSuccess(ctx, account.ID, now); err != nil {
		log.Printf("Failed to record login for account %s: %v", account.PublicID, err)
	}

	token, err := s.tokens.Issue(account.Email)
	if err != nil {
		return Token{}, account, err
	}
	return token, account, nil
}

// recordFailedLogin increments the failed login counter and locks the account if threshold reached.
func (s *Service) recordFailedLogin(ctx context.Context, account *entities.Account, now time.Time) {
	lockout := s.config.LockoutDuration
	if lockout <= 0 {
		lockout = 30 * time.Minute
	}
	count, err := s.accounts.RecordLoginFailure(ctx, account.ID, s.config.MaxLoginAttempts, now.Add(lockout))
	if err != nil {
		log.Printf("Failed to record failed login for account %s: %v", account.PublicID, err)
		return
	}
	if s.config.MaxLoginAttempts > 0 && count >= s.config.MaxLoginAttempts {
		log.Printf("Account %s locked until %s", account.PublicID, now.Add(lockout).Format(time.RFC3339))
	}
}

// Account loads the account and its profile by email.
func (s *Service) Account(ctx context.Context, email string) (*entities.Account, error) {
	account, err := s.accounts.GetWithProfile(ctx, email)
	if err != nil {
		return nil, storeError("find account", err)
	}
	return account, nil
}

// ChangePassword verifies the old password and stores a fresh hash of the new one.
// A wrong old password counts towards the lockout like a failed login.
func (s *Service) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return storeError("find account", err)
	}

	now := s.now()
	if account.IsLocked(now) {
		return ErrAccountLocked
	}
	if err := CheckPassword(oldPassword, account.PasswordHash); err != nil {
		if errors.Is(err, ErrWrongPassword) {
			s.recordFailedLogin(ctx, account, now)
		}
		return err
	}

	newHash, err := HashPassword(newPassword, s.config.BcryptCost, s.config.MinPasswordLength)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, newHash); err != nil {
		return storeError("update password", err)
	}
	return nil
}

// DeleteAccount removes the account with everything it owns.
func (s *Service) DeleteAccount(ctx context.Context, email string) (*entities.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError("find account", err)
	}
	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		return nil, storeError("delete account", err)
	}
	return account, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := HashPassword("freearch-dummy-password", s.config.BcryptCost, 0)
		if err != nil {
			log.Printf("Failed to prepare dummy hash: %v", err)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	// RFC 5321 limit is 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// storeError maps repository errors onto the auth taxonomy.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, database.ErrDuplicate):
		return ErrAlreadyExists
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
