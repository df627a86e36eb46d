package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
)

// Claims is the payload of a verified token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Token is a signed bearer credential and the moment it stops being valid.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

func (t Token) String() string {
	return t.Value
}

// Issuer mints and verifies HS256 tokens with a process-wide secret.
type Issuer struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	now      func() time.Time
	denylist Denylist
	parser   *jwt.Parser
}

type IssuerOption func(*Issuer)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.now = now
	}
}

// WithDenylist enables revocation checks during Verify.
func WithDenylist(d Denylist) IssuerOption {
	return func(i *Issuer) {
		i.denylist = d
	}
}

// NewIssuer returns an error if the secret is empty.
func NewIssuer(cfg config.Token, opts ...IssuerOption) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("TOKEN_SECRET is required")
	}
	if cfg.ExpiresInSeconds <= 0 {
		return nil, fmt.Errorf("TOKEN_EXPIRES_IN_SECONDS must be positive, got %d", cfg.ExpiresInSeconds)
	}

	i := &Issuer{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TokenTTL(),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	}
	if i.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(i.issuer))
	}
	i.parser = jwt.NewParser(parserOpts...)

	return i, nil
}

// TTL is the lifetime of newly issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for email, valid from now until now+TTL.
func (i *Issuer) Issue(email string) (Token, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks signature, algorithm, issuer and expiry, then the denylist.
func (i *Issuer) Verify(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := i.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if !token.Valid || claims.Email == "" {
		return nil, ErrTokenMalformed
	}

	if i.denylist != nil && claims.ID != "" {
		revoked, err := i.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: denylist: %v", ErrStoreUnavailable, err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Revoke denylists the token until its own expiry. It is a no-op when no
// denylist is configured.
func (i *Issuer) Revoke(ctx context.Context, claims *Claims) error {
	if i.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	until := i.now().Add(i.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := i.denylist.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("%w: denylist: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// CanRevoke reports whether a denylist is configured.
func (i *Issuer) CanRevoke() bool {
	return i.denylist != nil
}
