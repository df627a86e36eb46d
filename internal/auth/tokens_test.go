package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
)

const testSecret = "test-secret-do-not-use"

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testTokenConfig() config.Token {
	return config.Token{
		Secret:           testSecret,
		ExpiresInSeconds: 3600,
		Issuer:           config.DefaultTokenIssuer,
	}
}

func newTestIssuer(t *testing.T, ttlSeconds int, opts ...IssuerOption) *Issuer {
	t.Helper()
	cfg := testTokenConfig()
	cfg.ExpiresInSeconds = ttlSeconds
	issuer, err := NewIssuer(cfg, opts...)
	require.NoError(t, err)
	return issuer
}

// tamper flips one character in the middle of the signature segment.
func tamper(token string) string {
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer(config.Token{ExpiresInSeconds: 60})
	assert.Error(t, err)

	_, err = NewIssuer(config.Token{Secret: "s", ExpiresInSeconds: 0})
	assert.Error(t, err)
}

func TestIssuer_IssueAndVerify(t *testing.T) {
	issuer := newTestIssuer(t, 3600)

	token, err := issuer.Issue("a@b.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token.Value, "."), 3)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 2*time.Second)

	claims, err := issuer.Verify(context.Background(), token.Value)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, config.DefaultTokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
}

func TestIssuer_UniqueTokenIDs(t *testing.T) {
	issuer := newTestIssuer(t, 60)

	first, err := issuer.Issue("a@b.com")
	require.NoError(t, err)
	second, err := issuer.Issue("a@b.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.Value, second.Value)
}

func TestIssuer_Verify_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, 1, WithClock(clock.Now))

	token, err := issuer.Issue("a@b.com")
	require.NoError(t, err)

	_, err = issuer.Verify(context.Background(), token.Value)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = issuer.Verify(context.Background(), token.Value)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuer_Verify_ExpiredRealClock(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps for two seconds")
	}
	issuer := newTestIssuer(t, 1)

	token, err := issuer.Issue("a@b.com")
	require.NoError(t, err)

	time.Sleep(2 * time.Second)
	_, err = issuer.Verify(context.Background(), token.Value)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuer_Verify_AlteredSignature(t *testing.T) {
	issuer := newTestIssuer(t, 60)

	token, err := issuer.Issue("a@b.com")
	require.NoError(t, err)

	_, err = issuer.Verify(context.Background(), tamper(token.Value))
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestIssuer_Verify_Malformed(t *testing.T) {
	issuer := newTestIssuer(t, 60)
	other, err := NewIssuer(config.Token{Secret: "another-secret", ExpiresInSeconds: 60, Issuer: config.DefaultTokenIssuer})
	require.NoError(t, err)
	foreign, err := other.Issue("a@b.com")
	require.NoError(t, err)

	wrongIssuer, err := NewIssuer(config.Token{Secret: testSecret, ExpiresInSeconds: 60, Issuer: "someone-else"})
	require.NoError(t, err)
	reissued, err := wrongIssuer.Issue("a@b.com")
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.DefaultTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"two segments", "abc.def"},
		{"wrong secret", foreign.Value},
		{"wrong issuer", reissued.Value},
		{"none algorithm", noneAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestIssuer_Verify_Empty(t *testing.T) {
	issuer := newTestIssuer(t, 60)
	_, err := issuer.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestIssuer_Revoke(t *testing.T) {
	denylist := NewMemoryDenylist(time.Hour)
	defer denylist.Stop()
	issuer := newTestIssuer(t, 60, WithDenylist(denylist))
	ctx := context.Background()

	token, err := issuer.Issue("a@b.com")
	require.NoError(t, err)
	claims, err := issuer.Verify(ctx, token.Value)
	require.NoError(t, err)

	require.NoError(t, issuer.Revoke(ctx, claims))

	_, err = issuer.Verify(ctx, token.Value)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	other, err := issuer.Issue("a@b.com")
	require.NoError(t, err)
	_, err = issuer.Verify(ctx, other.Value)
	assert.NoError(t, err)
}

func TestIssuer_Revoke_WithoutDenylist(t *testing.T) {
	issuer := newTestIssuer(t, 60)
	ctx := context.Background()

	token, err := issuer.Issue("a@b.com")
	require.NoError(t, err)
	claims, err := issuer.Verify(ctx, token.Value)
	require.NoError(t, err)

	assert.False(t, issuer.CanRevoke())
	require.NoError(t, issuer.Revoke(ctx, claims))
	_, err = issuer.Verify(ctx, token.Value)
	assert.NoError(t, err)
}
