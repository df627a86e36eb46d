package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestMemoryDenylist(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	d := NewMemoryDenylist(time.Hour)
	defer d.Stop()
	d.now = clock.Now
	ctx := context.Background()

	assert.NoError(t, d.Revoke(ctx, "jti-1", clock.Now().Add(time.Minute)))
	assert.NoError(t, d.Revoke(ctx, "jti-past", clock.Now().Add(-time.Minute)))

	revoked, err := d.IsRevoked(ctx, "jti-1")
	assert.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = d.IsRevoked(ctx, "jti-past")
	assert.False(t, revoked)

	clock.Advance(2 * time.Minute)
	revoked, _ = d.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)

	d.cleanup()
	d.mu.RLock()
	assert.Empty(t, d.entries)
	d.mu.RUnlock()
}

type RedisDenylistSuite struct {
	suite.Suite
	mini     *miniredis.Miniredis
	denylist *RedisDenylist
	ctx      context.Context
}

func TestRedisDenylistSuite(t *testing.T) {
	suite.Run(t, new(RedisDenylistSuite))
}

func (s *RedisDenylistSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.denylist = NewRedisDenylistWithClient(client)
	s.ctx = context.Background()
}

func (s *RedisDenylistSuite) TearDownTest() {
	if s.denylist != nil {
		_ = s.denylist.Close()
	}
}

func (s *RedisDenylistSuite) TestRevokeAndCheck() {
	s.Require().NoError(s.denylist.Revoke(s.ctx, "jti-1", time.Now().Add(time.Minute)))

	revoked, err := s.denylist.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.denylist.IsRevoked(s.ctx, "jti-2")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *RedisDenylistSuite) TestEntriesExpire() {
	s.Require().NoError(s.denylist.Revoke(s.ctx, "jti-1", time.Now().Add(time.Minute)))
	s.True(s.mini.Exists(revokedKeyPrefix + "jti-1"))

	s.mini.FastForward(2 * time.Minute)

	revoked, err := s.denylist.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *RedisDenylistSuite) TestPastExpiryIsIgnored() {
	s.Require().NoError(s.denylist.Revoke(s.ctx, "jti-old", time.Now().Add(-time.Second)))
	s.False(s.mini.Exists(revokedKeyPrefix + "jti-old"))
}

func (s *RedisDenylistSuite) TestIssuerWithRedis() {
	issuer, err := NewIssuer(testTokenConfig(), WithDenylist(s.denylist))
	s.Require().NoError(err)

	token, err := issuer.Issue("a@b.com")
	s.Require().NoError(err)
	claims, err := issuer.Verify(s.ctx, token.Value)
	s.Require().NoError(err)

	s.Require().NoError(issuer.Revoke(s.ctx, claims))
	_, err = issuer.Verify(s.ctx, token.Value)
	s.ErrorIs(err, ErrTokenRevoked)
}

func (s *RedisDenylistSuite) TestUnavailable() {
	issuer, err := NewIssuer(testTokenConfig(), WithDenylist(s.denylist))
	s.Require().NoError(err)
	token, err := issuer.Issue("a@b.com")
	s.Require().NoError(err)

	s.mini.Close()

	_, err = issuer.Verify(s.ctx, token.Value)
	s.ErrorIs(err, ErrStoreUnavailable)
}
