// Package auth provides password authentication and bearer-token access
// control for the API.
//
// # Credentials
//
// Accounts are looked up by email exactly as stored; no case folding or
// trimming is applied. Passwords are hashed with bcrypt at AUTH_BCRYPT_COST
// and a fresh salt on every registration or password change:
//
//	AUTH_BCRYPT_COST=10              # bcrypt cost factor
//	AUTH_MIN_PASSWORD_LENGTH=4       # shortest accepted password
//	AUTH_MAX_LOGIN_ATTEMPTS=5        # failures before the account locks
//	AUTH_LOCKOUT_DURATION=30m        # how long a locked account stays locked
//
// Registration inserts directly and relies on the unique email index; the
// index violation is reported as ErrAlreadyExists.
//
// # Tokens
//
// Issuer signs HS256 JWTs carrying the email, iat, exp, iss and a jti:
//
//	TOKEN_SECRET=<random string>     # required
//	TOKEN_EXPIRES_IN_SECONDS=86400   # token lifetime
//
// Tokens are stateless. When a Denylist is configured (in memory, or Redis
// via REDIS_URL) a token can be revoked before it expires.
//
// # Usage
//
//	issuer, err := auth.NewIssuer(cfg.Token, auth.WithDenylist(denylist))
//	authService := auth.NewService(accounts.NewRepository(db), issuer, cfg.Auth)
//	gate := auth.NewGate(issuer)
//	protected := router.Group("/FreeArch", gate.Handler())
//
// The gate reads the token from the body field "token", then the "token"
// query parameter, then the x-access-token header. Extract the email in
// handlers:
//
//	email := auth.GetEmail(c)
package auth
