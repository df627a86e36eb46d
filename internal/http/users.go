package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/obs"
)

// Audit actions recorded by the account routes.
const (
	actionLogin          = "login"
	actionRegister       = "register"
	actionLogout         = "logout"
	actionPasswordChange = "password_change"
	actionAccountDelete  = "account_delete"
)

type credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type registerRequest struct {
	credentials
	Kind string `json:"kind" form:"kind"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password"`
	NewPassword string `json:"new_password" form:"new_password"`
}

// UsersController handles login, registration and the caller's own account.
type UsersController struct {
	accounts AccountService
	tokens   TokenService
	limiter  *auth.RateLimiter
	audit    *audit.Service
	metrics  *obs.Metrics
}

func NewUsersController(accounts AccountService, tokens TokenService, limiter *auth.RateLimiter, auditService *audit.Service, metrics *obs.Metrics) *UsersController {
	return &UsersController{
		accounts: accounts,
		tokens:   tokens,
		limiter:  limiter,
		audit:    auditService,
		metrics:  metrics,
	}
}

// Authenticate exchanges credentials for a token.
// POST /FreeArch/users/authenticate
func (uc *UsersController) Authenticate(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, MessageInvalidBody)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondBadRequest(c, "Email and password are required.")
		return
	}

	ip := c.ClientIP()
	if uc.limiter != nil {
		if allowed, wait := uc.limiter.Allow(ip, req.Email); !allowed {
			uc.metrics.AuthAttempt(obs.OutcomeLocked)
			setRetryAfter(c, wait)
			respondFailure(c, http.StatusTooManyRequests, MessageTooManyLogins)
			return
		}
	}

	token, account, err := uc.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	var accountID uint
	if account != nil {
		accountID = account.ID
	}

	switch {
	case err == nil:
		if uc.limiter != nil {
			uc.limiter.RecordSuccess(ip, req.Email)
		}
		uc.metrics.AuthAttempt(obs.OutcomeSuccess)
		uc.audit.LogAuth(accountID, req.Email, actionLogin, clientInfo(c), nil)
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"token":      token.Value,
			"expires_at": token.ExpiresAt,
		})

	case errors.Is(err, auth.ErrAccountLocked):
		// Answered exactly like a wrong password so a lock does not reveal
		// that the email is registered.
		if uc.limiter != nil {
			uc.limiter.RecordFailure(ip, req.Email)
		}
		uc.metrics.AuthAttempt(obs.OutcomeLocked)
		uc.audit.LogAuth(accountID, req.Email, actionLogin, clientInfo(c), err)
		respondFailure(c, http.StatusUnauthorized, MessageAuthFailed)

	case errors.Is(err, auth.ErrNotFound), errors.Is(err, auth.ErrWrongPassword):
		if uc.limiter != nil {
			uc.limiter.RecordFailure(ip, req.Email)
		}
		uc.metrics.AuthAttempt(obs.OutcomeFailure)
		uc.audit.LogAuth(accountID, req.Email, actionLogin, clientInfo(c), err)
		respondFailure(c, http.StatusUnauthorized, MessageAuthFailed)

	default:
		uc.metrics.AuthAttempt(obs.OutcomeError)
		respondError(c, err, "Account")
	}
}

// Register creates an account without a profile.
// POST /FreeArch/users
func (uc *UsersController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, MessageInvalidBody)
		return
	}

	account, err := uc.accounts.Register(c.Request.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Kind:     entities.AccountKind(req.Kind),
	})
	if err != nil {
		respondError(c, err, "Account")
		return
	}

	uc.audit.LogAuth(account.ID, account.Email, actionRegister, clientInfo(c), nil)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": account.PublicID})
}

// Me returns the caller's account with its profile.
// GET /FreeArch/users/me
func (uc *UsersController) Me(c *gin.Context) {
	account, ok := currentAccount(c, uc.accounts)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "account": account})
}

// ChangePassword replaces the caller's password.
// PUT /FreeArch/users/me/password
func (uc *UsersController) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, MessageInvalidBody)
		return
	}

	account, ok := currentAccount(c, uc.accounts)
	if !ok {
		return
	}

	err := uc.accounts.ChangePassword(c.Request.Context(), account.Email, req.OldPassword, req.NewPassword)
	uc.audit.LogAuth(account.ID, account.Email, actionPasswordChange, clientInfo(c), err)
	if err != nil {
		respondError(c, err, "Account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed."})
}

// Logout revokes the token the request was made with.
// POST /FreeArch/users/logout
func (uc *UsersController) Logout(c *gin.Context) {
	if !uc.tokens.CanRevoke() {
		respondFailure(c, http.StatusNotImplemented, "Token revocation is not enabled.")
		return
	}
	if err := uc.tokens.Revoke(c.Request.Context(), auth.GetClaims(c)); err != nil {
		respondError(c, err, "Token")
		return
	}

	var accountID uint
	if account, err := uc.accounts.Account(c.Request.Context(), auth.GetEmail(c)); err == nil {
		accountID = account.ID
	}
	uc.audit.LogAuth(accountID, auth.GetEmail(c), actionLogout, clientInfo(c), nil)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out."})
}

// Delete removes the caller's account, profile and listings.
// DELETE /FreeArch/users/me
func (uc *UsersController) Delete(c *gin.Context) {
	deleteAccount(c, uc.accounts, uc.tokens, uc.audit)
}

// Events lists the caller's audit trail.
// GET /FreeArch/users/me/events
func (uc *UsersController) Events(c *gin.Context) {
	if uc.audit == nil {
		respondFailure(c, http.StatusNotFound, "Audit log not enabled")
		return
	}
	account, ok := currentAccount(c, uc.accounts)
	if !ok {
		return
	}

	q := parseListQuery(c)
	events, total, err := uc.audit.GetEvents(c.Request.Context(), account.ID, q.Limit, q.Offset)
	if err != nil {
		respondError(c, err, "Events")
		return
	}
	c.JSON(http.StatusOK, newPage(events, total, q))
}

// currentAccount resolves the token's email to an account. A valid token
// for an account that no longer exists is treated as an invalid token.
func currentAccount(c *gin.Context, accounts AccountService) (*entities.Account, bool) {
	account, err := accounts.Account(c.Request.Context(), auth.GetEmail(c))
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			respondFailure(c, http.StatusForbidden, auth.MessageTokenInvalid)
			return nil, false
		}
		respondError(c, err, "Account")
		return nil, false
	}
	return account, true
}

// deleteAccount removes the caller's account and revokes the token used.
func deleteAccount(c *gin.Context, accounts AccountService, tokens TokenService, auditService *audit.Service) {
	account, err := accounts.DeleteAccount(c.Request.Context(), auth.GetEmail(c))
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			respondFailure(c, http.StatusForbidden, auth.MessageTokenInvalid)
			return
		}
		respondError(c, err, "Account")
		return
	}

	if tokens != nil && tokens.CanRevoke() {
		if err := tokens.Revoke(c.Request.Context(), auth.GetClaims(c)); err != nil {
			// The account is gone, so the token can no longer resolve to it.
			log.Printf("Failed to revoke token of deleted account %s: %v", account.PublicID, err)
		}
	}

	auditService.LogAccount(account, actionAccountDelete, clientInfo(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "id": account.PublicID})
}
