package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for token data
const (
	ContextKeyClaims = "auth_claims"
	ContextKeyEmail  = "auth_email"
)

// Where a request may carry its token, in precedence order.
const (
	TokenField  = "token"
	TokenQuery  = "token"
	TokenHeader = "x-access-token"
)

// Messages returned to clients rejected at the gate.
const (
	MessageTokenMissing = "No token provided."
	MessageTokenInvalid = "Failed to authenticate token."
)

// maxTokenBodyBytes bounds how much of a JSON body is buffered to look for a token.
const maxTokenBodyBytes = 1 << 20

// TokenVerifier is satisfied by *Issuer.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// Gate admits requests carrying a valid token and rejects the rest with 403.
type Gate struct {
	verifier TokenVerifier
	onReject func(err error)
}

type GateOption func(*Gate)

// WithRejectHook is called with the cause of every rejected request.
func WithRejectHook(fn func(err error)) GateOption {
	return func(g *Gate) {
		g.onReject = fn
	}
}

func NewGate(verifier TokenVerifier, opts ...GateOption) *Gate {
	g := &Gate{verifier: verifier}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Handler returns a Gin middleware handler that verifies the request token.
func (g *Gate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := ExtractToken(c)
		if err == nil {
			var claims *Claims
			claims, err = g.verifier.Verify(c.Request.Context(), raw)
			if err == nil {
				c.Set(ContextKeyClaims, claims)
				c.Set(ContextKeyEmail, claims.Email)
				c.Next()
				return
			}
		}

		if g.onReject != nil {
			g.onReject(err)
		}

		status, message := http.StatusForbidden, MessageTokenInvalid
		switch {
		case errors.Is(err, ErrTokenMissing):
			message = MessageTokenMissing
		case errors.Is(err, ErrStoreUnavailable):
			log.Printf("Token verification failed: %v", err)
			status, message = http.StatusInternalServerError, "Internal server error"
		}
		c.AbortWithStatusJSON(status, gin.H{
			"success": false,
			"message": message,
		})
	}
}

// ExtractToken looks for a token in the body field, then the query string,
// then the x-access-token header. A JSON body is restored for later binding.
func ExtractToken(c *gin.Context) (string, error) {
	if token := tokenFromBody(c); token != "" {
		return token, nil
	}
	if token := c.Query(TokenQuery); token != "" {
		return token, nil
	}
	if token := c.GetHeader(TokenHeader); token != "" {
		return token, nil
	}
	return "", ErrTokenMissing
}

func tokenFromBody(c *gin.Context) string {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	switch mediaType {
	case gin.MIMEJSON:
		data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTokenBodyBytes))
		if err != nil {
			return ""
		}
		c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(data), c.Request.Body))

		var body struct {
			Token json.RawMessage `json:"token"`
		}
		if json.Unmarshal(data, &body) != nil || len(body.Token) == 0 {
			return ""
		}
		var token string
		if json.Unmarshal(body.Token, &token) != nil {
			return ""
		}
		return token
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return c.PostForm(TokenField)
	}
	return ""
}

// GetClaims retrieves the verified claims from the context, or nil.
func GetClaims(c *gin.Context) *Claims {
	if v, exists := c.Get(ContextKeyClaims); exists {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// GetEmail retrieves the email the request's token was issued to.
func GetEmail(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyEmail); exists {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}
