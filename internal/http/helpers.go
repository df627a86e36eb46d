package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/storage"
)

// Messages sent to clients. Authentication failures share one message so
// responses do not reveal whether an email is registered.
const (
	MessageAuthFailed     = "Authentication failed."
	MessageInternalError  = "Internal server error"
	MessageForbidden      = "You are not allowed to modify this resource."
	MessageInvalidBody    = "Invalid request body."
	MessageAccountExists  = "An account with that email already exists."
	MessageTooManyLogins  = "Too many login attempts. Try again later."
	MessageTooManyRequest = "Too many requests. Slow down."
)

// errForbidden marks an authenticated caller acting on someone else's resource.
var errForbidden = errors.New("forbidden")

// --- Response Types ---

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PaginatedResponse wraps a page of results.
type PaginatedResponse struct {
	Success bool  `json:"success"`
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func newPage(data any, total int64, q database.ListQuery) PaginatedResponse {
	return PaginatedResponse{
		Success: true,
		Data:    data,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
		HasMore: int64(q.Offset+q.Limit) < total,
	}
}

// --- Error Response Helpers ---

// respondFailure aborts the request with {success:false, message}.
func respondFailure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Message: message})
}

// respondError is the single place errors become HTTP statuses. resource
// names what was looked up, for 404 messages. Causes of 500s are logged and
// never sent to the client.
func respondError(c *gin.Context, err error, resource string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, auth.ErrValidation):
		respondFailure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrAlreadyExists):
		respondFailure(c, http.StatusConflict, MessageAccountExists)
	case errors.Is(err, auth.ErrWrongPassword), errors.Is(err, auth.ErrAccountLocked):
		respondFailure(c, http.StatusUnauthorized, MessageAuthFailed)
	case auth.IsTokenError(err):
		respondFailure(c, http.StatusForbidden, auth.MessageTokenInvalid)
	case errors.Is(err, errForbidden):
		respondFailure(c, http.StatusForbidden, MessageForbidden)
	case errors.Is(err, auth.ErrNotFound), errors.Is(err, database.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		respondFailure(c, http.StatusNotFound, resource+" not found")
	case errors.Is(err, storage.ErrTooLarge), errors.As(err, &maxBytes):
		respondFailure(c, http.StatusRequestEntityTooLarge, "File exceeds the upload size limit.")
	case errors.Is(err, storage.ErrNotImage):
		respondFailure(c, http.StatusUnsupportedMediaType, "Only image uploads are accepted.")
	case errors.Is(err, storage.ErrEmpty):
		respondFailure(c, http.StatusBadRequest, "File is empty.")
	default:
		log.Printf("Internal error (%s %s): %v", c.Request.Method, c.FullPath(), err)
		respondFailure(c, http.StatusInternalServerError, MessageInternalError)
	}
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondFailure(c, http.StatusBadRequest, message)
}

// setRetryAfter sets Retry-After in whole seconds, at least one.
func setRetryAfter(c *gin.Context, wait time.Duration) {
	seconds := int(wait.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
}

// --- Parameter Parsing ---

// parseListQuery reads q, limit and offset. Malformed numbers fall back to
// the defaults rather than failing the request.
func parseListQuery(c *gin.Context) database.ListQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return database.ListQuery{
		Q:      c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}.Normalize()
}

// clientInfo describes the caller for audit events.
func clientInfo(c *gin.Context) audit.Client {
	return audit.Client{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// deref returns the pointed-to string or "".
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
