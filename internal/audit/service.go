package audit

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

const asyncWriteTimeout = 5 * time.Second

// Service provides high-level audit logging functionality.
type Service struct {
	repo     *audit.Repository
	inflight sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Client identifies where a request came from.
type Client struct {
	IP        string
	UserAgent string
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
// The write outlives the request that triggered it. A nil Service drops it.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if s == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
		defer cancel()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every pending LogAsync write has finished.
func (s *Service) Wait() {
	if s == nil {
		return
	}
	s.inflight.Wait()
}

// LogAuth records a login, registration, logout or password change.
// accountID is 0 when the email did not resolve to an account.
func (s *Service) LogAuth(accountID uint, email, action string, client Client, err error) {
	event := &entities.AuditEvent{
		AccountID: accountID,
		Email:     truncate(email, 255),
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: client.IP,
		UserAgent: truncate(client.UserAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAccount records a change to the account itself, such as removal.
func (s *Service) LogAccount(account *entities.Account, action string, client Client) {
	s.LogAsync(&entities.AuditEvent{
		AccountID:   account.ID,
		Email:       account.Email,
		EventType:   entities.AuditEventAccount,
		Action:      action,
		Description: string(account.Kind) + " account " + account.PublicID,
		EntityType:  "account",
		EntityID:    account.PublicID,
		IPAddress:   client.IP,
		UserAgent:   truncate(client.UserAgent, 500),
		Status:      entities.AuditStatusSuccess,
	})
}

// LogListing records a create, update or delete of a profile or excavation.
func (s *Service) LogListing(accountID uint, action, entityType, entityID, description string) {
	s.LogAsync(&entities.AuditEvent{
		AccountID:   accountID,
		EventType:   entities.AuditEventListing,
		Action:      action,
		Description: truncate(description, 500),
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogUpload records a thumbnail upload.
func (s *Service) LogUpload(accountID uint, filename string, size int64, err error) {
	event := &entities.AuditEvent{
		AccountID:   accountID,
		EventType:   entities.AuditEventUpload,
		Action:      "thumbnail_upload",
		Description: "Uploaded " + strconv.FormatInt(size, 10) + " bytes",
		EntityType:  "thumbnail",
		EntityID:    filename,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, accountID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, accountID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
