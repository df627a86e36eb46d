package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Enqueuer adds one run of each maintenance task to the queue.
type Enqueuer interface {
	EnqueueMaintenance() ([]string, error)
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// MaintenanceScheduler enqueues the maintenance tasks on a cron schedule.
// The work itself runs on the task queue, so a slow cleanup never blocks
// the next tick.
type MaintenanceScheduler struct {
	queue    Enqueuer
	schedule string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

func NewMaintenanceScheduler(queue Enqueuer, schedule string) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		queue:    queue,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the job and starts cron. An empty schedule disables it.
// Cancelling ctx stops the scheduler.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Maintenance scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.RunNow)
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started with schedule '%s'. Next run: %v", s.schedule, s.nextRunLocked())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts cron and waits for a running tick to return.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Printf("Maintenance scheduler: stopped")
}

// RunNow enqueues the maintenance tasks immediately.
func (s *MaintenanceScheduler) RunNow() {
	ids, err := s.queue.EnqueueMaintenance()
	if err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue tasks: %v", err)
		return
	}
	log.Printf("Maintenance scheduler: enqueued %d tasks", len(ids))
}

// IsRunning returns whether the scheduler is active
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next run will occur, or nil when stopped.
func (s *MaintenanceScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.nextRunLocked()
	return &next
}

func (s *MaintenanceScheduler) nextRunLocked() time.Time {
	return s.cron.Entry(s.entryID).Next
}
