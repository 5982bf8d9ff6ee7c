// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	cron "github.com/robfig/cron/v3"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
)

// Job is one unit of periodic work
type Job func(ctx context.Context) error

type entry struct {
	name    string
	timeout time.Duration
	job     Job
}

// Scheduler manages cron jobs for the application
type Scheduler struct {
	cron   *cron.Cron
	logger *logging.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	jobs map[string]entry
}

// NewScheduler creates a new cron scheduler with seconds support
func NewScheduler(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.WithComponent("scheduler"),
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]entry),
	}
}

// Add registers job under name. The job's context is cancelled after timeout
// when timeout is positive.
func (s *Scheduler) Add(name, schedule string, timeout time.Duration, job Job) error {
	e := entry{name: name, timeout: timeout, job: job}

	id, err := s.cron.AddFunc(NormalizeSchedule(schedule), func() { s.run(e) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	s.mu.Lock()
	s.jobs[name] = e
	s.mu.Unlock()

	s.logger.Infof("Scheduled job %s with ID %d, schedule: %s", name, id, schedule)
	return nil
}

// RunNow runs a registered job synchronously
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	e, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.run(e)
}

func (s *Scheduler) run(e entry) error {
	start := time.Now()

	ctx := s.ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	err := e.job(ctx)
	if err != nil {
		s.logger.WithError(err).Errorf("Job %s failed", e.name)
		return err
	}
	s.logger.Debugf("Job %s completed in %v", e.name, time.Since(start))
	return nil
}

// Start starts the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started")
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("Cron scheduler stopped")
}

// NormalizeSchedule lets five-field expressions run under the seconds parser
func NormalizeSchedule(expr string) string {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "@") {
		return expr
	}
	if fields := strings.Fields(expr); len(fields) == 5 {
		return "0 " + expr
	}
	return expr
}
