package digest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the digest on a cron schedule.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use and
// idempotent.
type Scheduler struct {
	spec      string
	source    Source
	reporters []Reporter
	logger    *slog.Logger
	cron      *cron.Cron
	now       func() time.Time

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewScheduler creates a digest [Scheduler].
//
// Parameters:
//   - spec: standard five-field cron expression
//   - src: store snapshot source
//   - logger: logger for scheduler events (panics, lifecycle)
//   - reporters: receivers of each summary, called in order
//
// Returns an error if spec does not parse.
func NewScheduler(spec string, src Source, logger *slog.Logger, reporters ...Reporter) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}

	return &Scheduler{
		spec:      spec,
		source:    src,
		reporters: reporters,
		logger:    logger,
		cron:      cron.New(cron.WithLocation(time.Local)),
		now:       time.Now,
	}, nil
}

// Start registers the digest job and starts the cron engine.
//
// Start is non-blocking. The engine stops when ctx is cancelled or
// [Scheduler.Stop] is called. If Stop was called before Start, Start is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce() }); err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}
	s.started = true
	s.cron.Start()

	s.logger.Info("digest scheduled", "schedule", s.spec)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the cron engine and waits for a running digest to finish.
// Safe to call multiple times and before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	s.mu.Unlock()

	if started {
		<-s.cron.Stop().Done()
	}
}

// RunOnce builds a summary now and delivers it to every reporter.
// Reporter panics are recovered and logged.
func (s *Scheduler) RunOnce() Summary {
	summary := Build(s.source, s.now())

	s.logger.Info("outreach digest",
		"total", summary.Counts.Total,
		"not_contacted", summary.Counts.NotContacted,
		"follow_up", summary.Counts.FollowUp,
	)

	for _, r := range s.reporters {
		s.reportSafe(r, summary)
	}
	return summary
}

func (s *Scheduler) reportSafe(r Reporter, summary Summary) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("digest reporter panic",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", p),
				"stack", string(debug.Stack()),
			)
		}
	}()
	r.Report(summary)
}
