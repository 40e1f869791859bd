package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// Trigger is anything that can drive periodic refreshes. The HTTP layer
// only depends on RunNow, so a manual-only trigger can stand in for the
// ticker-backed one when the interval is disabled.
type Trigger interface {
	Start()
	Stop()
	RunNow()
}

// RefreshFunc is invoked on every scheduled or manual run.
type RefreshFunc func(ctx context.Context)

// Scheduler fires the refresh function on a fixed interval. The first run
// happens one full interval after Start, never at startup: boot should not
// hammer the upstream providers when a warm cache is already on disk.
type Scheduler struct {
	interval time.Duration
	refresh  RefreshFunc

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func New(interval time.Duration, refresh RefreshFunc) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		interval: interval,
		refresh:  refresh,
	}
}

// Start launches the ticker loop. Calling Start on a running scheduler is
// a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)
	log.Printf("[scheduler] started, refreshing every %s", s.interval)
}

// Stop halts the ticker and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	log.Printf("[scheduler] stopped")
}

// RunNow fires one refresh immediately, independent of the tick cadence.
// Overlapping runs are skipped rather than queued.
func (s *Scheduler) RunNow() {
	s.run(context.Background())
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Printf("[scheduler] refresh already in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.refresh(ctx)
}

// ManualTrigger satisfies Trigger without any background cadence. Used
// when periodic refresh is disabled in the settings.
type ManualTrigger struct {
	refresh RefreshFunc
}

func NewManualTrigger(refresh RefreshFunc) *ManualTrigger {
	return &ManualTrigger{refresh: refresh}
}

func (t *ManualTrigger) Start() {}
func (t *ManualTrigger) Stop()  {}

func (t *ManualTrigger) RunNow() {
	t.refresh(context.Background())
}
