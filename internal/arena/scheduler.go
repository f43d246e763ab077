package arena

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// SchedulerConfig tunes one game type's tick loop.
type SchedulerConfig struct {
	// Period is the fixed tick interval.
	Period time.Duration

	// SweepEvery is how many ticks pass between housekeeping sweeps
	// (stale eviction, grace-delayed removal of finished matches).
	SweepEvery int

	// StaleAfter is how long a match may sit in Waiting before it is
	// abandoned and evicted.
	StaleAfter time.Duration

	// RemoveAfter is the grace delay between a match finishing and its
	// removal, so clients receive the final state first.
	RemoveAfter time.Duration
}

// DefaultSchedulerConfig returns the housekeeping defaults shared by
// all games; Period must still be set per game.
func DefaultSchedulerConfig(period time.Duration) SchedulerConfig {
	return SchedulerConfig{
		Period:      period,
		SweepEvery:  50,
		StaleAfter:  5 * time.Minute,
		RemoveAfter: 10 * time.Second,
	}
}

// Scheduler drives one game type: every Period it advances each active
// match and forwards the resulting events to the broadcast boundary.
// Matches are mutually independent; a failure advancing one never stops
// the others or the loop itself.
type Scheduler[M Match] struct {
	cfg      SchedulerConfig
	registry *Registry[M]
	bc       Broadcaster
	store    SummaryStore // optional, may be nil
	logger   *log.Logger

	// finished tracks edge-triggered terminal transitions: code to the
	// deadline after which the match is removed. Only touched from the
	// run loop goroutine.
	finished map[string]time.Time
}

// NewScheduler wires a scheduler to its registry and boundaries.
func NewScheduler[M Match](cfg SchedulerConfig, registry *Registry[M], bc Broadcaster, store SummaryStore, logger *log.Logger) *Scheduler[M] {
	return &Scheduler[M]{
		cfg:      cfg,
		registry: registry,
		bc:       bc,
		store:    store,
		logger:   logger,
		finished: make(map[string]time.Time),
	}
}

// Run executes the tick loop until ctx is cancelled. Cancellation stops
// the loop between ticks, never mid-tick.
func (s *Scheduler[M]) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Period)
	defer ticker.Stop()

	tickCount := 0
	for {
		select {
		case <-ticker.C:
			s.Tick(time.Now())
			tickCount++
			if s.cfg.SweepEvery > 0 && tickCount%s.cfg.SweepEvery == 0 {
				s.Sweep(time.Now())
			}
		case <-ctx.Done():
			return
		}
	}
}

// Tick advances every active match once. Exported so tests can drive
// the scheduler with a synthetic clock.
func (s *Scheduler[M]) Tick(now time.Time) {
	for _, m := range s.registry.Active() {
		events := s.advance(m, now)
		if len(events) > 0 {
			s.dispatch(m.Code(), events)
		}
		if m.Finished() {
			s.finish(m, now)
		}
	}
}

// advance calls Advance under a recover so one broken match cannot take
// down the tick for the rest.
func (s *Scheduler[M]) advance(m M, now time.Time) (events []Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic advancing match", "code", m.Code(), "panic", r)
			events = nil
		}
	}()
	return m.Advance(now)
}

// finish handles the terminal transition of a match exactly once:
// persist the summary and schedule eviction after the grace delay.
func (s *Scheduler[M]) finish(m M, now time.Time) {
	code := m.Code()
	if _, seen := s.finished[code]; seen {
		return
	}
	s.finished[code] = now.Add(s.cfg.RemoveAfter)

	if s.store != nil {
		summary := m.Summary()
		go func() {
			if err := s.store.SaveMatchSummary(summary); err != nil {
				s.logger.Error("failed to persist match summary", "code", summary.Code, "err", err)
			}
		}()
	}
}

// Sweep runs the slower housekeeping pass: evict matches stuck in
// Waiting past the staleness window and remove finished matches whose
// grace delay has elapsed.
func (s *Scheduler[M]) Sweep(now time.Time) {
	for code, due := range s.finished {
		if now.After(due) {
			s.registry.Remove(code)
			delete(s.finished, code)
		}
	}

	cutoff := now.Add(-s.cfg.StaleAfter)
	for _, m := range s.registry.All() {
		switch {
		case m.Waiting() && m.CreatedAt().Before(cutoff):
			s.logger.Info("evicting stale waiting match", "code", m.Code())
			m.Abandon()
			s.registry.Remove(m.Code())
		case m.Finished():
			// Covers matches that reach a terminal status outside a
			// scheduler tick (move-driven games).
			s.finish(m, now)
		}
	}
}

// dispatch forwards one tick's events through the broadcast boundary,
// preserving their order within the match.
func (s *Scheduler[M]) dispatch(code string, events []Event) {
	for _, e := range events {
		switch {
		case e.ConnID != "":
			s.bc.ToConn(e.ConnID, e.Name, e.Payload)
		case e.ExcludeConn != "":
			s.bc.ToGroupExcept(code, e.ExcludeConn, e.Name, e.Payload)
		default:
			s.bc.ToGroup(code, e.Name, e.Payload)
		}
	}
}
