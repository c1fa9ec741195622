package progress

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/redpost/internal/domain"
)

// Milestones applied on phase transitions.
const (
	BeginPercent = 10
	CoverPercent = 60
	DonePercent  = 100

	// MaxSoftCeiling is the highest percentage reachable while a request is active.
	MaxSoftCeiling = 95
)

// ErrInvalidOptions is returned by NewSimulator for unusable options.
var ErrInvalidOptions = errors.New("invalid progress options")

// Options configures a Simulator.
type Options struct {
	// Interval between ticks.
	Interval time.Duration
	// SoftCeiling caps the percentage while a phase is active (1..95).
	SoftCeiling int
	// DoneHold is how long 100% is held before the state returns to idle.
	DoneHold time.Duration
	// Observer, when set, receives state changes in the order they were
	// made. Calls are serialized and never made with the state lock held; a
	// state superseded before its call is skipped.
	Observer func(domain.ProgressState)
}

// Simulator is a timer-driven, monotonic-until-reset percentage.
type Simulator struct {
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	state domain.ProgressState
	// seq numbers every state change.
	seq uint64

	notifyMu sync.Mutex
	notified uint64

	// stop and done belong to the running ticker; both are nil when idle.
	stop chan struct{}
	done chan struct{}

	hold *time.Timer
	// run increments on every Begin and terminal transition so that a stale
	// hold timer cannot reset a newer run.
	run uint64
}

// NewSimulator creates a Simulator in the idle state.
func NewSimulator(opts Options, logger *slog.Logger) (*Simulator, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidOptions)
	}
	if opts.SoftCeiling < 1 || opts.SoftCeiling > MaxSoftCeiling {
		return nil, fmt.Errorf("%w: soft ceiling must be within 1..%d", ErrInvalidOptions, MaxSoftCeiling)
	}
	if opts.DoneHold < 0 {
		return nil, fmt.Errorf("%w: done hold cannot be negative", ErrInvalidOptions)
	}

	return &Simulator{
		opts:   opts,
		logger: logger.With("component", "progress_simulator"),
		state:  domain.ProgressState{Phase: domain.PhaseIdle},
	}, nil
}

// Snapshot returns the current state.
func (s *Simulator) Snapshot() domain.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin starts a run: the phase becomes generating_text at 10% and the ticker
// starts. A pending done-hold reset is cancelled.
func (s *Simulator) Begin() {
	s.mu.Lock()
	oldStop, oldDone := s.detachLocked()
	s.stopHoldLocked()
	s.run++
	s.state = domain.ProgressState{Percent: s.capped(BeginPercent), Phase: domain.PhaseGeneratingText}

	stop, done := make(chan struct{}), make(chan struct{})
	s.stop, s.done = stop, done
	state, seq := s.changedLocked()
	s.mu.Unlock()

	join(oldStop, oldDone)
	s.logger.Debug("progress started", "percent", state.Percent)
	s.notify(state, seq)

	go s.loop(stop, done)
}

// EnterCover moves a text-phase run into the cover phase, raising the
// percentage to at least 60 without exceeding the soft ceiling.
func (s *Simulator) EnterCover() {
	s.mu.Lock()
	if s.state.Phase != domain.PhaseGeneratingText {
		s.mu.Unlock()
		return
	}
	s.state.Phase = domain.PhaseGeneratingCover
	s.state.Percent = max(s.state.Percent, s.capped(CoverPercent))
	state, seq := s.changedLocked()
	s.mu.Unlock()

	s.notify(state, seq)
}

// Complete forces 100%, stops the ticker and schedules the return to idle.
func (s *Simulator) Complete() {
	s.mu.Lock()
	stop, done := s.detachLocked()
	s.stopHoldLocked()
	s.run++
	s.state = domain.ProgressState{Percent: DonePercent, Phase: domain.PhaseDone}
	run := s.run
	state, seq := s.changedLocked()
	s.mu.Unlock()

	join(stop, done)
	s.logger.Debug("progress completed")
	s.notify(state, seq)

	// The hold starts after observers saw 100% so the reset is always the
	// later event.
	s.mu.Lock()
	if s.run == run {
		s.hold = time.AfterFunc(s.opts.DoneHold, func() { s.resetAfterHold(run) })
	}
	s.mu.Unlock()
}

// Fail resets the percentage to 0 and stops the ticker.
func (s *Simulator) Fail() {
	s.mu.Lock()
	stop, done := s.detachLocked()
	s.stopHoldLocked()
	s.run++
	s.state = domain.ProgressState{Percent: 0, Phase: domain.PhaseFailed}
	state, seq := s.changedLocked()
	s.mu.Unlock()

	join(stop, done)
	s.logger.Debug("progress failed")
	s.notify(state, seq)
}

// Halt stops the ticker without changing the state. It is safe to call at
// any time and any number of times.
func (s *Simulator) Halt() {
	s.mu.Lock()
	stop, done := s.detachLocked()
	s.mu.Unlock()

	join(stop, done)
}

// Close stops the ticker and any pending hold timer.
func (s *Simulator) Close() {
	s.mu.Lock()
	stop, done := s.detachLocked()
	s.stopHoldLocked()
	s.run++
	s.mu.Unlock()

	join(stop, done)
}

func (s *Simulator) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if state, seq, ok := s.advance(stop); ok {
				s.notify(state, seq)
			}
		}
	}
}

// advance applies one tick if stop still identifies the running ticker.
func (s *Simulator) advance(stop <-chan struct{}) (domain.ProgressState, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop == nil || (<-chan struct{})(s.stop) != stop || !s.state.Phase.Active() {
		return domain.ProgressState{}, 0, false
	}
	next := nextPercent(s.state.Percent, s.opts.SoftCeiling)
	if next == s.state.Percent {
		return domain.ProgressState{}, 0, false
	}
	s.state.Percent = next
	state, seq := s.changedLocked()
	return state, seq, true
}

func (s *Simulator) resetAfterHold(run uint64) {
	s.mu.Lock()
	if s.run != run || s.state.Phase != domain.PhaseDone {
		s.mu.Unlock()
		return
	}
	s.hold = nil
	s.state = domain.ProgressState{Percent: 0, Phase: domain.PhaseIdle}
	state, seq := s.changedLocked()
	s.mu.Unlock()

	s.notify(state, seq)
}

// detachLocked hands the running ticker's channels to the caller, who must
// join it after releasing the lock.
func (s *Simulator) detachLocked() (chan struct{}, chan struct{}) {
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	return stop, done
}

func (s *Simulator) stopHoldLocked() {
	if s.hold != nil {
		s.hold.Stop()
		s.hold = nil
	}
}

func (s *Simulator) capped(p int) int {
	return min(p, s.opts.SoftCeiling)
}

// changedLocked numbers the current state for notify.
func (s *Simulator) changedLocked() (domain.ProgressState, uint64) {
	s.seq++
	return s.state, s.seq
}

// notify passes state to the observer unless a later state was already
// delivered.
func (s *Simulator) notify(state domain.ProgressState, seq uint64) {
	if s.opts.Observer == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.notified {
		return
	}
	s.notified = seq
	s.opts.Observer(state)
}

func join(stop, done chan struct{}) {
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// nextPercent advances p by a fifth of the remaining distance to ceiling,
// rounded up, so steps shrink as the ceiling approaches.
func nextPercent(p, ceiling int) int {
	if p >= ceiling {
		return ceiling
	}
	step := (ceiling - p + 4) / 5
	if step < 1 {
		step = 1
	}
	return min(p+step, ceiling)
}
