// Package sequencer drives the presentation timeline and owns the skip interrupt
package sequencer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/lixenwraith/iron-idols/content"
	"github.com/lixenwraith/iron-idols/corruption"
	"github.com/lixenwraith/iron-idols/effect"
	"github.com/lixenwraith/iron-idols/render"
	"github.com/lixenwraith/iron-idols/status"
	"github.com/lixenwraith/iron-idols/timeline"
)

// hiddenTask names the deferred hidden message task
const hiddenTask = "hidden-message"

var (
	ErrAlreadyStarted = errors.New("sequencer already started")
	ErrClosed         = errors.New("sequencer closed")
)

// Config describes one presentation run
type Config struct {
	// Script defaults to content.Default()
	Script   *content.Script
	Timings  timeline.Timings
	Carousel timeline.CarouselTimings
	// HiddenDelay is the wait between the end of the sequence and the hidden
	// message; non-positive disables the reveal
	HiddenDelay time.Duration
	// Steps defaults to timeline.Default(Timings)
	Steps []timeline.Step
	// Source feeds the corruption generator; nil uses math/rand/v2
	Source corruption.Source
}

// Sequencer runs the timeline once and short-circuits to the closing
// composition when interrupted
type Sequencer struct {
	cfg          Config
	steps        []timeline.Step
	clock        clockwork.Clock
	log          *slog.Logger
	status       *status.Registry
	stepHook     func(int, timeline.Phase)
	carouselHook func(int)

	mu        sync.Mutex
	state     State
	started   bool
	closed    bool
	cancelRun context.CancelFunc
	tasks     *timeline.Tasks
	done      chan struct{}

	stepsCompleted   *atomic.Int64
	interruptCalls   *atomic.Int64
	carouselAdvances *atomic.Int64
	interruptedFlag  *atomic.Bool
	completedFlag    *atomic.Bool
	hiddenFlag       *atomic.Bool
	phaseLabel       *status.Label
	elapsed          *status.Duration
}

// New creates a sequencer for cfg
func New(cfg Config, opts ...Option) *Sequencer {
	if cfg.Script == nil {
		cfg.Script = content.Default()
	}
	if cfg.Carousel == (timeline.CarouselTimings{}) {
		cfg.Carousel = timeline.DefaultCarouselTimings()
	}

	s := &Sequencer{
		cfg:   cfg,
		clock: clockwork.NewRealClock(),
		log:   slog.New(slog.DiscardHandler),
		done:  make(chan struct{}),
		state: State{Phase: timeline.PhaseIdle, StepIndex: -1, RunID: uuid.New()},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.status == nil {
		s.status = status.NewRegistry()
	}

	s.steps = cfg.Steps
	if s.steps == nil {
		s.steps = timeline.Default(cfg.Timings)
	}
	s.log = s.log.With("run_id", s.state.RunID.String())

	s.stepsCompleted = s.status.Counters.Get(MetricStepsCompleted)
	s.interruptCalls = s.status.Counters.Get(MetricInterruptCalls)
	s.carouselAdvances = s.status.Counters.Get(MetricCarouselAdvances)
	s.interruptedFlag = s.status.Flags.Get(MetricInterrupted)
	s.completedFlag = s.status.Flags.Get(MetricCompleted)
	s.hiddenFlag = s.status.Flags.Get(MetricHiddenRevealed)
	s.phaseLabel = s.status.Labels.Get(MetricPhase)
	s.elapsed = s.status.Durations.Get(MetricElapsed)
	s.status.Labels.Get(MetricRunID).Store(s.state.RunID.String())
	s.phaseLabel.Store(timeline.PhaseIdle.String())

	return s
}

// Run plays the timeline into root and returns once the visible sequence is
// complete, leaving the slideshow and hidden message running as owned tasks
// Cancelling ctx aborts without rendering the closing composition and
// returns ctx.Err()
func (s *Sequencer) Run(ctx context.Context, root render.Region) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.started:
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelRun = cancel
	if s.state.Interrupted {
		cancel()
	}
	s.state.StartedAt = s.clock.Now()
	s.tasks = timeline.NewTasks(ctx, s.log)
	tasks := s.tasks
	s.mu.Unlock()

	defer close(s.done)
	defer cancel()

	st := &timeline.Stage{
		Root:       root,
		Clock:      s.clock,
		Script:     s.cfg.Script,
		Timings:    s.cfg.Timings,
		Carousel:   s.cfg.Carousel,
		Gen:        corruption.NewGenerator(s.cfg.Source),
		Tasks:      tasks,
		Log:        s.log,
		OnCarousel: s.onCarousel,
	}

	s.log.Info("sequence started", "steps", len(s.steps))
	finished, err := s.runSteps(ctx, runCtx, st)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		s.log.Info("sequence aborted", "phase", s.State().Phase.String())
		return err
	}

	// Completion is decided under the lock so a racing Interrupt is either
	// observed here or becomes a no-op
	s.mu.Lock()
	s.state.Completed = true
	interrupted := s.state.Interrupted
	s.mu.Unlock()

	if !finished {
		if err := timeline.ComposeFinal(ctx, st, timeline.Instant{}); err != nil {
			return errors.Wrap(err, "compose final state")
		}
	}

	s.setPhase(timeline.PhaseIdleFinal)
	s.completedFlag.Store(true)
	s.elapsed.Set(s.clock.Since(s.State().StartedAt))
	s.log.Info("sequence complete", "interrupted", interrupted, "elapsed", s.elapsed.Load())

	s.scheduleHidden(st, tasks)
	return nil
}

// Interrupt skips to the closing composition
// Idempotent and safe from any goroutine; before Run it makes Run skip every
// step, after completion it is a no-op
func (s *Sequencer) Interrupt() {
	s.interruptCalls.Add(1)

	s.mu.Lock()
	if s.state.Completed {
		s.mu.Unlock()
		s.log.Debug("interrupt ignored, sequence complete")
		return
	}
	if s.state.Interrupted {
		s.mu.Unlock()
		return
	}
	s.state.Interrupted = true
	phase := s.state.Phase
	cancel := s.cancelRun
	s.mu.Unlock()

	s.interruptedFlag.Store(true)
	s.log.Info("interrupt", "phase", phase.String())
	if cancel != nil {
		cancel()
	}
}

// State returns a snapshot of the run
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when Run returns
func (s *Sequencer) Done() <-chan struct{} {
	return s.done
}

// Close cancels the owned tasks and waits for them
// A sequencer that was never run cannot be run afterwards
func (s *Sequencer) Close() {
	s.mu.Lock()
	s.closed = true
	tasks := s.tasks
	s.mu.Unlock()

	if tasks != nil {
		tasks.Close()
	}
}

// runSteps executes the timeline in order, reporting whether every step ran to
// completion; an interrupt cuts the run at the next suspension point
func (s *Sequencer) runSteps(ctx, runCtx context.Context, st *timeline.Stage) (bool, error) {
	for i, step := range s.steps {
		// A step is only entered while the run is live; the hook may still
		// interrupt the step it was told about
		if runCtx.Err() != nil {
			return false, nil
		}
		s.enter(i, step.Phase)
		if runCtx.Err() != nil {
			return false, nil
		}

		stepCtx := runCtx
		if !step.Skippable {
			stepCtx = ctx
		}
		if err := step.Run(stepCtx, st); err != nil {
			if stepCtx.Err() == nil {
				return false, errors.Wrapf(err, "step %s", step.Phase)
			}
			s.log.Debug("step cancelled", "phase", step.Phase.String())
			return false, nil
		}
		s.stepsCompleted.Add(1)
	}
	return len(s.steps) > 0 || runCtx.Err() == nil, nil
}

func (s *Sequencer) enter(i int, phase timeline.Phase) {
	s.mu.Lock()
	s.state.StepIndex = i
	s.state.Phase = phase
	s.mu.Unlock()
	s.phaseLabel.Store(phase.String())
	s.log.Debug("step", "index", i, "phase", phase.String())

	if s.stepHook != nil {
		s.stepHook(i, phase)
	}
}

func (s *Sequencer) setPhase(phase timeline.Phase) {
	s.mu.Lock()
	s.state.Phase = phase
	s.mu.Unlock()
	s.phaseLabel.Store(phase.String())
}

func (s *Sequencer) onCarousel(index int) {
	s.carouselAdvances.Add(1)
	if s.carouselHook != nil {
		s.carouselHook(index)
	}
}

// scheduleHidden starts the deferred reveal of the hidden message
func (s *Sequencer) scheduleHidden(st *timeline.Stage, tasks *timeline.Tasks) {
	delay := s.cfg.HiddenDelay
	if delay <= 0 {
		return
	}
	tasks.Go(hiddenTask, func(ctx context.Context) error {
		if err := effect.Wait(ctx, s.clock, delay); err != nil {
			return err
		}
		s.setPhase(timeline.PhaseHiddenReveal)
		if err := timeline.RevealHidden(ctx, st, timeline.HiddenWriter(st, s.cfg.Timings)); err != nil {
			return err
		}
		s.hiddenFlag.Store(true)
		s.log.Info("hidden message revealed")
		return nil
	})
}
