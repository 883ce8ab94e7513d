package sequencer

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/iron-idols/status"
	"github.com/lixenwraith/iron-idols/timeline"
)

// Option configures a Sequencer
type Option func(*Sequencer)

// WithClock sets the clock every wait of the run goes through
func WithClock(c clockwork.Clock) Option {
	return func(s *Sequencer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger for run and task events
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStatus publishes run metrics into r
func WithStatus(r *status.Registry) Option {
	return func(s *Sequencer) {
		if r != nil {
			s.status = r
		}
	}
}

// WithStepHook calls fn on the run goroutine as each step is entered, before it starts
func WithStepHook(fn func(index int, phase timeline.Phase)) Option {
	return func(s *Sequencer) {
		s.stepHook = fn
	}
}

// WithCarouselHook calls fn after every slideshow advance
func WithCarouselHook(fn func(index int)) Option {
	return func(s *Sequencer) {
		s.carouselHook = fn
	}
}
