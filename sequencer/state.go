package sequencer

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/iron-idols/timeline"
)

// State is a snapshot of a run
type State struct {
	Phase timeline.Phase
	// StepIndex is the index of the current or last entered step, -1 before the first
	StepIndex   int
	Interrupted bool
	Completed   bool
	StartedAt   time.Time
	RunID       uuid.UUID
}

// Metric keys published to the status registry
const (
	MetricStepsCompleted   = "sequencer.steps_completed"
	MetricInterruptCalls   = "sequencer.interrupt_calls"
	MetricInterrupted      = "sequencer.interrupted"
	MetricCompleted        = "sequencer.completed"
	MetricHiddenRevealed   = "sequencer.hidden_revealed"
	MetricPhase            = "sequencer.phase"
	MetricRunID            = "sequencer.run_id"
	MetricElapsed          = "sequencer.elapsed"
	MetricCarouselAdvances = "carousel.advances"
)
