package sequencer

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/iron-idols/content"
	"github.com/lixenwraith/iron-idols/render"
	"github.com/lixenwraith/iron-idols/status"
	"github.com/lixenwraith/iron-idols/timeline"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// instantConfig runs every step without waiting; slideshow and hidden message
// only move when a test advances the fake clock
func instantConfig() Config {
	t := timeline.DefaultTimings()
	t.Scale = 0
	return Config{
		Script:   content.Default(),
		Timings:  t,
		Carousel: timeline.DefaultCarouselTimings(),
	}
}

type harness struct {
	seq   *Sequencer
	doc   *render.Document
	clock *clockwork.FakeClock
	reg   *status.Registry
}

func newHarness(t *testing.T, cfg Config, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		doc:   render.NewDocument(),
		clock: clockwork.NewFakeClock(),
		reg:   status.NewRegistry(),
	}
	opts = append([]Option{WithClock(h.clock), WithStatus(h.reg)}, opts...)
	h.seq = New(cfg, opts...)
	t.Cleanup(h.seq.Close)
	return h
}

// naturalComposition runs the full timeline uninterrupted and returns its output
func naturalComposition(t *testing.T) (string, []render.Line, int) {
	t.Helper()
	h := newHarness(t, instantConfig())
	root, log := newSpy(h.doc.Root())
	require.NoError(t, h.seq.Run(testContext(t), root))
	assert.False(t, h.seq.State().Interrupted)
	return h.doc.PlainText(), h.doc.Layout(80), log.count()
}

func TestRun_Natural(t *testing.T) {
	h := newHarness(t, instantConfig())
	require.NoError(t, h.seq.Run(testContext(t), h.doc.Root()))

	st := h.seq.State()
	assert.Equal(t, timeline.PhaseIdleFinal, st.Phase)
	assert.True(t, st.Completed)
	assert.False(t, st.Interrupted)
	assert.Equal(t, len(timeline.Default(instantConfig().Timings))-1, st.StepIndex)
	assert.Equal(t, int64(12), h.reg.Counters.Get(MetricStepsCompleted).Load())
	assert.True(t, h.reg.Flags.Get(MetricCompleted).Load())
	assert.Equal(t, "idle-final", h.reg.Labels.Get(MetricPhase).Load())
	assert.Equal(t, st.RunID.String(), h.reg.Labels.Get(MetricRunID).Load())

	text := h.doc.PlainText()
	assert.True(t, strings.HasPrefix(text, "Iron Idols is mythology"))
	assert.True(t, strings.HasSuffix(text, "_"))
	select {
	case <-h.seq.Done():
	default:
		t.Fatal("Done not closed after Run")
	}
}

func TestInterrupt_AtStartMatchesNaturalRun(t *testing.T) {
	natural, naturalLines, _ := naturalComposition(t)

	h := newHarness(t, instantConfig())
	root, log := newSpy(h.doc.Root())
	h.seq.Interrupt()
	require.NoError(t, h.seq.Run(testContext(t), root))

	assert.Equal(t, natural, h.doc.PlainText())
	assert.Equal(t, naturalLines, h.doc.Layout(80))
	assert.Zero(t, h.reg.Counters.Get(MetricStepsCompleted).Load())

	// Nothing from the boot or error sequence was ever written
	script := content.Default()
	all := strings.Join(log.written(), "")
	for _, artifact := range []string{script.SystemInit, script.BootLog[0], script.Error.Banner, script.Error.Rebooting, script.RuneLabel} {
		assert.NotContains(t, all, artifact)
	}
}

func TestInterrupt_BeforeRunEntersNoStep(t *testing.T) {
	var entered atomic.Int32
	h := newHarness(t, instantConfig(), WithStepHook(func(int, timeline.Phase) {
		entered.Add(1)
	}))
	h.seq.Interrupt()
	require.NoError(t, h.seq.Run(testContext(t), h.doc.Root()))

	st := h.seq.State()
	assert.Zero(t, entered.Load())
	assert.Equal(t, -1, st.StepIndex)
	assert.Equal(t, timeline.PhaseIdleFinal, st.Phase)
}

func TestInterrupt_AtEveryStepBoundary(t *testing.T) {
	natural, naturalLines, _ := naturalComposition(t)
	steps := len(timeline.Default(instantConfig().Timings))

	for i := 0; i < steps; i++ {
		t.Run(timeline.Phases()[i+1].String(), func(t *testing.T) {
			var h *harness
			h = newHarness(t, instantConfig(), WithStepHook(func(idx int, _ timeline.Phase) {
				if idx == i {
					h.seq.Interrupt()
				}
			}))
			require.NoError(t, h.seq.Run(testContext(t), h.doc.Root()))

			st := h.seq.State()
			assert.True(t, st.Interrupted)
			assert.Equal(t, i, st.StepIndex)
			assert.Equal(t, int64(i), h.reg.Counters.Get(MetricStepsCompleted).Load())
			assert.Equal(t, natural, h.doc.PlainText())
			assert.Equal(t, naturalLines, h.doc.Layout(80))
		})
	}
}

func TestInterrupt_MidStep(t *testing.T) {
	natural, naturalLines, total := naturalComposition(t)
	require.Greater(t, total, 100)

	points := []int{1, 2, 3, 50, total / 4, total / 2, total - 200, total - 10, total - 1}
	for k := 5; k < total; k += total / 23 {
		points = append(points, k)
	}
	for _, k := range points {
		h := newHarness(t, instantConfig())
		root, log := newSpy(h.doc.Root())
		log.onAppend = func(n int) {
			if n == k {
				h.seq.Interrupt()
			}
		}
		require.NoError(t, h.seq.Run(testContext(t), root))

		require.True(t, h.seq.State().Interrupted, "append %d", k)
		assert.Equal(t, natural, h.doc.PlainText(), "append %d", k)
		assert.Equal(t, naturalLines, h.doc.Layout(80), "append %d", k)
	}
}

func TestInterrupt_Idempotent(t *testing.T) {
	once := newHarness(t, instantConfig())
	once.seq.Interrupt()
	require.NoError(t, once.seq.Run(testContext(t), once.doc.Root()))

	twice := newHarness(t, instantConfig())
	twice.seq.Interrupt()
	twice.seq.Interrupt()
	require.NoError(t, twice.seq.Run(testContext(t), twice.doc.Root()))
	twice.seq.Interrupt()

	assert.Equal(t, once.doc.PlainText(), twice.doc.PlainText())
	assert.Equal(t, once.seq.State().Phase, twice.seq.State().Phase)
	assert.Equal(t, once.seq.State().Interrupted, twice.seq.State().Interrupted)
	assert.Equal(t, int64(3), twice.reg.Counters.Get(MetricInterruptCalls).Load())
	assert.True(t, twice.reg.Flags.Get(MetricInterrupted).Load())
}

func TestInterrupt_AfterCompletionIsNoop(t *testing.T) {
	h := newHarness(t, instantConfig())
	require.NoError(t, h.seq.Run(testContext(t), h.doc.Root()))
	before := h.doc.PlainText()
	version := h.doc.Version()

	h.seq.Interrupt()

	assert.False(t, h.seq.State().Interrupted)
	assert.False(t, h.reg.Flags.Get(MetricInterrupted).Load())
	assert.Equal(t, version, h.doc.Version())
	assert.Equal(t, before, h.doc.PlainText())
}

func TestInterrupt_DuringWait(t *testing.T) {
	natural, _, _ := naturalComposition(t)

	cfg := instantConfig()
	cfg.Timings = timeline.DefaultTimings()
	h := newHarness(t, cfg)
	ctx := testContext(t)

	errc := make(chan error, 1)
	go func() { errc <- h.seq.Run(ctx, h.doc.Root()) }()

	// Blank cursor wait, then two characters of the system init line
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(cfg.Timings.CursorWait)
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(cfg.Timings.SystemInitChar)
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, timeline.PhaseSystemInitType, h.seq.State().Phase)
	assert.Equal(t, "Sy", h.doc.PlainText())

	h.seq.Interrupt()
	require.NoError(t, <-errc)
	assert.Equal(t, natural, h.doc.PlainText())
	assert.Equal(t, int64(1), h.reg.Counters.Get(MetricStepsCompleted).Load())
}

func TestRun_ParentCancelSkipsFinal(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	h := newHarness(t, instantConfig(), WithStepHook(func(idx int, _ timeline.Phase) {
		if idx == 3 {
			cancel()
		}
	}))

	err := h.seq.Run(ctx, h.doc.Root())
	assert.ErrorIs(t, err, context.Canceled)

	st := h.seq.State()
	assert.False(t, st.Completed)
	assert.False(t, st.Interrupted)
	assert.Equal(t, timeline.PhaseErrorFreeze, st.Phase)
	assert.NotContains(t, h.doc.PlainText(), "Iron Idols is mythology")
}

func TestRun_OnlyOnce(t *testing.T) {
	h := newHarness(t, instantConfig())
	require.NoError(t, h.seq.Run(testContext(t), h.doc.Root()))
	assert.ErrorIs(t, h.seq.Run(testContext(t), h.doc.Root()), ErrAlreadyStarted)

	closed := newHarness(t, instantConfig())
	closed.seq.Close()
	assert.ErrorIs(t, closed.seq.Run(testContext(t), closed.doc.Root()), ErrClosed)
}

func TestRun_NonSkippableStepFinishes(t *testing.T) {
	var ranSecond atomic.Bool
	var sawCancel atomic.Bool
	var h *harness

	cfg := instantConfig()
	cfg.Steps = []timeline.Step{
		{Phase: timeline.PhaseBlankCursorWait, Skippable: false, Run: func(ctx context.Context, st *timeline.Stage) error {
			h.seq.Interrupt()
			sawCancel.Store(ctx.Err() != nil)
			st.Root.NewBlock(render.StyleNormal).Append("atomic step")
			return nil
		}},
		{Phase: timeline.PhaseSystemInitType, Skippable: true, Run: func(ctx context.Context, st *timeline.Stage) error {
			ranSecond.Store(true)
			return nil
		}},
	}
	h = newHarness(t, cfg)
	require.NoError(t, h.seq.Run(testContext(t), h.doc.Root()))

	assert.False(t, sawCancel.Load())
	assert.False(t, ranSecond.Load())
	assert.Equal(t, int64(1), h.reg.Counters.Get(MetricStepsCompleted).Load())
	assert.NotContains(t, h.doc.PlainText(), "atomic step")
	assert.True(t, strings.HasPrefix(h.doc.PlainText(), "Iron Idols is mythology"))
}

func TestHiddenMessage_RevealedAfterDelay(t *testing.T) {
	cfg := instantConfig()
	cfg.HiddenDelay = 5 * time.Minute
	h := newHarness(t, cfg)
	ctx := testContext(t)

	h.seq.Interrupt()
	require.NoError(t, h.seq.Run(ctx, h.doc.Root()))
	assert.NotContains(t, h.doc.PlainText(), cfg.Script.HiddenMessage)

	// Carousel initial delay and the hidden message delay
	require.NoError(t, h.clock.BlockUntilContext(ctx, 2))
	h.clock.Advance(cfg.HiddenDelay)

	require.Eventually(t, func() bool {
		return h.reg.Flags.Get(MetricHiddenRevealed).Load()
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, timeline.PhaseHiddenReveal, h.seq.State().Phase)

	lines := h.doc.Layout(0)
	last := lines[len(lines)-1]
	assert.Equal(t, cfg.Script.HiddenMessage, last.String())
	assert.Equal(t, render.AlignCenter, last.Align)
	for _, line := range lines {
		for _, c := range line.Cells {
			assert.False(t, c.Cursor)
		}
	}
}

func TestHiddenMessage_CancelledByClose(t *testing.T) {
	cfg := instantConfig()
	cfg.HiddenDelay = time.Minute
	h := newHarness(t, cfg)
	ctx := testContext(t)

	require.NoError(t, h.seq.Run(ctx, h.doc.Root()))
	require.NoError(t, h.clock.BlockUntilContext(ctx, 2))
	h.seq.Close()

	h.clock.Advance(time.Hour)
	assert.False(t, h.reg.Flags.Get(MetricHiddenRevealed).Load())
	assert.NotContains(t, h.doc.PlainText(), cfg.Script.HiddenMessage)
}

func TestCarousel_AdvancesAfterRun(t *testing.T) {
	advanced := make(chan int, 1)
	cfg := instantConfig()
	h := newHarness(t, cfg, WithCarouselHook(func(i int) { advanced <- i }))
	ctx := testContext(t)

	require.NoError(t, h.seq.Run(ctx, h.doc.Root()))

	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(cfg.Carousel.Initial)
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))

	var seen []int
	for i := 0; i < 4; i++ {
		h.clock.Advance(cfg.Carousel.Period)
		select {
		case idx := <-advanced:
			seen = append(seen, idx)
		case <-ctx.Done():
			t.Fatal("carousel did not advance")
		}
	}
	assert.Equal(t, []int{1, 2, 0, 1}, seen)
	assert.Equal(t, int64(4), h.reg.Counters.Get(MetricCarouselAdvances).Load())
}
