package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/iron-idols/render"
)

func TestCarousel_CyclesModuloN(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	doc := render.NewDocument()
	holder := doc.NewBlock(render.StyleDim)
	fc := clockwork.NewFakeClock()
	timings := DefaultCarouselTimings()

	c := NewCarousel([]string{"1.jpg", "2.jpg", "3.jpg"})
	advanced := make(chan int, 1)
	c.OnAdvance = func(i int) { advanced <- i }

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, fc, holder, timings) }()

	// Initial delay: the first image alone
	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	assert.Equal(t, 3, len(doc.Layout(0)))
	assert.Contains(t, doc.PlainText(), "1.jpg")
	fc.Advance(timings.Initial)

	// Ticker registered: the strip is up at index 0
	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	assert.Contains(t, doc.PlainText(), "● ○ ○")

	var seen []int
	for i := 0; i < 5; i++ {
		fc.Advance(timings.Period)
		select {
		case idx := <-advanced:
			seen = append(seen, idx)
		case <-ctx.Done():
			t.Fatal("carousel did not advance")
		}
	}
	assert.Equal(t, []int{1, 2, 0, 1, 2}, seen)
	assert.Equal(t, 2, c.Index())
	require.Eventually(t, func() bool {
		lines := doc.Layout(0)
		return lines[len(lines)-1].String() == "○ ○ ●"
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestCarousel_AdvanceWraps(t *testing.T) {
	c := NewCarousel([]string{"a", "b"})
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 1, c.Advance())
	assert.Equal(t, 0, c.Advance())
}

func TestCarousel_CancelledBeforeStrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := render.NewDocument()
	holder := doc.NewBlock(render.StyleDim)
	c := NewCarousel([]string{"a.jpg", "b.jpg"})

	err := c.Run(ctx, clockwork.NewFakeClock(), holder, DefaultCarouselTimings())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, doc.PlainText(), "a.jpg")
	assert.NotContains(t, doc.PlainText(), "●")
}
