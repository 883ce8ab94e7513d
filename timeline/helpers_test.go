package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/iron-idols/content"
	"github.com/lixenwraith/iron-idols/corruption"
	"github.com/lixenwraith/iron-idols/render"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// newStage builds a stage over a fresh document with a fake clock
// The slideshow never advances unless the test moves the clock
func newStage(t *testing.T) (*Stage, *render.Document, *clockwork.FakeClock) {
	t.Helper()
	doc := render.NewDocument()
	fc := clockwork.NewFakeClock()
	tasks := NewTasks(context.Background(), nil)
	t.Cleanup(tasks.Close)

	return &Stage{
		Root:     doc.Root(),
		Clock:    fc,
		Script:   content.Default(),
		Timings:  DefaultTimings(),
		Carousel: DefaultCarouselTimings(),
		Gen:      corruption.NewGenerator(nil),
		Tasks:    tasks,
	}, doc, fc
}

func instantTimings() Timings {
	t := DefaultTimings()
	t.Scale = 0
	return t
}
