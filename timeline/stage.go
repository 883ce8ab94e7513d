package timeline

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/iron-idols/content"
	"github.com/lixenwraith/iron-idols/corruption"
	"github.com/lixenwraith/iron-idols/render"
)

// Stage is the state shared by the steps of one run
// Steps run sequentially on the timeline goroutine; regions they hand to each
// other live here
type Stage struct {
	Root     render.Region
	Clock    clockwork.Clock
	Script   *content.Script
	Timings  Timings
	Carousel CarouselTimings
	Gen      *corruption.Generator
	Tasks    *Tasks
	Log      *slog.Logger

	// OnCarousel observes every slideshow advance; may be nil
	OnCarousel func(index int)

	boot        render.Region
	runes       render.Region
	finalCursor render.Region
}

// bootLog returns the scrolling log region, creating it when a step runs out of order
func (st *Stage) bootLog() render.Region {
	if st.boot == nil {
		st.boot = st.Root.NewBlock(render.StyleNormal)
	}
	return st.boot
}

func (st *Stage) runeBlock() render.Region {
	if st.runes == nil {
		st.runes = st.Root.NewBlock(render.StyleRune)
	}
	return st.runes
}

func (st *Stage) logger() *slog.Logger {
	if st.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return st.Log
}
