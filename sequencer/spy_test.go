package sequencer

import (
	"sync"

	"github.com/lixenwraith/iron-idols/render"
)

// spyLog records every text written through a spy tree
type spyLog struct {
	mu       sync.Mutex
	texts    []string
	appends  int
	onAppend func(n int)
}

func (l *spyLog) add(text string) {
	l.mu.Lock()
	l.texts = append(l.texts, text)
	l.appends++
	n, fn := l.appends, l.onAppend
	l.mu.Unlock()
	if fn != nil {
		fn(n)
	}
}

func (l *spyLog) written() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.texts...)
}

func (l *spyLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appends
}

// spy wraps a region so every descendant created through it is recorded too
type spy struct {
	render.Region
	log *spyLog
}

func newSpy(r render.Region) (spy, *spyLog) {
	l := &spyLog{}
	return spy{Region: r, log: l}, l
}

func (s spy) wrap(r render.Region) render.Region {
	return spy{Region: r, log: s.log}
}

func (s spy) Append(text string) {
	s.log.add(text)
	s.Region.Append(text)
}

func (s spy) AppendStyled(text string, style render.Style) {
	s.log.add(text)
	s.Region.AppendStyled(text, style)
}

func (s spy) SetText(text string) {
	s.log.add(text)
	s.Region.SetText(text)
}

func (s spy) NewBlock(style render.Style) render.Region  { return s.wrap(s.Region.NewBlock(style)) }
func (s spy) NewInline(style render.Style) render.Region { return s.wrap(s.Region.NewInline(style)) }
func (s spy) NewImage(ref string) render.Region          { return s.wrap(s.Region.NewImage(ref)) }
func (s spy) NewCursor(style render.Style) render.Region { return s.wrap(s.Region.NewCursor(style)) }
func (s spy) NewStrip() render.Region                    { return s.wrap(s.Region.NewStrip()) }

func (s spy) NewLink(href string, style render.Style) render.Region {
	return s.wrap(s.Region.NewLink(href, style))
}
