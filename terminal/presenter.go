package terminal

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/iron-idols/core"
	"github.com/lixenwraith/iron-idols/render"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	cursorBlink   = 500 * time.Millisecond
	// SkipHint is drawn bottom-right until the sequence completes
	SkipHint = ">> SKIP"
)

// Presenter draws a document onto a tcell screen
type Presenter struct {
	screen  tcell.Screen
	doc     *render.Document
	palette Palette
	log     *slog.Logger

	hint     atomic.Bool
	cursorOn bool
	blinkAt  time.Time
	drawnRev uint64
}

// NewPresenter creates a presenter; the screen must already be initialized
func NewPresenter(screen tcell.Screen, doc *render.Document, palette Palette, log *slog.Logger) *Presenter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Presenter{
		screen:   screen,
		doc:      doc,
		palette:  palette,
		log:      log,
		cursorOn: true,
	}
}

// ShowHint toggles the skip hint
func (p *Presenter) ShowHint(show bool) {
	p.hint.Store(show)
}

// Run draws every frame the document changed or a cursor blinked and
// dispatches key presses until ctx is done or a quit key is pressed
// onSkip is called for every skip key; done closing hides the skip hint
func (p *Presenter) Run(ctx context.Context, onSkip func(), done <-chan struct{}) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	stop := make(chan struct{})
	defer close(stop)
	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			select {
			case eventChan <- ev:
			case <-stop:
				return
			}
		}
	})

	p.blinkAt = time.Now()
	p.Draw()
	for {
		select {
		case <-ctx.Done():
			return

		case <-done:
			done = nil
			p.ShowHint(false)
			p.Draw()

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				p.screen.Sync()
				p.Draw()
			case *tcell.EventKey:
				switch Classify(ev) {
				case ActionSkip:
					p.log.Debug("skip key")
					if onSkip != nil {
						onSkip()
					}
				case ActionQuit:
					p.log.Debug("quit key")
					return
				}
			}

		case now := <-ticker.C:
			blinked := false
			if now.Sub(p.blinkAt) >= cursorBlink {
				p.cursorOn = !p.cursorOn
				p.blinkAt = now
				blinked = true
			}
			if blinked || p.doc.Version() != p.drawnRev {
				p.Draw()
			}
		}
	}
}

// Draw renders the whole document
// When the view follows output the newest lines stay visible, otherwise the top is shown
func (p *Presenter) Draw() {
	rev := p.doc.Version()
	w, h := p.screen.Size()
	p.screen.SetStyle(p.palette.Base())
	p.screen.Clear()

	lines := p.doc.Layout(w)
	start := 0
	if p.doc.Follow() && len(lines) > h {
		start = len(lines) - h
	}
	for row := 0; row < h && start+row < len(lines); row++ {
		p.drawLine(row, w, lines[start+row])
	}
	if p.hint.Load() {
		p.drawHint(w, h)
	}

	p.screen.Show()
	p.drawnRev = rev
}

func (p *Presenter) drawLine(row, width int, line render.Line) {
	x := 0
	if line.Align == render.AlignCenter && line.Width < width {
		x = (width - line.Width) / 2
	}
	for _, c := range line.Cells {
		cw := max(c.Width, 1)
		if x+cw > width {
			return
		}
		style := p.palette.Style(c.Style)
		if c.Href != "" {
			style = style.Underline(true)
		}
		text := c.Text
		if c.Cursor && !p.cursorOn {
			text = " "
		}
		runes := []rune(text)
		if len(runes) == 0 {
			continue
		}
		p.screen.SetContent(x, row, runes[0], runes[1:], style)
		x += cw
	}
}

func (p *Presenter) drawHint(width, height int) {
	x := width - runewidth.StringWidth(SkipHint) - 1
	if x < 0 || height == 0 {
		return
	}
	style := p.palette.Style(render.StyleDim).Reverse(true)
	for _, r := range SkipHint {
		p.screen.SetContent(x, height-1, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
