package timeline

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/iron-idols/effect"
	"github.com/lixenwraith/iron-idols/render"
)

// Writer decides how composition text reaches a region
type Writer interface {
	// Write puts text into r
	Write(ctx context.Context, r render.Region, text string) error
	// Pause holds between composition parts
	Pause(ctx context.Context) error
}

// Instant writes whole strings at once and never waits
type Instant struct{}

func (Instant) Write(ctx context.Context, r render.Region, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Append(text)
	return nil
}

func (Instant) Pause(ctx context.Context) error {
	return ctx.Err()
}

// Typed writes through the typing effect
type Typed struct {
	Clock   clockwork.Clock
	PerChar time.Duration
	Hold    time.Duration
}

func (w Typed) Write(ctx context.Context, r render.Region, text string) error {
	return effect.Type(ctx, w.Clock, r, text, w.PerChar)
}

func (w Typed) Pause(ctx context.Context) error {
	return effect.Wait(ctx, w.Clock, w.Hold)
}
