// Package effect implements the cancellable text effects every timeline step
// is built from. Each function checks the context before each visible
// mutation and before each wait, so a cancelled run stops at the next unit
package effect

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rivo/uniseg"

	"github.com/lixenwraith/iron-idols/render"
)

// Wait suspends for d on clock or until ctx is done
// A non-positive d only polls ctx
func Wait(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// Type reveals text into r one grapheme cluster at a time, waiting perChar after each
// On cancellation the already revealed prefix stays in place
func Type(ctx context.Context, clock clockwork.Clock, r render.Region, text string, perChar time.Duration) error {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Append(g.Str())
		if err := Wait(ctx, clock, perChar); err != nil {
			return err
		}
	}
	return nil
}

// Erase removes r's text one grapheme cluster at a time from the end, waiting perChar after each
func Erase(ctx context.Context, clock clockwork.Clock, r render.Region, perChar time.Duration) error {
	clusters := Graphemes(r.Text())
	for i := len(clusters) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.SetText(strings.Join(clusters[:i], ""))
		if err := Wait(ctx, clock, perChar); err != nil {
			return err
		}
	}
	return nil
}

// Lines appends each line as its own block in style, scrolling to the newest
// line and waiting perLine after each
func Lines(ctx context.Context, clock clockwork.Clock, r render.Region, lines []string, style render.Style, perLine time.Duration) error {
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.NewBlock(style).Append(line)
		r.ScrollToBottom()
		if err := Wait(ctx, clock, perLine); err != nil {
			return err
		}
	}
	return nil
}

// Graphemes splits s into user-perceived characters
func Graphemes(s string) []string {
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
