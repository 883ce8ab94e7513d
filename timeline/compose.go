package timeline

import (
	"context"

	"github.com/lixenwraith/iron-idols/render"
)

// carouselTask names the owned slideshow task; starting a new one replaces the old
const carouselTask = "carousel"

// ComposeFinal renders the closing composition: lore, contact card with its
// slideshow, and the trailing cursor
// The natural ending and the skip path both produce their output through it
func ComposeFinal(ctx context.Context, st *Stage, w Writer) error {
	if err := ComposeLore(ctx, st, w); err != nil {
		return err
	}
	return ComposeContact(ctx, st, w)
}

// ComposeLore clears the screen and writes the lore paragraph
func ComposeLore(ctx context.Context, st *Stage, w Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// The slideshow writes into the region Clear is about to detach
	if st.Tasks != nil {
		st.Tasks.Cancel(carouselTask)
	}
	st.Root.Clear()
	st.boot, st.runes, st.finalCursor = nil, nil, nil

	lore := st.Root.NewBlock(render.StyleNormal)
	if err := w.Write(ctx, lore, st.Script.Lore); err != nil {
		return err
	}
	return w.Pause(ctx)
}

// ComposeContact appends the contact card below the lore and starts the slideshow
func ComposeContact(ctx context.Context, st *Stage, w Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := st.Script.Contact

	section := st.Root.NewBlock(render.StyleNormal)
	text := section.NewBlock(render.StyleNormal)
	logo := section.NewBlock(render.StyleDim)
	st.startCarousel(logo)

	if err := w.Write(ctx, text, c.Header); err != nil {
		return err
	}
	if err := writeLink(ctx, w, text, c.Email.Href, c.Email.Label); err != nil {
		return err
	}
	if c.PressRelease.Href != "" {
		if err := w.Write(ctx, text, "\n"); err != nil {
			return err
		}
		if err := writeLink(ctx, w, text, c.PressRelease.Href, c.PressRelease.Label); err != nil {
			return err
		}
	}
	if len(c.Socials) > 0 {
		if err := w.Write(ctx, text, "\n\n"); err != nil {
			return err
		}
	}
	for i, l := range c.Socials {
		if i > 0 {
			if err := w.Write(ctx, text, c.Separator); err != nil {
				return err
			}
		}
		if err := writeLink(ctx, w, text, l.Href, l.Label); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	st.Root.Append("\n\n")
	st.finalCursor = st.Root.NewCursor(render.StyleNormal)
	return nil
}

// RevealHidden replaces the trailing cursor with the centered hidden message
func RevealHidden(ctx context.Context, st *Stage, w Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if st.finalCursor != nil {
		st.finalCursor.Remove()
		st.finalCursor = nil
	}
	msg := st.Root.NewBlock(render.StyleHidden)
	msg.SetAlign(render.AlignCenter)
	return w.Write(ctx, msg, st.Script.HiddenMessage)
}

func writeLink(ctx context.Context, w Writer, parent render.Region, href, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.Write(ctx, parent.NewLink(href, render.StyleLink), label)
}

func (st *Stage) startCarousel(holder render.Region) {
	if len(st.Script.Images) == 0 {
		return
	}
	c := NewCarousel(st.Script.Images)
	c.OnAdvance = st.OnCarousel
	// First frame is visible before the task goroutine is scheduled
	c.ShowFirst(holder)
	if st.Tasks == nil {
		return
	}
	clock, timings := st.Clock, st.Carousel
	st.Tasks.Go(carouselTask, func(ctx context.Context) error {
		return c.Run(ctx, clock, holder, timings)
	})
}
