package timeline

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/iron-idols/effect"
	"github.com/lixenwraith/iron-idols/render"
)

// Carousel cycles through the contact card images
type Carousel struct {
	images []string

	mu    sync.Mutex
	index int

	// OnAdvance is called with the new index after every advance; may be nil
	OnAdvance func(index int)
}

// NewCarousel creates a carousel over images, positioned at the first one
func NewCarousel(images []string) *Carousel {
	return &Carousel{images: append([]string(nil), images...)}
}

// Index returns the currently visible image
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Advance moves to the next image, wrapping after the last
func (c *Carousel) Advance() int {
	c.mu.Lock()
	c.index = (c.index + 1) % len(c.images)
	idx := c.index
	c.mu.Unlock()

	if c.OnAdvance != nil {
		c.OnAdvance(idx)
	}
	return idx
}

// ShowFirst replaces holder's content with the first image alone
func (c *Carousel) ShowFirst(holder render.Region) {
	holder.Clear()
	holder.NewImage(c.images[0])
}

// Run swaps holder to a strip of all images after t.Initial, then advances
// the strip every t.Period until ctx is done
// An empty holder first gets the first image
func (c *Carousel) Run(ctx context.Context, clock clockwork.Clock, holder render.Region, t CarouselTimings) error {
	if len(c.images) == 0 {
		return nil
	}
	if holder.ChildCount() == 0 {
		c.ShowFirst(holder)
	}
	if err := effect.Wait(ctx, clock, t.Initial); err != nil {
		return err
	}

	holder.Clear()
	strip := holder.NewStrip()
	for _, ref := range c.images {
		strip.NewImage(ref)
	}
	strip.Translate(c.Index())

	if t.Period <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := clock.NewTicker(t.Period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			strip.Translate(c.Advance())
		}
	}
}
