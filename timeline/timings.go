package timeline

import "time"

// Timings holds every scripted delay of the timeline
// Durations are multiplied by Scale when steps are built; 0 runs instantly
type Timings struct {
	Scale float64

	CursorWait     time.Duration
	SystemInitChar time.Duration
	SystemInitHold time.Duration
	BootLine       time.Duration
	BlankLine      time.Duration
	LineRemoval    time.Duration
	ErrorCursor    time.Duration
	CorruptCursor  time.Duration
	RebootChar     time.Duration
	RebootDot      time.Duration
	GlitchLine     time.Duration
	GlitchHold     time.Duration
	SkullLine      time.Duration
	SkullHold      time.Duration
	RuneLine       time.Duration
	RuneHold       time.Duration
	LabelHold      time.Duration
	LabelErase     time.Duration
	LabelGap       time.Duration
	TitleChar      time.Duration
	TitleHold      time.Duration
	LoreChar       time.Duration
	LoreHold       time.Duration
	ContactChar    time.Duration
	HiddenChar     time.Duration
}

// DefaultTimings returns the stock pacing at Scale 1
func DefaultTimings() Timings {
	return Timings{
		Scale:          1,
		CursorWait:     3 * time.Second,
		SystemInitChar: 80 * time.Millisecond,
		SystemInitHold: time.Second,
		BootLine:       47 * time.Millisecond,
		BlankLine:      47 * time.Millisecond,
		LineRemoval:    30 * time.Millisecond,
		ErrorCursor:    3 * time.Second,
		CorruptCursor:  2 * time.Second,
		RebootChar:     50 * time.Millisecond,
		RebootDot:      200 * time.Millisecond,
		GlitchLine:     20 * time.Millisecond,
		GlitchHold:     time.Second,
		SkullLine:      30 * time.Millisecond,
		SkullHold:      time.Second,
		RuneLine:       200 * time.Millisecond,
		RuneHold:       time.Second,
		LabelHold:      2 * time.Second,
		LabelErase:     50 * time.Millisecond,
		LabelGap:       300 * time.Millisecond,
		TitleChar:      100 * time.Millisecond,
		TitleHold:      3 * time.Second,
		LoreChar:       30 * time.Millisecond,
		LoreHold:       200 * time.Millisecond,
		ContactChar:    30 * time.Millisecond,
		HiddenChar:     100 * time.Millisecond,
	}
}

// Scaled returns a copy with every duration multiplied by Scale and Scale reset to 1
func (t Timings) Scaled() Timings {
	if t.Scale == 1 {
		return t
	}
	scale := max(t.Scale, 0)
	for _, d := range t.fields() {
		*d = time.Duration(float64(*d) * scale)
	}
	t.Scale = 1
	return t
}

func (t *Timings) fields() []*time.Duration {
	return []*time.Duration{
		&t.CursorWait, &t.SystemInitChar, &t.SystemInitHold,
		&t.BootLine, &t.BlankLine, &t.LineRemoval,
		&t.ErrorCursor, &t.CorruptCursor, &t.RebootChar, &t.RebootDot,
		&t.GlitchLine, &t.GlitchHold, &t.SkullLine, &t.SkullHold,
		&t.RuneLine, &t.RuneHold, &t.LabelHold, &t.LabelErase, &t.LabelGap,
		&t.TitleChar, &t.TitleHold, &t.LoreChar, &t.LoreHold,
		&t.ContactChar, &t.HiddenChar,
	}
}

// CarouselTimings paces the image slideshow
// Not affected by Timings.Scale; the slideshow runs in real time after the sequence
type CarouselTimings struct {
	Initial time.Duration
	Period  time.Duration
}

// DefaultCarouselTimings returns the stock slideshow pacing
func DefaultCarouselTimings() CarouselTimings {
	return CarouselTimings{Initial: 3 * time.Second, Period: 5 * time.Second}
}
