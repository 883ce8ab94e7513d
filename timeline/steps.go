package timeline

import (
	"context"
	"time"

	"github.com/lixenwraith/iron-idols/effect"
	"github.com/lixenwraith/iron-idols/render"
)

// Step is one entry of the timeline
type Step struct {
	Phase Phase
	// Skippable steps receive the interruptible context; others run to completion
	Skippable bool
	Run       func(ctx context.Context, st *Stage) error
}

// Default builds the presentation timeline from t
// Every step checks ctx before each visible mutation and each wait and returns
// ctx.Err() without further output once it is done
func Default(t Timings) []Step {
	t = t.Scaled()
	return []Step{
		{PhaseBlankCursorWait, true, blankCursorWait(t)},
		{PhaseSystemInitType, true, systemInit(t)},
		{PhaseBootScroll, true, bootScroll(t)},
		{PhaseErrorFreeze, true, errorFreeze(t)},
		{PhaseErrorCorrupt, true, errorCorrupt(t)},
		{PhaseRebootDots, true, rebootDots(t)},
		{PhaseGlitchDump, true, glitchDump(t)},
		{PhaseSkullArt, true, skullArt(t)},
		{PhaseRuneIntro, true, runeIntro(t)},
		{PhaseRuneLabelTypeErase, true, runeLabel(t)},
		{PhaseLoreType, true, loreType(t)},
		{PhaseContactType, true, contactType(t)},
	}
}

func blankCursorWait(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		st.Root.Clear()
		st.Root.NewCursor(render.StyleNormal)
		return effect.Wait(ctx, st.Clock, t.CursorWait)
	}
}

func systemInit(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		st.Root.Clear()
		line := st.Root.NewBlock(render.StyleNormal)
		if err := effect.Type(ctx, st.Clock, line, st.Script.SystemInit, t.SystemInitChar); err != nil {
			return err
		}
		return effect.Wait(ctx, st.Clock, t.SystemInitHold)
	}
}

func bootScroll(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		st.Root.Clear()
		st.boot = st.Root.NewBlock(render.StyleNormal)
		return effect.Lines(ctx, st.Clock, st.boot, st.Script.BootLog, render.StyleNormal, t.BootLine)
	}
}

// errorFreeze pushes ERROR to the top of the log by deleting the oldest line
// until only the blank line and the banner remain
func errorFreeze(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		boot := st.bootLog()
		if err := effect.Lines(ctx, st.Clock, boot, []string{" "}, render.StyleNormal, t.BlankLine); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		banner := boot.NewBlock(render.StyleError)
		banner.Append(st.Script.Error.Banner)

		for boot.ChildCount() > 2 {
			if err := ctx.Err(); err != nil {
				return err
			}
			boot.RemoveOldestChild()
			if err := effect.Wait(ctx, st.Clock, t.LineRemoval); err != nil {
				return err
			}
		}
		return blinkCursor(ctx, st, banner, t.ErrorCursor)
	}
}

func errorCorrupt(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := st.bootLog().NewBlock(render.StyleError)
		line.Append(st.Script.Error.Corrupted)
		return blinkCursor(ctx, st, line, t.CorruptCursor)
	}
}

func rebootDots(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := st.bootLog().NewBlock(render.StyleError)
		if err := effect.Type(ctx, st.Clock, line, st.Script.Error.Rebooting, t.RebootChar); err != nil {
			return err
		}
		return effect.Type(ctx, st.Clock, line, st.Script.Error.Dots, t.RebootDot)
	}
}

func glitchDump(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		lines := st.Gen.Lines()
		if err := effect.Lines(ctx, st.Clock, st.bootLog(), lines, render.StyleError, t.GlitchLine); err != nil {
			return err
		}
		return effect.Wait(ctx, st.Clock, t.GlitchHold)
	}
}

func skullArt(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := effect.Lines(ctx, st.Clock, st.bootLog(), st.Script.Skull, render.StyleError, t.SkullLine); err != nil {
			return err
		}
		return effect.Wait(ctx, st.Clock, t.SkullHold)
	}
}

// runeIntro clears the screen and shows the rune lines with an accented first rune
func runeIntro(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		st.Root.Clear()
		st.boot = nil
		st.runes = st.Root.NewBlock(render.StyleRune)

		for _, line := range st.Script.Runes {
			if err := ctx.Err(); err != nil {
				return err
			}
			b := st.runes.NewBlock(render.StyleRune)
			if clusters := effect.Graphemes(line); len(clusters) > 0 {
				b.AppendStyled(clusters[0], render.StyleRuneAccent)
				b.Append(line[len(clusters[0]):])
			}
			if err := effect.Wait(ctx, st.Clock, t.RuneLine); err != nil {
				return err
			}
		}
		return effect.Wait(ctx, st.Clock, t.RuneHold)
	}
}

// runeLabel shows the centered rune label, backspaces it and types the title in its place
func runeLabel(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		runes := st.runeBlock()
		runes.NewBlock(render.StyleRune).Append(" ")
		label := runes.NewBlock(render.StyleRuneAccent)
		label.SetAlign(render.AlignCenter)
		label.Append(st.Script.RuneLabel)

		if err := effect.Wait(ctx, st.Clock, t.LabelHold); err != nil {
			return err
		}
		if err := effect.Erase(ctx, st.Clock, label, t.LabelErase); err != nil {
			return err
		}
		if err := effect.Wait(ctx, st.Clock, t.LabelGap); err != nil {
			return err
		}
		label.SetStyle(render.StyleTitle)
		if err := effect.Type(ctx, st.Clock, label, st.Script.Title, t.TitleChar); err != nil {
			return err
		}
		return effect.Wait(ctx, st.Clock, t.TitleHold)
	}
}

func loreType(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		return ComposeLore(ctx, st, Typed{Clock: st.Clock, PerChar: t.LoreChar, Hold: t.LoreHold})
	}
}

func contactType(t Timings) func(context.Context, *Stage) error {
	return func(ctx context.Context, st *Stage) error {
		return ComposeContact(ctx, st, Typed{Clock: st.Clock, PerChar: t.ContactChar})
	}
}

// HiddenWriter types the hidden message at the pace of t
func HiddenWriter(st *Stage, t Timings) Writer {
	return Typed{Clock: st.Clock, PerChar: t.Scaled().HiddenChar}
}

// blinkCursor shows a cursor at the end of line for d, then removes it
// On cancellation the cursor stays until the next clear
func blinkCursor(ctx context.Context, st *Stage, line render.Region, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cur := line.NewCursor(render.StyleError)
	if err := effect.Wait(ctx, st.Clock, d); err != nil {
		return err
	}
	cur.Remove()
	return nil
}
