// Package timeline defines the ordered steps of the presentation, the stage
// they share and the closing composition both completion paths render
package timeline

// Phase identifies a state of the presentation
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseBlankCursorWait    Phase = "blank-cursor-wait"
	PhaseSystemInitType     Phase = "system-init-type"
	PhaseBootScroll         Phase = "boot-scroll"
	PhaseErrorFreeze        Phase = "error-freeze"
	PhaseErrorCorrupt       Phase = "error-corrupt"
	PhaseRebootDots         Phase = "reboot-dots"
	PhaseGlitchDump         Phase = "glitch-dump"
	PhaseSkullArt           Phase = "skull-art"
	PhaseRuneIntro          Phase = "rune-intro"
	PhaseRuneLabelTypeErase Phase = "rune-label-typeerase"
	PhaseLoreType           Phase = "lore-type"
	PhaseContactType        Phase = "contact-type"
	PhaseIdleFinal          Phase = "idle-final"
	PhaseHiddenReveal       Phase = "hidden-message-reveal"
)

// Phases lists every phase in presentation order
func Phases() []Phase {
	return []Phase{
		PhaseIdle,
		PhaseBlankCursorWait,
		PhaseSystemInitType,
		PhaseBootScroll,
		PhaseErrorFreeze,
		PhaseErrorCorrupt,
		PhaseRebootDots,
		PhaseGlitchDump,
		PhaseSkullArt,
		PhaseRuneIntro,
		PhaseRuneLabelTypeErase,
		PhaseLoreType,
		PhaseContactType,
		PhaseIdleFinal,
		PhaseHiddenReveal,
	}
}

func (p Phase) String() string {
	return string(p)
}
