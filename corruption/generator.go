// Package corruption builds the procedurally randomized error dump shown
// before the rune takeover.
package corruption

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// Palettes
const (
	Symbols    = "█▓▒░╬╣╠╦╩╔╗╚╝║═¤◘○◙♂♀♪♫☼►◄↕‼¶§▬↨↑↓→←∟↔▲▼!@#$%^&*()_+-=[]{}|;:,.<>?/~`"
	HexDigits  = "0123456789ABCDEF"
	Identifier = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"
)

// Layout
const (
	Width = 80

	AddressLines  = 6
	AddressCells  = 12
	AddressChance = 0.3

	ModuleLines = 8
	ModuleCells = 40

	StackLines  = 8
	StackCells  = 30
	StackChance = 0.4

	NoiseLines = 6

	// PrintableMin and PrintableMax bound the ASCII range used by stack-trace cells
	PrintableMin = 33
	PrintableMax = 126
)

// Fixed headings of the dump
const (
	Header        = "ERROR CODE: CRITICAL SYSTEM FAILURE"
	ModuleHeading = "[CORRUPTION DETECTED IN CORE MODULES]"
	StackHeading  = "[STACK TRACE CORRUPTED]"
)

// Terms is the vocabulary module-corruption lines are tagged with
var Terms = []string{
	"RIFT-STRIDER", "ABYSS-ENGINE", "CELESTIAL-EXARCHS", "OMEGA-FALL", "WINGS-OF-FLAME",
	"TITAN-CLASS", "PULSEFORGED", "EXARCH-PROTOCOL", "SKYFALL", "HEAVEN-FALLS",
	"RUST-DUST-MEMORY", "AETHER-CONDUIT", "IRON-FORGED",
}

var (
	symbolRunes     = []rune(Symbols)
	hexRunes        = []rune(HexDigits)
	identifierRunes = []rune(Identifier)

	DoubleRule = strings.Repeat("═", Width)
	SingleRule = strings.Repeat("─", Width)
)

// BlockLines is the number of lines produced by Lines
const BlockLines = 2 + AddressLines + 2 + ModuleLines + 2 + StackLines + 1 + NoiseLines

// Source is the randomness a Generator draws from
// *rand.Rand from math/rand/v2 satisfies it
type Source interface {
	IntN(n int) int
	Float64() float64
}

// Generator produces corrupted error dumps
// Not safe for concurrent use unless the Source is
type Generator struct {
	src Source
}

// NewGenerator creates a generator over src; nil selects a PCG source seeded from the runtime
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{src: src}
}

// Block returns the dump as a single newline-joined string
func (g *Generator) Block() string {
	return strings.Join(g.Lines(), "\n")
}

// Lines returns the dump one line per element, BlockLines long
func (g *Generator) Lines() []string {
	lines := make([]string, 0, BlockLines)

	lines = append(lines, Header, DoubleRule)
	for i := 0; i < AddressLines; i++ {
		lines = append(lines, g.AddressLine())
	}

	lines = append(lines, SingleRule, ModuleHeading)
	for i := 0; i < ModuleLines; i++ {
		lines = append(lines, g.ModuleLine())
	}

	lines = append(lines, SingleRule, StackHeading)
	for i := 0; i < StackLines; i++ {
		lines = append(lines, g.StackLine(i))
	}

	lines = append(lines, DoubleRule)
	for i := 0; i < NoiseLines; i++ {
		lines = append(lines, g.NoiseLine())
	}
	return lines
}

// AddressLine returns "0x" + 8 hex digits + ": " + 12 cells grouped in pairs
func (g *Generator) AddressLine() string {
	var b strings.Builder
	b.WriteString("0x")
	g.writeHex(&b, 8)
	b.WriteString(": ")
	for j := 0; j < AddressCells; j++ {
		if g.src.Float64() < AddressChance {
			b.WriteRune(g.pick(symbolRunes))
		} else {
			b.WriteRune(g.pick(hexRunes))
		}
		if j%2 == 1 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// ModuleLine returns "[TERM] " + 40 cells whose corruption level is drawn per line
func (g *Generator) ModuleLine() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(Terms[g.src.IntN(len(Terms))])
	b.WriteString("] ")

	level := g.src.Float64()
	for j := 0; j < ModuleCells; j++ {
		if g.src.Float64() < level {
			b.WriteRune(g.pick(symbolRunes))
		} else {
			b.WriteRune(g.pick(identifierRunes))
		}
	}
	return b.String()
}

// StackLine returns "#frame 0x" + 16 hex digits + " " + 30 cells
func (g *Generator) StackLine(frame int) string {
	var b strings.Builder
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(frame))
	b.WriteString(" 0x")
	g.writeHex(&b, 16)
	b.WriteByte(' ')
	for j := 0; j < StackCells; j++ {
		if g.src.Float64() < StackChance {
			b.WriteRune(g.pick(symbolRunes))
		} else {
			b.WriteRune(rune(PrintableMin + g.src.IntN(PrintableMax-PrintableMin+1)))
		}
	}
	return b.String()
}

// NoiseLine returns Width pure corruption symbols
func (g *Generator) NoiseLine() string {
	var b strings.Builder
	for i := 0; i < Width; i++ {
		b.WriteRune(g.pick(symbolRunes))
	}
	return b.String()
}

func (g *Generator) writeHex(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		b.WriteRune(g.pick(hexRunes))
	}
}

func (g *Generator) pick(set []rune) rune {
	return set[g.src.IntN(len(set))]
}
