package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Layout constants
const (
	ImageBoxWidth = 28
	CursorGlyph   = "_"
	stripActive   = "●"
	stripIdle     = "○"
)

// Cell is one grapheme cluster placed on a line
type Cell struct {
	Text   string
	Width  int
	Style  Style
	Cursor bool
	Href   string
}

// Line is one row of laid-out output
type Line struct {
	Cells []Cell
	Align Align
	Width int
}

// String returns the line's text with cursors drawn as CursorGlyph
func (l Line) String() string {
	var b strings.Builder
	for _, c := range l.Cells {
		b.WriteString(c.Text)
	}
	return b.String()
}

// Layout flattens the document into lines, wrapping at width (0 disables wrapping)
func (d *Document) Layout(width int) []Line {
	d.mu.Lock()
	defer d.mu.Unlock()

	l := &layouter{width: width}
	for _, c := range d.Node.children {
		l.node(c, AlignLeft)
	}
	l.flush(AlignLeft)
	return l.lines
}

// PlainText renders the document without wrapping, one line per row
func (d *Document) PlainText() string {
	lines := d.Layout(0)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.String()
	}
	return strings.Join(out, "\n")
}

type layouter struct {
	width    int
	lines    []Line
	cur      []Cell
	curWidth int
}

func (l *layouter) node(n *Node, align Align) {
	switch n.kind {
	case KindText:
		l.text(n.text, n.style, "", align)
	case KindCursor:
		l.cell(Cell{Text: CursorGlyph, Width: 1, Style: n.style, Cursor: true}, align)
	case KindInline:
		for _, c := range n.children {
			l.node(c, align)
		}
	case KindLink:
		for _, c := range n.children {
			if c.kind == KindText {
				l.text(c.text, StyleLink, n.href, align)
			}
		}
	case KindImage:
		l.flush(align)
		l.image(n.ref, "", align)
	case KindStrip:
		l.flush(align)
		l.strip(n, align)
	default:
		if n.align != AlignLeft {
			align = n.align
		}
		l.flush(align)
		for _, c := range n.children {
			l.node(c, align)
		}
		l.flush(align)
	}
}

func (l *layouter) text(s string, style Style, href string, align Align) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		if cluster == "\n" || cluster == "\r\n" {
			l.newline(align)
			continue
		}
		l.cell(Cell{Text: cluster, Width: runewidth.StringWidth(cluster), Style: style, Href: href}, align)
	}
}

func (l *layouter) cell(c Cell, align Align) {
	if l.width > 0 && l.curWidth+c.Width > l.width && len(l.cur) > 0 {
		l.newline(align)
	}
	l.cur = append(l.cur, c)
	l.curWidth += c.Width
}

// newline ends the current line even when empty
func (l *layouter) newline(align Align) {
	l.lines = append(l.lines, Line{Cells: l.cur, Align: align, Width: l.curWidth})
	l.cur = nil
	l.curWidth = 0
}

// flush ends the current line only when it holds cells
func (l *layouter) flush(align Align) {
	if len(l.cur) > 0 {
		l.newline(align)
	}
}

func (l *layouter) image(ref, footer string, align Align) {
	inner := ImageBoxWidth - 2
	if l.width > 0 && l.width < ImageBoxWidth {
		inner = max(l.width-2, 1)
	}
	label := runewidth.Truncate(ref, inner-2, "…")
	pad := inner - 2 - runewidth.StringWidth(label)

	rows := []string{
		"┌" + strings.Repeat("─", inner) + "┐",
		"│ " + label + strings.Repeat(" ", max(pad, 0)) + " │",
		"└" + strings.Repeat("─", inner) + "┘",
	}
	if footer != "" {
		rows = append(rows, footer)
	}
	for _, row := range rows {
		l.text(row, StyleDim, "", align)
		l.newline(align)
	}
}

func (l *layouter) strip(n *Node, align Align) {
	var images []*Node
	for _, c := range n.children {
		if c.kind == KindImage {
			images = append(images, c)
		}
	}
	if len(images) == 0 {
		return
	}
	idx := n.offset % len(images)
	if idx < 0 {
		idx += len(images)
	}

	dots := make([]string, len(images))
	for i := range images {
		dots[i] = stripIdle
		if i == idx {
			dots[i] = stripActive
		}
	}
	l.image(images[idx].ref, strings.Join(dots, " "), align)
}
