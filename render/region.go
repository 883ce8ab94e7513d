// Package render holds the output surface the presentation writes into
package render

// Style selects the palette entry a node is drawn with
type Style uint8

const (
	StyleNormal Style = iota
	StyleError
	StyleRune
	StyleRuneAccent
	StyleTitle
	StyleLink
	StyleHidden
	StyleDim
	styleCount
)

// Styles lists every style in palette order
func Styles() []Style {
	out := make([]Style, 0, styleCount)
	for s := Style(0); s < styleCount; s++ {
		out = append(out, s)
	}
	return out
}

var styleNames = [styleCount]string{"normal", "error", "rune", "rune_accent", "title", "link", "hidden", "dim"}

// String returns the config key of the style
func (s Style) String() string {
	if s >= styleCount {
		return "unknown"
	}
	return styleNames[s]
}

// Align is the horizontal placement of the lines a block produces
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
)

// Kind identifies the node type inside a Document
type Kind uint8

const (
	KindBlock Kind = iota
	KindInline
	KindText
	KindLink
	KindImage
	KindCursor
	KindStrip
)

// Region is an opaque handle to a contiguous part of the output surface
// Blocks start on a new line; inline content, links, text and cursors flow
// Appended text joins the trailing text run when the last child is one
type Region interface {
	// Append adds text in the region's own style
	Append(text string)
	// AppendStyled adds text in the given style
	AppendStyled(text string, style Style)
	// SetText replaces all content with a single text run
	SetText(text string)
	// Text returns the concatenated text of the region
	Text() string
	SetStyle(style Style)
	SetAlign(align Align)

	NewBlock(style Style) Region
	NewInline(style Style) Region
	NewLink(href string, style Style) Region
	NewImage(ref string) Region
	NewCursor(style Style) Region
	// NewStrip creates a horizontal image strip showing one child at a time
	NewStrip() Region
	// Translate moves a strip so the child at index is visible
	Translate(index int)

	// RemoveOldestChild drops the first child, reporting whether one existed
	RemoveOldestChild() bool
	ChildCount() int
	// Remove detaches the region from its parent
	Remove()
	// Clear drops all content and resets scrolling
	Clear()
	// ScrollToBottom pins the view to the newest output
	ScrollToBottom()
}
