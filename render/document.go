package render

import (
	"strings"
	"sync"
)

// Document is an in-memory Region tree shared by the timeline, its background
// tasks and the presenter
// Every mutation holds the document lock, so concurrent writers targeting
// different regions never interleave inside one operation
type Document struct {
	*Node

	mu      sync.Mutex
	version uint64
	follow  bool
	changed chan struct{}
}

// NewDocument creates an empty document
func NewDocument() *Document {
	d := &Document{changed: make(chan struct{}, 1)}
	d.Node = &Node{doc: d, kind: KindBlock}
	return d
}

// Root returns the top-level region
func (d *Document) Root() Region {
	return d.Node
}

// Changed is signalled (coalesced) after mutations
func (d *Document) Changed() <-chan struct{} {
	return d.changed
}

// Version increments on every mutation
func (d *Document) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Follow reports whether the view is pinned to the bottom
func (d *Document) Follow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.follow
}

// touch must be called with mu held
func (d *Document) touch() {
	d.version++
	select {
	case d.changed <- struct{}{}:
	default:
	}
}

// Node is a Region inside a Document
type Node struct {
	doc    *Document
	parent *Node
	kind   Kind
	style  Style
	align  Align

	text   string // KindText
	href   string // KindLink
	ref    string // KindImage
	offset int    // KindStrip

	children []*Node
}

// Kind returns the node type
func (n *Node) Kind() Kind {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.kind
}

// Href returns the link target of a link node
func (n *Node) Href() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.href
}

func (n *Node) Append(text string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.appendLocked(text, n.style)
}

func (n *Node) AppendStyled(text string, style Style) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.appendLocked(text, style)
}

func (n *Node) appendLocked(text string, style Style) {
	if text == "" {
		return
	}
	if n.kind == KindText {
		n.text += text
		n.doc.touch()
		return
	}
	if last := n.lastChild(); last != nil && last.kind == KindText && last.style == style {
		last.text += text
	} else {
		n.addChild(&Node{kind: KindText, style: style, text: text})
	}
	n.doc.touch()
}

func (n *Node) SetText(text string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if n.kind == KindText {
		n.text = text
		n.doc.touch()
		return
	}
	n.detachChildren()
	if text != "" {
		n.addChild(&Node{kind: KindText, style: n.style, text: text})
	}
	n.doc.touch()
}

func (n *Node) Text() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	if n.kind == KindText {
		b.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.collectText(b)
	}
}

func (n *Node) SetStyle(style Style) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	old := n.style
	n.style = style
	// Runs written in the old block style follow the block
	for _, c := range n.children {
		if c.kind == KindText && c.style == old {
			c.style = style
		}
	}
	n.doc.touch()
}

func (n *Node) SetAlign(align Align) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.align = align
	n.doc.touch()
}

func (n *Node) NewBlock(style Style) Region {
	return n.newChild(&Node{kind: KindBlock, style: style})
}

func (n *Node) NewInline(style Style) Region {
	return n.newChild(&Node{kind: KindInline, style: style})
}

func (n *Node) NewLink(href string, style Style) Region {
	return n.newChild(&Node{kind: KindLink, style: style, href: href})
}

func (n *Node) NewImage(ref string) Region {
	return n.newChild(&Node{kind: KindImage, style: StyleDim, ref: ref})
}

func (n *Node) NewCursor(style Style) Region {
	return n.newChild(&Node{kind: KindCursor, style: style})
}

func (n *Node) NewStrip() Region {
	return n.newChild(&Node{kind: KindStrip, style: StyleDim})
}

func (n *Node) newChild(c *Node) *Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.addChild(c)
	n.doc.touch()
	return c
}

func (n *Node) Translate(index int) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.offset = index
	n.doc.touch()
}

func (n *Node) RemoveOldestChild() bool {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if len(n.children) == 0 {
		return false
	}
	first := n.children[0]
	first.parent = nil
	n.children[0] = nil
	n.children = n.children[1:]
	n.doc.touch()
	return true
}

func (n *Node) ChildCount() int {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return len(n.children)
}

func (n *Node) Remove() {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if n == n.doc.Node {
		n.clearLocked()
		return
	}
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	n.doc.touch()
}

func (n *Node) Clear() {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.clearLocked()
}

func (n *Node) clearLocked() {
	if n.kind == KindText {
		n.text = ""
	}
	n.detachChildren()
	if n == n.doc.Node {
		n.doc.follow = false
	}
	n.doc.touch()
}

func (n *Node) ScrollToBottom() {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if !n.doc.follow {
		n.doc.follow = true
		n.doc.touch()
	}
}

func (n *Node) lastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

func (n *Node) addChild(c *Node) {
	c.doc = n.doc
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) detachChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}
