// Package markup parses loosely-formed HTML into a navigable node tree and
// offers predicate-based search over it.
//
// Nodes live in an arena owned by the Document. Parent and child links are
// arena indices, so the tree holds no pointer cycles; the root has no parent.
package markup

import (
	"slices"
	"strings"
)

// RootTag is the tag name of the synthetic document root.
const RootTag = "document"

const noParent = -1

// Document owns every node produced by a parse.
type Document struct {
	nodes []*Node
}

// Node is one element. Text lives in ordered segments interleaved with children.
type Node struct {
	Tag   string
	Attrs map[string]string

	doc      *Document
	id       int
	parent   int
	children []int
	segments []segment
}

// segment is either a run of text or a reference to a child node.
// child is 0 for text: the root is never anyone's child.
type segment struct {
	text  string
	child int
}

func newDocument() *Document {
	d := &Document{}
	d.add(RootTag, nil, noParent)
	return d
}

// add appends a node to the arena and links it under parent.
func (d *Document) add(tag string, attrs map[string]string, parent int) *Node {
	n := &Node{
		Tag:    tag,
		Attrs:  attrs,
		doc:    d,
		id:     len(d.nodes),
		parent: parent,
	}
	d.nodes = append(d.nodes, n)
	if parent != noParent {
		p := d.nodes[parent]
		p.children = append(p.children, n.id)
		p.segments = append(p.segments, segment{child: n.id})
	}
	return n
}

// Root returns the synthetic document node.
func (d *Document) Root() *Node {
	return d.nodes[0]
}

// Len returns the number of nodes including the root.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	if n.parent == noParent {
		return nil
	}
	return n.doc.nodes[n.parent]
}

// Children returns child elements in document order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	for i, id := range n.children {
		out[i] = n.doc.nodes[id]
	}
	return out
}

// Attr returns an attribute value and whether it was present.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// Classes returns the whitespace-separated entries of the class attribute.
func (n *Node) Classes() []string {
	return strings.Fields(n.Attrs["class"])
}

// HasClass reports whether the class attribute contains name.
func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.Classes(), name)
}

// TextContent concatenates all descendant text in document order.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, s := range n.segments {
		if s.child > 0 {
			n.doc.nodes[s.child].writeText(b)
			continue
		}
		b.WriteString(s.text)
	}
}

func (n *Node) appendText(text string) {
	if text == "" {
		return
	}
	n.segments = append(n.segments, segment{text: text})
}
