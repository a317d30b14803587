// Package view renders the project dashboard as an abstract render tree.
// The tree is independent of any UI framework; html.go serialises it to
// HTML and the HTTP layer can also hand it out as JSON.
package view

import "strings"

type Kind string

const (
	ElementNode Kind = "element"
	TextNode    Kind = "text"
)

// Node is one element or text run of the render tree.
type Node struct {
	Kind     Kind              `json:"kind"`
	Tag      string            `json:"tag,omitempty"`
	Class    string            `json:"class,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Plot     *Plot             `json:"plot,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// El builds an element node.
func El(tag, class string, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Tag: tag, Class: class, Children: children}
}

// Text builds a text node.
func Text(s string) *Node {
	return &Node{Kind: TextNode, Text: s}
}

// Attr sets an attribute and returns n for chaining.
func (n *Node) Attr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Paper is the shared card container.
func Paper(class string, children ...*Node) *Node {
	return El("div", strings.TrimSpace("paper "+class), children...)
}

// HasClass reports whether class is one of n's classes.
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Class) {
		if c == class {
			return true
		}
	}
	return false
}

// Find returns every node in the tree, n included, for which match is true,
// in document order.
func (n *Node) Find(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if cur == nil {
			return
		}
		if match(cur) {
			out = append(out, cur)
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindClass returns the element nodes carrying class.
func (n *Node) FindClass(class string) []*Node {
	return n.Find(func(c *Node) bool { return c.Kind == ElementNode && c.HasClass(class) })
}

// FindTag returns the element nodes with the given tag.
func (n *Node) FindTag(tag string) []*Node {
	return n.Find(func(c *Node) bool { return c.Kind == ElementNode && c.Tag == tag })
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	var b strings.Builder
	for _, t := range n.Find(func(c *Node) bool { return c.Kind == TextNode }) {
		b.WriteString(t.Text)
	}
	return b.String()
}
