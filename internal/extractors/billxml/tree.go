package billxml

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// node is a minimal element tree. Only what extraction needs is kept.
type node struct {
	name     xml.Name
	attrs    []xml.Attr
	text     string // whitespace-trimmed character data before the first child
	children []*node
}

// document is a parsed file: its root and every non-blank text node in
// document order, each with internal whitespace collapsed.
type document struct {
	root *node
	text []string
}

// parse builds the element tree with a strict decoder. HTML named entities
// such as &mdash; are accepted since bill DTDs declare them.
func parse(r io.Reader) (*document, error) {
	d := xml.NewDecoder(r)
	d.Strict = true
	d.Entity = xml.HTMLEntity

	var (
		doc   document
		stack []*node
	)

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name, attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if doc.root != nil {
					return nil, errors.New("multiple root elements")
				}
				doc.root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			n := stack[len(stack)-1]
			n.text = strings.TrimSpace(n.text)
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			current := stack[len(stack)-1]
			if len(current.children) == 0 {
				current.text += string(t)
			}

			fields := strings.Fields(string(t))
			if len(fields) > 0 {
				doc.text = append(doc.text, strings.Join(fields, " "))
			}
		}
	}

	if doc.root == nil {
		return nil, errors.New("no root element")
	}
	return &doc, nil
}

// attr returns the value of an unqualified attribute, or "".
func (n *node) attr(local string) string {
	for _, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// walk visits n and its descendants in document order.
func (n *node) walk(fn func(*node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// find returns the first strict descendant matching pred.
func (n *node) find(pred func(*node) bool) *node {
	for _, c := range n.children {
		if pred(c) {
			return c
		}
		if found := c.find(pred); found != nil {
			return found
		}
	}
	return nil
}
