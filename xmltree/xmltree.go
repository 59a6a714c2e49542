// Package xmltree parses an XML document into a positioned element tree.
//
// The tree keeps the 1-based source line of every start tag so that callers
// can produce diagnostics pointing back into the document. Vendor-prefixed
// names are preserved verbatim: an element written as <viam:joint> reads
// back with the tag "viam:joint" whether or not the prefix is bound to a
// namespace URI.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// An Attr is a single element attribute. Namespace declarations are not
// part of an element's attribute list.
type Attr struct {
	Name  string
	Value string
}

// An Element is one XML element: its tag, attributes, trimmed character
// data, ordered child elements, and the line of its start tag.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element
	Line     int
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// FirstChild returns the first child element with the given tag, or nil.
func (e *Element) FirstChild(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ParseString parses an XML document held in memory and returns its root
// element.
func ParseString(doc string) (*Element, error) {
	return Parse([]byte(doc))
}

// Parse parses an XML document and returns its root element. Scanner
// failures are returned as *xml.SyntaxError and carry the offending line.
// Content following the document element is ignored.
func Parse(doc []byte) (*Element, error) {
	p := &parser{data: doc}
	p.indexLines()
	return p.run()
}

// nsBinding records one xmlns declaration so that prefixes resolved away by
// the decoder can be restored.
type nsBinding struct {
	uri    string
	prefix string
	depth  int
}

type parser struct {
	data       []byte
	lineStarts []int
	bindings   []nsBinding
	depth      int
}

func (p *parser) indexLines() {
	p.lineStarts = append(p.lineStarts, 0)
	for i, b := range p.data {
		if b == '\n' {
			p.lineStarts = append(p.lineStarts, i+1)
		}
	}
}

// lineAt returns the 1-based line containing the byte offset.
func (p *parser) lineAt(offset int64) int {
	return sort.Search(len(p.lineStarts), func(i int) bool {
		return int64(p.lineStarts[i]) > offset
	})
}

func (p *parser) run() (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(p.data))
	var root *Element
	var stack []*Element
	for {
		// InputOffset before the read is the position of the upcoming
		// token; surrounding character data arrives as its own tokens, so
		// for a start tag this is the offset of its '<'.
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			if root == nil {
				return nil, errors.New("no root element found")
			}
			return root, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p.depth++
			p.bind(t.Attr)
			el := &Element{
				Tag:  p.canonicalName(t.Name),
				Line: p.lineAt(offset),
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				el.Attrs = append(el.Attrs, Attr{Name: p.canonicalName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			el := stack[len(stack)-1]
			el.Text = strings.TrimSpace(el.Text)
			stack = stack[:len(stack)-1]
			p.unbind()
			p.depth--
			if len(stack) == 0 {
				return root, nil
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
}

// bind records the xmlns declarations on the element being entered.
func (p *parser) bind(attrs []xml.Attr) {
	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns":
			p.bindings = append(p.bindings, nsBinding{uri: a.Value, prefix: a.Name.Local, depth: p.depth})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			p.bindings = append(p.bindings, nsBinding{uri: a.Value, prefix: "", depth: p.depth})
		}
	}
}

func (p *parser) unbind() {
	for len(p.bindings) > 0 && p.bindings[len(p.bindings)-1].depth == p.depth {
		p.bindings = p.bindings[:len(p.bindings)-1]
	}
}

// canonicalName restores the prefixed form of a name. The decoder resolves
// bound prefixes to their namespace URI; unbound prefixes pass through in
// the name's space verbatim.
func (p *parser) canonicalName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	for i := len(p.bindings) - 1; i >= 0; i-- {
		if p.bindings[i].uri == name.Space {
			if p.bindings[i].prefix == "" {
				return name.Local
			}
			return p.bindings[i].prefix + ":" + name.Local
		}
	}
	return name.Space + ":" + name.Local
}
