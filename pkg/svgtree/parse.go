package svgtree

import (
	"cmp"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"unicode"
)

const (
	defaultMaxDepth    = 256
	defaultMaxAttrs    = 256
	defaultMaxElements = 1 << 20
)

// Limits bounds the size of documents accepted by the parser.
// Zero fields use the package defaults.
type Limits struct {
	MaxDepth    int
	MaxAttrs    int
	MaxElements int
}

func (l Limits) resolved() (Limits, error) {
	if l.MaxDepth < 0 {
		return Limits{}, fmt.Errorf("svg max depth must be >= 0")
	}
	if l.MaxAttrs < 0 {
		return Limits{}, fmt.Errorf("svg max attrs must be >= 0")
	}
	if l.MaxElements < 0 {
		return Limits{}, fmt.Errorf("svg max elements must be >= 0")
	}
	return Limits{
		MaxDepth:    cmp.Or(l.MaxDepth, defaultMaxDepth),
		MaxAttrs:    cmp.Or(l.MaxAttrs, defaultMaxAttrs),
		MaxElements: cmp.Or(l.MaxElements, defaultMaxElements),
	}, nil
}

// ErrLimitExceeded is returned when a document exceeds a parse limit.
var ErrLimitExceeded = errors.New("svg limit exceeded")

// Parse builds a Document from SVG markup.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{root: InvalidNode}
	if err := ParseInto(r, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseInto builds a Document into an existing arena using default limits.
func ParseInto(r io.Reader, doc *Document) error {
	return ParseIntoWithLimits(r, doc, Limits{})
}

// ParseIntoWithLimits builds a Document into an existing arena.
// On error the document is left empty.
func ParseIntoWithLimits(r io.Reader, doc *Document, limits Limits) (err error) {
	if doc == nil {
		return fmt.Errorf("nil svg document")
	}
	lim, err := limits.resolved()
	if err != nil {
		return err
	}

	doc.reset()
	defer func() {
		if err != nil {
			doc.reset()
		}
	}()

	decoder := xml.NewDecoder(r)
	decoder.Strict = true

	var stack []NodeID
	var scope prefixScope
	var attrsScratch []Attr
	rootClosed := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("svg read: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return fmt.Errorf("unexpected element %s after document end", t.Name.Local)
			}
			if len(stack) >= lim.MaxDepth {
				return fmt.Errorf("%w: depth %d", ErrLimitExceeded, lim.MaxDepth)
			}
			if len(t.Attr) > lim.MaxAttrs {
				return fmt.Errorf("%w: %d attributes on %s", ErrLimitExceeded, len(t.Attr), t.Name.Local)
			}
			if len(doc.nodes) >= lim.MaxElements {
				return fmt.Errorf("%w: %d elements", ErrLimitExceeded, lim.MaxElements)
			}

			parent := InvalidNode
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			scope.push(t.Attr)
			attrsScratch = scope.convertAttrs(attrsScratch[:0], t.Attr)
			id := doc.addNode(t.Name.Space, t.Name.Local, attrsScratch, parent)
			if parent == InvalidNode {
				doc.root = id
			}
			stack = append(stack, id)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
				scope.pop()
				if len(stack) == 0 && doc.root != InvalidNode {
					rootClosed = true
				}
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(t) {
					return fmt.Errorf("unexpected character data outside root element")
				}
			}
		}
	}

	if doc.root == InvalidNode {
		return io.ErrUnexpectedEOF
	}

	doc.buildChildren()
	return nil
}

func isIgnorableOutsideRoot(data []byte) bool {
	for _, r := range string(data) {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

type nsBinding struct {
	uri    string
	prefix string
}

// prefixScope tracks the prefixes declared by the open elements so that
// foreign attributes keep the prefix they were written with.
type prefixScope struct {
	bindings []nsBinding
	marks    []int
}

func (s *prefixScope) push(attrs []xml.Attr) {
	s.marks = append(s.marks, len(s.bindings))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			s.bindings = append(s.bindings, nsBinding{uri: a.Value, prefix: a.Name.Local})
		}
	}
}

func (s *prefixScope) pop() {
	if len(s.marks) == 0 {
		return
	}
	s.bindings = s.bindings[:s.marks[len(s.marks)-1]]
	s.marks = s.marks[:len(s.marks)-1]
}

func (s *prefixScope) prefix(uri string) string {
	for i := len(s.bindings) - 1; i >= 0; i-- {
		if s.bindings[i].uri == uri {
			return s.bindings[i].prefix
		}
	}
	return ""
}

func (s *prefixScope) convertAttrs(dst []Attr, xmlAttrs []xml.Attr) []Attr {
	for _, a := range xmlAttrs {
		attr := Attr{namespace: a.Name.Space, local: a.Name.Local, value: a.Value}
		switch {
		case attr.namespace == "xmlns" || (attr.namespace == "" && attr.local == "xmlns"):
			attr.namespace = XMLNSNamespace
		case attr.namespace != "":
			attr.prefix = s.prefix(attr.namespace)
		}
		dst = append(dst, attr)
	}
	return dst
}
