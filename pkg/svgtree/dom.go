package svgtree

const (
	// XLinkNamespace is the namespace of xlink:href and friends.
	XLinkNamespace = "http://www.w3.org/1999/xlink"
	// XMLNSNamespace is the namespace used for namespace declarations.
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
	// XMLNamespace is the namespace bound to the xml prefix.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
)

// NodeID identifies an element in the document arena.
type NodeID int

// InvalidNode represents an invalid node reference.
const InvalidNode NodeID = -1

// Document is a compact arena for a parsed SVG document.
// Elements are stored in document order, so NodeID order is traversal order.
type Document struct {
	nodes         []node
	attrs         []Attr
	children      []NodeID
	countsScratch []int
	root          NodeID
}

type node struct {
	namespace   string
	local       string
	attrsOff    int
	attrsLen    int
	childrenOff int
	childrenLen int
	parent      NodeID
}

// Attr exposes attribute name, namespace, and value.
type Attr struct {
	namespace string
	prefix    string
	local     string
	value     string
}

// NewAttr builds an attribute value; namespace may be empty.
func NewAttr(namespace, local, value string) Attr {
	return Attr{namespace: namespace, local: local, value: value}
}

// Name returns the attribute name as written in SVG markup. Only
// attributes without a namespace use the bare local name; xlink, xml and
// xmlns attributes get their conventional prefix, and any other namespace
// is qualified by its declared prefix, or by the namespace itself when no
// prefix is known.
func (a Attr) Name() string {
	switch a.namespace {
	case "":
		return a.local
	case XLinkNamespace, "xlink":
		return "xlink:" + a.local
	case XMLNamespace, "xml":
		return "xml:" + a.local
	case XMLNSNamespace:
		if a.local == "xmlns" {
			return "xmlns"
		}
		return "xmlns:" + a.local
	}
	if a.prefix != "" {
		return a.prefix + ":" + a.local
	}
	return a.namespace + ":" + a.local
}

func (a Attr) NamespaceURI() string {
	return a.namespace
}

func (a Attr) LocalName() string {
	return a.local
}

func (a Attr) Value() string {
	return a.value
}

func (d *Document) reset() {
	if d == nil {
		return
	}
	d.nodes = d.nodes[:0]
	d.attrs = d.attrs[:0]
	d.children = d.children[:0]
	d.countsScratch = d.countsScratch[:0]
	d.root = InvalidNode
}

// Root returns the document root element.
func (d *Document) Root() NodeID {
	if d == nil || len(d.nodes) == 0 {
		return InvalidNode
	}
	return d.root
}

// Len returns the number of elements in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.nodes)
}

func (d *Document) validNode(id NodeID) bool {
	return d != nil && id >= 0 && int(id) < len(d.nodes)
}

// Parent returns the parent node of id, or InvalidNode for the root.
func (d *Document) Parent(id NodeID) NodeID {
	if !d.validNode(id) {
		return InvalidNode
	}
	return d.nodes[id].parent
}

// Ancestors returns the parent chain of id, nearest first.
func (d *Document) Ancestors(id NodeID) []NodeID {
	var chain []NodeID
	for p := d.Parent(id); p != InvalidNode; p = d.Parent(p) {
		chain = append(chain, p)
	}
	return chain
}

// NamespaceURI returns the namespace URI for the given node.
func (d *Document) NamespaceURI(id NodeID) string {
	if !d.validNode(id) {
		return ""
	}
	return d.nodes[id].namespace
}

// LocalName returns the tag name for the given node.
func (d *Document) LocalName(id NodeID) string {
	if !d.validNode(id) {
		return ""
	}
	return d.nodes[id].local
}

// Attributes returns a read-only view of the element attributes.
// The returned slice aliases the document arena; do not modify or retain it.
func (d *Document) Attributes(id NodeID) []Attr {
	if !d.validNode(id) {
		return nil
	}
	n := d.nodes[id]
	if n.attrsLen == 0 {
		return nil
	}
	return d.attrs[n.attrsOff : n.attrsOff+n.attrsLen]
}

// Children returns a read-only view of the element children.
// The returned slice aliases the document arena; do not modify or retain it.
func (d *Document) Children(id NodeID) []NodeID {
	if !d.validNode(id) {
		return nil
	}
	n := d.nodes[id]
	if n.childrenLen == 0 {
		return nil
	}
	return d.children[n.childrenOff : n.childrenOff+n.childrenLen]
}

// GetAttribute returns the value of the attribute with the given markup name
// (for example "fill" or "xlink:href").
func (d *Document) GetAttribute(id NodeID, name string) string {
	for _, attr := range d.Attributes(id) {
		if attr.Name() == name {
			return attr.value
		}
	}
	return ""
}

// HasAttribute reports whether the element has an attribute with the given markup name.
func (d *Document) HasAttribute(id NodeID, name string) bool {
	for _, attr := range d.Attributes(id) {
		if attr.Name() == name {
			return true
		}
	}
	return false
}

// Walk visits every element below and including start in document order.
// Returning false from fn skips the element's subtree.
func (d *Document) Walk(start NodeID, fn func(id NodeID) bool) {
	if !d.validNode(start) {
		return
	}
	if !fn(start) {
		return
	}
	for _, child := range d.Children(start) {
		d.Walk(child, fn)
	}
}
