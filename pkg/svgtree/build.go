package svgtree

// Builder assembles a Document in document order without parsing markup.
// It is used by callers that already hold a tree from another parser.
type Builder struct {
	doc   *Document
	stack []NodeID
}

// NewBuilder returns a builder for a fresh document.
func NewBuilder() *Builder {
	return &Builder{doc: &Document{root: InvalidNode}}
}

// Start opens an element as a child of the currently open element.
func (b *Builder) Start(tag string, attrs ...Attr) *Builder {
	parent := InvalidNode
	if len(b.stack) > 0 {
		parent = b.stack[len(b.stack)-1]
	}
	id := b.doc.addNode("", tag, attrs, parent)
	if parent == InvalidNode && b.doc.root == InvalidNode {
		b.doc.root = id
	}
	b.stack = append(b.stack, id)
	return b
}

// End closes the currently open element.
func (b *Builder) End() *Builder {
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return b
}

// Document finalizes and returns the built document.
func (b *Builder) Document() *Document {
	b.doc.buildChildren()
	return b.doc
}

func (d *Document) addNode(namespace, local string, attrs []Attr, parent NodeID) NodeID {
	id := NodeID(len(d.nodes))
	off := len(d.attrs)
	d.attrs = append(d.attrs, attrs...)
	d.nodes = append(d.nodes, node{
		namespace: namespace,
		local:     local,
		attrsOff:  off,
		attrsLen:  len(attrs),
		parent:    parent,
	})
	return id
}

// buildChildren lays out child lists contiguously per parent. Nodes are
// appended in document order, so a single pass keeps sibling order.
func (d *Document) buildChildren() {
	counts := d.acquireCountsScratch()
	for i := range d.nodes {
		if p := d.nodes[i].parent; p != InvalidNode {
			counts[p]++
		}
	}

	total := assignOffsets(counts, func(i, off, count int) {
		d.nodes[i].childrenOff = off
		d.nodes[i].childrenLen = count
	})
	if cap(d.children) < total {
		d.children = make([]NodeID, total)
	} else {
		d.children = d.children[:total]
	}

	for i := range d.nodes {
		p := d.nodes[i].parent
		if p == InvalidNode {
			continue
		}
		d.children[counts[p]] = NodeID(i)
		counts[p]++
	}
}

func (d *Document) acquireCountsScratch() []int {
	counts := d.countsScratch
	if cap(counts) < len(d.nodes) {
		counts = make([]int, len(d.nodes))
	} else {
		counts = counts[:len(d.nodes)]
		clear(counts)
	}
	d.countsScratch = counts
	return counts
}

func assignOffsets(counts []int, setOffset func(i, off, count int)) int {
	total := 0
	for i := range counts {
		count := counts[i]
		setOffset(i, total, count)
		counts[i] = total
		total += count
	}
	return total
}
