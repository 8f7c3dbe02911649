package svgtree

import "sync"

const (
	maxPooledNodeEntries  = 1 << 15
	maxPooledAttrEntries  = 1 << 15
	maxPooledChildEntries = 1 << 16
	maxPooledCountEntries = 1 << 15
)

var documentPool = sync.Pool{
	New: func() any {
		return &Document{root: InvalidNode}
	},
}

// AcquireDocument returns a reusable document arena.
// The caller owns the document until it is released back to the pool.
func AcquireDocument() *Document {
	// documentPool stores only *Document values by construction.
	doc := documentPool.Get().(*Document)
	doc.reset()
	return doc
}

// ReleaseDocument returns a document to the pool after resetting it.
// After ReleaseDocument, the caller must not retain or use the document.
func ReleaseDocument(doc *Document) {
	if doc == nil {
		return
	}
	doc.reset()
	doc.trimForPool()
	documentPool.Put(doc)
}

func (d *Document) trimForPool() {
	if cap(d.nodes) > maxPooledNodeEntries {
		d.nodes = nil
	}
	if cap(d.attrs) > maxPooledAttrEntries {
		d.attrs = nil
	}
	if cap(d.children) > maxPooledChildEntries {
		d.children = nil
	}
	if cap(d.countsScratch) > maxPooledCountEntries {
		d.countsScratch = nil
	}
}
