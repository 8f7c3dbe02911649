package svgref

import (
	"fmt"

	"github.com/jacoelho/svgref/pkg/svgtree"
)

// Options configures document parsing limits for the reader helpers.
// The zero value uses the svgtree defaults.
type Options struct {
	maxDepth    int
	maxAttrs    int
	maxElements int
}

// NewOptions returns a default, valid options value.
func NewOptions() Options {
	return Options{}
}

// WithMaxDepth sets the maximum element nesting depth (0 uses default).
func (o Options) WithMaxDepth(value int) Options {
	o.maxDepth = value
	return o
}

// WithMaxAttrs sets the maximum number of attributes per element (0 uses default).
func (o Options) WithMaxAttrs(value int) Options {
	o.maxAttrs = value
	return o
}

// WithMaxElements sets the maximum number of elements per document (0 uses default).
func (o Options) WithMaxElements(value int) Options {
	o.maxElements = value
	return o
}

// Validate validates options values.
func (o Options) Validate() error {
	if o.maxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0")
	}
	if o.maxAttrs < 0 {
		return fmt.Errorf("max attrs must be >= 0")
	}
	if o.maxElements < 0 {
		return fmt.Errorf("max elements must be >= 0")
	}
	return nil
}

func (o Options) limits() svgtree.Limits {
	return svgtree.Limits{
		MaxDepth:    o.maxDepth,
		MaxAttrs:    o.maxAttrs,
		MaxElements: o.maxElements,
	}
}
