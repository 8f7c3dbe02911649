package svgref

import (
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/svgref/errors"
	"github.com/jacoelho/svgref/pkg/svgtree"
)

// Tree is the navigable document the analyzer walks. Style-to-attribute
// conversion must already have run; only attributes are inspected.
type Tree interface {
	Root() svgtree.NodeID
	Children(id svgtree.NodeID) []svgtree.NodeID
	LocalName(id svgtree.NodeID) string
	Attributes(id svgtree.NodeID) []svgtree.Attr
}

type sizedTree interface {
	Len() int
}

// Analyze builds the reference graph of tree and classifies every element
// as used for paint and/or as a mask. The tree is not modified.
func Analyze(tree Tree) (*Result, error) {
	if tree == nil {
		return nil, errors.NewStructural(errors.ErrNoRoot, "nil tree")
	}
	capacity := 0
	if sized, ok := tree.(sizedTree); ok {
		capacity = sized.Len()
	}

	g := newGraph(capacity)
	if err := g.build(tree); err != nil {
		return nil, err
	}
	g.propagate()
	return &Result{g: g}, nil
}

// AnalyzeReader parses SVG markup and analyzes it.
func AnalyzeReader(r io.Reader) (*Result, error) {
	return AnalyzeReaderWithOptions(r, NewOptions())
}

// AnalyzeReaderWithOptions parses SVG markup under the given limits and analyzes it.
func AnalyzeReaderWithOptions(r io.Reader, opts Options) (*Result, error) {
	if r == nil {
		return nil, errors.NewStructural(errors.ErrParse, "nil reader")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	doc := svgtree.AcquireDocument()
	defer svgtree.ReleaseDocument(doc)

	if err := svgtree.ParseIntoWithLimits(r, doc, opts.limits()); err != nil {
		return nil, fmt.Errorf("analyze: %w", errors.NewStructural(errors.ErrParse, err.Error()))
	}
	return Analyze(doc)
}

// AnalyzeFile parses and analyzes the SVG file at path.
func AnalyzeFile(path string) (*Result, error) {
	return AnalyzeFileWithOptions(path, NewOptions())
}

// AnalyzeFileWithOptions parses and analyzes the SVG file at path with explicit limits.
func AnalyzeFileWithOptions(path string, opts Options) (res *Result, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open svg file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close svg file %s: %w", path, closeErr)
		}
	}()

	res, err = AnalyzeReaderWithOptions(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
