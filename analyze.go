package svgref

import (
	"strings"

	"github.com/jacoelho/svgref/errors"
	"github.com/jacoelho/svgref/internal/svgattr"
	"github.com/jacoelho/svgref/pkg/svgtree"
)

// graph is the side table built over a tree: elements by index,
// identifier ownership, belongs-to groups and reference edges.
type graph struct {
	elements []*Element
	ids      map[string]int
	groups   map[string]*Group
	edges    []Edge
}

func newGraph(capacity int) *graph {
	return &graph{
		elements: make([]*Element, 0, capacity),
		ids:      make(map[string]int),
		groups:   make(map[string]*Group),
	}
}

func (g *graph) element(index int) *Element {
	if g == nil || index <= 0 || index > len(g.elements) {
		return nil
	}
	return g.elements[index-1]
}

type frame struct {
	node   svgtree.NodeID
	parent *Element
}

// build walks the tree once, top-down, assigning indexes in traversal order.
func (g *graph) build(tree Tree) error {
	root := tree.Root()
	if root == svgtree.InvalidNode {
		return errors.NewStructural(errors.ErrNoRoot, "document has no root element")
	}

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		el, err := g.visit(tree, top.node, top.parent)
		if err != nil {
			return err
		}

		children := tree.Children(top.node)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], parent: el})
		}
	}
	return nil
}

func (g *graph) visit(tree Tree, node svgtree.NodeID, parent *Element) (*Element, error) {
	attrs := tree.Attributes(node)
	el := &Element{
		Index: len(g.elements) + 1,
		Tag:   tree.LocalName(node),
		Attrs: make(map[string]string, len(attrs)),
	}
	for _, attr := range attrs {
		el.Attrs[attr.Name()] = attr.Value()
	}
	g.elements = append(g.elements, el)

	if parent == nil {
		// the root is always rendered
		el.UsedAsPaint = true
		if id := el.Attrs["id"]; id != "" {
			if err := g.addID(el, id, false); err != nil {
				return nil, err
			}
		}
	} else {
		el.Parent = parent.Index
		if err := g.classify(el, parent); err != nil {
			return nil, err
		}
	}

	if err := g.discoverReferences(el, attrs); err != nil {
		return nil, err
	}
	return el, nil
}

func (g *graph) classify(el, parent *Element) error {
	switch {
	case svgattr.IsMaskTag(el.Tag):
		return g.addReusable(el, true)
	case svgattr.IsPaletteTag(el.Tag):
		return g.addReusable(el, false)
	case svgattr.IsDefsTag(parent.Tag):
		// symbol without a symbol tag
		return g.addReusable(el, false)
	case svgattr.IsDefsTag(el.Tag):
		return nil
	}

	el.UsedAsPaint = parent.UsedAsPaint
	el.UsedAsMask = parent.UsedAsMask

	if parent.Reusable != nil {
		if el.Reusable != nil {
			return errors.NewStructuralf(errors.ErrNestedReusable,
				"element registered as reusable %q inherits reusable %q", el.Reusable.ID, parent.Reusable.ID).
				At(el.Tag, el.Index)
		}
		r := *parent.Reusable
		el.Reusable = &r
	}

	for _, group := range parent.BelongsTo {
		group.add(el.Index)
		el.BelongsTo = append(el.BelongsTo, group)
	}

	if id := el.Attrs["id"]; id != "" {
		return g.addID(el, id, false)
	}
	return nil
}

func (g *graph) addReusable(el *Element, isMask bool) error {
	id := el.Attrs["id"]
	if id == "" {
		return errors.NewStructuralf(errors.ErrReusableMissingID,
			"definition element does not have id").At(el.Tag, el.Index)
	}
	// the nearest reusable wins over one inherited from an ancestor
	el.Reusable = &Reusable{ID: id, IsMask: isMask, Index: el.Index}
	return g.addID(el, id, isMask)
}

func (g *graph) addID(el *Element, id string, isMask bool) error {
	if owner, ok := g.ids[id]; ok {
		return errors.NewStructuralf(errors.ErrDuplicateID,
			"duplicate id, first used by element #%d", owner).At(el.Tag, el.Index).WithID(id)
	}
	g.ids[id] = el.Index
	el.OwnerID = id
	group := newGroup(id, isMask, el.Index)
	g.groups[id] = group
	el.BelongsTo = append(el.BelongsTo, group)
	return nil
}

func (g *graph) discoverReferences(el *Element, attrs []svgtree.Attr) error {
	if uses, required := svgattr.HrefRule(el.Tag); uses {
		href, ok := el.Attrs["href"]
		if !ok {
			href, ok = el.Attrs["xlink:href"]
		}
		switch {
		case !ok:
			if required {
				return errors.NewStructural(errors.ErrMissingHref, "missing href").At(el.Tag, el.Index)
			}
		case len(href) < 2 || href[0] != '#':
			return errors.NewStructuralf(errors.ErrInvalidHref, "invalid link %q", href).At(el.Tag, el.Index)
		default:
			g.addEdge(el, strings.TrimSpace(href[1:]), false)
		}
	}

	for _, attr := range attrs {
		id, ok := svgattr.ParseURLRef(attr.Value())
		if !ok || id == "" {
			continue
		}
		switch svgattr.CapacityOf(attr.Name()) {
		case svgattr.Mask:
			g.addEdge(el, id, true)
		case svgattr.Paint:
			g.addEdge(el, id, false)
		}
	}
	return nil
}

func (g *graph) addEdge(el *Element, id string, usedAsMask bool) {
	edge := Edge{ID: id, UsedBy: el.Index, UsedAsMask: usedAsMask}
	g.edges = append(g.edges, edge)
	el.LinksTo = append(el.LinksTo, edge)
}
