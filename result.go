package svgref

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Reusable identifies the reusable element an element belongs to.
type Reusable struct {
	ID     string `json:"id" yaml:"id"`
	IsMask bool   `json:"isMask" yaml:"isMask"`
	Index  int    `json:"index" yaml:"index"`
}

// Edge is a reference from one element to an identifier.
type Edge struct {
	ID         string `json:"id" yaml:"id"`
	UsedBy     int    `json:"usedBy" yaml:"usedBy"`
	UsedAsMask bool   `json:"usedAsMask" yaml:"usedAsMask"`
}

// Group is the set of element indexes that share membership in one
// identifier's subtree. Groups are shared between elements of a Result and
// are read-only outside the analyzer.
type Group struct {
	id      string
	isMask  bool
	members *roaring.Bitmap
}

func newGroup(id string, isMask bool, owner int) *Group {
	g := &Group{id: id, isMask: isMask, members: roaring.New()}
	g.add(owner)
	return g
}

// ID returns the identifier the group is registered under.
func (g *Group) ID() string {
	if g == nil {
		return ""
	}
	return g.id
}

// IsMask reports whether the group belongs to a mask or clip path.
func (g *Group) IsMask() bool {
	return g != nil && g.isMask
}

func (g *Group) add(index int) {
	g.members.Add(uint32(index))
}

// Contains reports whether index is a member of the group.
func (g *Group) Contains(index int) bool {
	if g == nil || index <= 0 {
		return false
	}
	return g.members.Contains(uint32(index))
}

// Len returns the number of members.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return int(g.members.GetCardinality())
}

// Members returns member indexes in ascending order.
func (g *Group) Members() []int {
	if g == nil {
		return nil
	}
	out := make([]int, 0, g.Len())
	it := g.members.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

type groupView struct {
	ID      string `json:"id" yaml:"id"`
	IsMask  bool   `json:"isMask" yaml:"isMask"`
	Members []int  `json:"members" yaml:"members"`
}

func (g *Group) view() groupView {
	return groupView{ID: g.id, IsMask: g.isMask, Members: g.Members()}
}

// MarshalJSON encodes the group with its member list.
func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.view())
}

// MarshalYAML encodes the group with its member list.
func (g *Group) MarshalYAML() (any, error) {
	return g.view(), nil
}

// Element is one analyzed node of the document tree.
type Element struct {
	Index       int               `json:"index" yaml:"index"`
	Tag         string            `json:"tag" yaml:"tag"`
	Attrs       map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Parent      int               `json:"parent,omitempty" yaml:"parent,omitempty"`
	OwnerID     string            `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	Reusable    *Reusable         `json:"reusable,omitempty" yaml:"reusable,omitempty"`
	BelongsTo   []*Group          `json:"belongsTo,omitempty" yaml:"belongsTo,omitempty"`
	LinksTo     []Edge            `json:"linksTo,omitempty" yaml:"linksTo,omitempty"`
	UsedAsPaint bool              `json:"usedAsPaint" yaml:"usedAsPaint"`
	UsedAsMask  bool              `json:"usedAsMask" yaml:"usedAsMask"`
}

func (e *Element) clone() Element {
	c := *e
	c.Attrs = maps.Clone(e.Attrs)
	c.BelongsTo = slices.Clone(e.BelongsTo)
	c.LinksTo = slices.Clone(e.LinksTo)
	if e.Reusable != nil {
		r := *e.Reusable
		c.Reusable = &r
	}
	return c
}

// Result is the immutable outcome of one analysis run. A nil Result
// behaves as an empty one.
type Result struct {
	g *graph
}

// Len returns the number of analyzed elements.
func (r *Result) Len() int {
	return len(r.table().elements)
}

func (r *Result) table() *graph {
	if r == nil || r.g == nil {
		return emptyGraph
	}
	return r.g
}

var emptyGraph = newGraph(0)

// Element returns a copy of the element with the given 1-based index.
func (r *Result) Element(index int) (Element, bool) {
	el := r.table().element(index)
	if el == nil {
		return Element{}, false
	}
	return el.clone(), true
}

// Elements returns copies of all elements in index order.
func (r *Result) Elements() []Element {
	g := r.table()
	out := make([]Element, len(g.elements))
	for i, el := range g.elements {
		out[i] = el.clone()
	}
	return out
}

// IDs returns a copy of the identifier table (identifier to owner index).
func (r *Result) IDs() map[string]int {
	return maps.Clone(r.table().ids)
}

// Owner returns the index of the element that owns id.
func (r *Result) Owner(id string) (int, bool) {
	index, ok := r.table().ids[id]
	return index, ok
}

// Group returns the belongs-to group registered for id.
func (r *Result) Group(id string) (*Group, bool) {
	g, ok := r.table().groups[id]
	return g, ok
}

// Edges returns all reference edges in discovery order.
func (r *Result) Edges() []Edge {
	return slices.Clone(r.table().edges)
}

// Dangling returns edges naming identifiers no element owns.
func (r *Result) Dangling() []Edge {
	g := r.table()
	var out []Edge
	for _, edge := range g.edges {
		if _, ok := g.ids[edge.ID]; !ok {
			out = append(out, edge)
		}
	}
	return out
}

// Unused returns, sorted, the identifiers whose owner is neither used as
// paint nor as a mask.
func (r *Result) Unused() []string {
	g := r.table()
	var out []string
	for id, index := range g.ids {
		el := g.element(index)
		if !el.UsedAsPaint && !el.UsedAsMask {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Summary counts the main features of a result.
type Summary struct {
	Elements int `json:"elements" yaml:"elements"`
	IDs      int `json:"ids" yaml:"ids"`
	Edges    int `json:"edges" yaml:"edges"`
	Paint    int `json:"paint" yaml:"paint"`
	Mask     int `json:"mask" yaml:"mask"`
	Unused   int `json:"unused" yaml:"unused"`
	Dangling int `json:"dangling" yaml:"dangling"`
}

// Summary returns element, identifier and classification counts.
func (r *Result) Summary() Summary {
	g := r.table()
	s := Summary{
		Elements: len(g.elements),
		IDs:      len(g.ids),
		Edges:    len(g.edges),
		Unused:   len(r.Unused()),
		Dangling: len(r.Dangling()),
	}
	for _, el := range g.elements {
		if el.UsedAsPaint {
			s.Paint++
		}
		if el.UsedAsMask {
			s.Mask++
		}
	}
	return s
}

type resultView struct {
	Elements []Element      `json:"elements" yaml:"elements"`
	IDs      map[string]int `json:"ids" yaml:"ids"`
	Edges    []Edge         `json:"edges" yaml:"edges"`
}

func (r *Result) view() resultView {
	return resultView{Elements: r.Elements(), IDs: r.IDs(), Edges: r.Edges()}
}

// MarshalJSON encodes the elements, identifier table and edges.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.view())
}

// MarshalYAML encodes the elements, identifier table and edges.
func (r *Result) MarshalYAML() (any, error) {
	return r.view(), nil
}
