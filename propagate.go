package svgref

import "github.com/jacoelho/svgref/internal/worklist"

// propagate runs the paint pass and then the mask pass. It returns the number
// of flags set; a second call on the same graph returns 0.
func (g *graph) propagate() int {
	if len(g.ids) == 0 {
		return 0
	}
	return g.propagatePaint() + g.propagateMask()
}

// propagatePaint spreads paint usage along paint edges from rendered
// elements. Mask edges, and any edge leaving a mask-used element, mark
// their target as mask-used instead.
func (g *graph) propagatePaint() int {
	changed := 0
	f := worklist.New(g.indexes(func(el *Element) bool { return el.UsedAsPaint }))
	for batch := range f.Batches() {
		for _, index := range batch {
			el := g.element(index)
			for _, link := range el.LinksTo {
				group := g.groups[link.ID]
				if group == nil {
					continue
				}
				switch {
				case link.UsedAsMask || el.UsedAsMask:
					changed += g.markMask(group, nil)
				case el.UsedAsPaint:
					changed += g.markPaint(group, f)
				}
			}
		}
	}
	return changed
}

// propagateMask spreads mask usage from every mask-used element along all
// of its edges, whatever their capacity.
func (g *graph) propagateMask() int {
	changed := 0
	f := worklist.New(g.indexes(func(el *Element) bool { return el.UsedAsMask }))
	for batch := range f.Batches() {
		for _, index := range batch {
			for _, link := range g.element(index).LinksTo {
				if group := g.groups[link.ID]; group != nil {
					changed += g.markMask(group, f)
				}
			}
		}
	}
	return changed
}

func (g *graph) markPaint(group *Group, f *worklist.Frontier[int]) int {
	changed := 0
	for _, index := range group.Members() {
		el := g.element(index)
		if el.UsedAsPaint {
			continue
		}
		el.UsedAsPaint = true
		changed++
		f.Push(index)
	}
	return changed
}

// markMask flags group members as mask-used; f may be nil when the caller
// does not walk mask usage.
func (g *graph) markMask(group *Group, f *worklist.Frontier[int]) int {
	changed := 0
	for _, index := range group.Members() {
		el := g.element(index)
		if el.UsedAsMask {
			continue
		}
		el.UsedAsMask = true
		changed++
		if f != nil {
			f.Push(index)
		}
	}
	return changed
}

func (g *graph) indexes(match func(*Element) bool) []int {
	var out []int
	for _, el := range g.elements {
		if match(el) {
			out = append(out, el.Index)
		}
	}
	return out
}
