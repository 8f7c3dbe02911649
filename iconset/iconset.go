package iconset

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/jacoelho/svgref/internal/worklist"
)

// DefaultMaxDepth bounds alias chains during resolution and export.
const DefaultMaxDepth = 5

// Options configures an icon set.
type Options struct {
	maxDepth int
}

// NewOptions returns default options.
func NewOptions() Options {
	return Options{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the alias hop bound used by Resolve and Export.
func (o Options) WithMaxDepth(depth int) Options {
	o.maxDepth = depth
	return o
}

// MaxDepth returns the alias hop bound.
func (o Options) MaxDepth() int {
	return o.maxDepth
}

// Validate validates options values.
func (o Options) Validate() error {
	if o.maxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0")
	}
	return nil
}

// IconSet is a mutable collection of icons and aliases. It is not safe for
// concurrent use when Remove or Rename may run.
type IconSet struct {
	prefix     string
	icons      *ordered[Icon]
	aliases    *ordered[Alias]
	chars      *ordered[string]
	categories *ordered[[]string]
	defaults   Props
	meta       []Entry[json.RawMessage]
	maxDepth   int
}

// New builds an icon set from rec with default options.
func New(rec Record) *IconSet {
	s, _ := NewWithOptions(rec, NewOptions())
	return s
}

// NewWithOptions builds an icon set from rec. The record is copied.
//
// A name present both as icon and alias is kept as the icon, and aliases
// listed in categories are dropped; nothing else is rejected.
func NewWithOptions(rec Record, opts Options) (*IconSet, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s := &IconSet{
		prefix:     rec.Prefix,
		icons:      newOrdered[Icon](nil),
		aliases:    newOrdered[Alias](nil),
		chars:      newOrdered(rec.Chars),
		categories: newOrdered[[]string](nil),
		defaults:   rec.Defaults.clone(),
		meta:       slices.Clone(rec.Meta),
		maxDepth:   opts.maxDepth,
	}
	for _, e := range rec.Icons {
		icon := e.Value
		icon.Props = icon.Props.clone()
		s.icons.set(e.Name, icon)
	}
	for _, e := range rec.Aliases {
		if s.icons.has(e.Name) {
			continue
		}
		alias := e.Value
		alias.Props = alias.Props.clone()
		s.aliases.set(e.Name, alias)
	}
	for _, e := range rec.Categories {
		names := slices.DeleteFunc(slices.Clone(e.Value), s.aliases.has)
		s.categories.set(e.Name, names)
	}
	return s, nil
}

// Parse reads a JSON record from r and builds an icon set from it.
func Parse(r io.Reader) (*IconSet, error) {
	rec, err := ReadRecord(r)
	if err != nil {
		return nil, err
	}
	return New(rec), nil
}

// Prefix returns the icon set prefix.
func (s *IconSet) Prefix() string {
	return s.prefix
}

// List returns the names of visible real icons in import order.
func (s *IconSet) List() []string {
	var out []string
	for _, name := range s.icons.keys {
		if !s.icons.values[name].Hidden {
			out = append(out, name)
		}
	}
	return out
}

// Count returns the number of visible real icons.
func (s *IconSet) Count() int {
	n := 0
	for _, icon := range s.icons.values {
		if !icon.Hidden {
			n++
		}
	}
	return n
}

// Aliases returns alias names in import order.
func (s *IconSet) Aliases() []string {
	return slices.Clone(s.aliases.keys)
}

// Chars returns the character map in order.
func (s *IconSet) Chars() []Entry[string] {
	return s.chars.entries()
}

// Categories returns copies of the categories in order.
func (s *IconSet) Categories() []Entry[[]string] {
	out := s.categories.entries()
	for i := range out {
		out[i].Value = slices.Clone(out[i].Value)
	}
	return out
}

// Exists reports whether name is a real icon or an alias that resolves.
// Hidden entries exist.
func (s *IconSet) Exists(name string) bool {
	return s.icons.has(name) || s.Resolve(name) != nil
}

// Resolve returns the visual record for name with alias deltas applied, or
// nil when name is unknown or its alias chain is broken or too long.
func (s *IconSet) Resolve(name string) *Icon {
	return s.ResolveDepth(name, s.maxDepth)
}

// ResolveDepth is Resolve with an explicit alias hop bound.
func (s *IconSet) ResolveDepth(name string, maxDepth int) *Icon {
	chain, icon, ok := s.chain(name, maxDepth)
	if !ok {
		return nil
	}
	out := Icon{Body: icon.Body, Props: icon.Props.clone()}
	for i := len(chain) - 1; i >= 0; i-- {
		out.Props = out.Props.apply(chain[i].Props)
	}
	return &out
}

// ResolveFull is Resolve with unset fields filled from the set defaults and
// then from the global defaults.
func (s *IconSet) ResolveFull(name string) *Icon {
	icon := s.Resolve(name)
	if icon == nil {
		return nil
	}
	icon.Props = icon.Props.fill(s.defaults).fill(globalDefaults())
	return icon
}

// chain follows aliases from name to a real icon. The alias met at hop
// depth d fails when d > maxDepth.
func (s *IconSet) chain(name string, maxDepth int) ([]Alias, Icon, bool) {
	var chain []Alias
	for depth := 0; ; depth++ {
		if icon, ok := s.icons.get(name); ok {
			return chain, icon, true
		}
		alias, ok := s.aliases.get(name)
		if !ok || depth > maxDepth {
			return nil, Icon{}, false
		}
		chain = append(chain, alias)
		name = alias.Parent
	}
}

// Remove deletes name and every alias whose chain passes through it. It
// returns the number of entries deleted, 0 for an unknown name. Char and
// category entries naming deleted entries go too.
func (s *IconSet) Remove(name string) int {
	if !s.icons.has(name) && !s.aliases.has(name) {
		return 0
	}

	children := make(map[string][]string, s.aliases.len())
	for _, alias := range s.aliases.keys {
		parent := s.aliases.values[alias].Parent
		children[parent] = append(children[parent], alias)
	}

	removed := map[string]bool{name: true}
	f := worklist.New([]string{name})
	for batch := range f.Batches() {
		for _, n := range batch {
			for _, child := range children[n] {
				if !removed[child] {
					removed[child] = true
					f.Push(child)
				}
			}
		}
	}

	s.icons.delete(name)
	s.aliases.deleteFunc(func(alias string, _ Alias) bool { return removed[alias] })
	s.chars.deleteFunc(func(_ string, target string) bool { return removed[target] })
	for _, category := range s.categories.keys {
		members := s.categories.values[category]
		s.categories.values[category] = slices.DeleteFunc(members, func(m string) bool { return removed[m] })
	}
	return len(removed)
}

// Rename moves the icon or alias old to name, repointing aliases, chars and
// categories. It fails when name is taken or old is unknown.
func (s *IconSet) Rename(old, name string) bool {
	if name == "" || s.icons.has(name) || s.aliases.has(name) {
		return false
	}
	if !s.icons.rename(old, name) && !s.aliases.rename(old, name) {
		return false
	}

	for _, alias := range s.aliases.keys {
		if a := s.aliases.values[alias]; a.Parent == old {
			a.Parent = name
			s.aliases.values[alias] = a
		}
	}
	for _, code := range s.chars.keys {
		if s.chars.values[code] == old {
			s.chars.values[code] = name
		}
	}
	for _, category := range s.categories.keys {
		members := s.categories.values[category]
		for i, m := range members {
			if m == old {
				members[i] = name
			}
		}
	}
	return true
}
