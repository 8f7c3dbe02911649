package iconset

import (
	"errors"
	"slices"

	"github.com/jacoelho/svgref/internal/graphcycle"
)

// DropKind names the part of the record a dropped entry came from.
type DropKind string

const (
	DropAlias    DropKind = "alias"
	DropChar     DropKind = "char"
	DropCategory DropKind = "category"
)

// Reason explains why an entry was left out of a validated export.
type Reason string

const (
	// ReasonMissingParent: the alias chain ends at an unknown name.
	ReasonMissingParent Reason = "missing-parent"
	// ReasonCycle: the alias chain loops.
	ReasonCycle Reason = "cycle"
	// ReasonTooDeep: the alias chain is longer than the depth bound.
	ReasonTooDeep Reason = "too-deep"
	// ReasonMissing: the name is neither an icon nor an alias.
	ReasonMissing Reason = "missing"
	// ReasonNotIcon: categories only hold real icons.
	ReasonNotIcon Reason = "not-icon"
	// ReasonHidden: hidden icons are kept out of categories.
	ReasonHidden Reason = "hidden"
	// ReasonEmpty: nothing was left in the category.
	ReasonEmpty Reason = "empty"
)

// Drop describes one entry a validated export left out. Target is the name
// the entry pointed at: the parent of an alias, the icon of a char, or the
// member of a category. Target is empty for an empty category.
type Drop struct {
	Kind   DropKind
	Name   string
	Target string
	Reason Reason
}

// Export returns a record of the current state. With validate set, aliases
// that do not resolve are dropped, chars must point at resolvable names and
// categories keep only visible real icons; empty categories go.
func (s *IconSet) Export(validate bool) Record {
	rec, _ := s.ExportReport(validate)
	return rec
}

// ExportReport is Export that also reports what validation dropped.
func (s *IconSet) ExportReport(validate bool) (Record, []Drop) {
	rec := Record{
		Prefix:   s.prefix,
		Defaults: s.defaults.clone(),
		Meta:     slices.Clone(s.meta),
	}
	for _, e := range s.icons.entries() {
		e.Value.Props = e.Value.Props.clone()
		rec.Icons = append(rec.Icons, e)
	}
	if !validate {
		for _, e := range s.aliases.entries() {
			e.Value.Props = e.Value.Props.clone()
			rec.Aliases = append(rec.Aliases, e)
		}
		rec.Chars = s.chars.entries()
		rec.Categories = s.Categories()
		return rec, nil
	}

	var drops []Drop
	bad := make(map[string]Reason)
	for _, e := range s.aliases.entries() {
		if s.Resolve(e.Name) == nil {
			reason := s.diagnose(e.Name)
			bad[e.Name] = reason
			drops = append(drops, Drop{Kind: DropAlias, Name: e.Name, Target: e.Value.Parent, Reason: reason})
			continue
		}
		e.Value.Props = e.Value.Props.clone()
		rec.Aliases = append(rec.Aliases, e)
	}

	for _, e := range s.chars.entries() {
		reason, dropped := bad[e.Value]
		if !dropped && !s.icons.has(e.Value) && !s.aliases.has(e.Value) {
			reason, dropped = ReasonMissing, true
		}
		if dropped {
			drops = append(drops, Drop{Kind: DropChar, Name: e.Name, Target: e.Value, Reason: reason})
			continue
		}
		rec.Chars = append(rec.Chars, e)
	}

	for _, e := range s.categories.entries() {
		var members []string
		for _, m := range e.Value {
			if reason, ok := s.categoryMember(m); !ok {
				drops = append(drops, Drop{Kind: DropCategory, Name: e.Name, Target: m, Reason: reason})
				continue
			}
			members = append(members, m)
		}
		if len(members) == 0 {
			drops = append(drops, Drop{Kind: DropCategory, Name: e.Name, Reason: ReasonEmpty})
			continue
		}
		rec.Categories = append(rec.Categories, Entry[[]string]{Name: e.Name, Value: members})
	}
	return rec, drops
}

func (s *IconSet) categoryMember(name string) (Reason, bool) {
	icon, ok := s.icons.get(name)
	switch {
	case ok && icon.Hidden:
		return ReasonHidden, false
	case ok:
		return "", true
	case s.aliases.has(name):
		return ReasonNotIcon, false
	default:
		return ReasonMissing, false
	}
}

// diagnose classifies why alias name does not resolve.
func (s *IconSet) diagnose(name string) Reason {
	err := graphcycle.Detect(graphcycle.Config[string]{
		Starts:  []string{name},
		Missing: graphcycle.MissingPolicyError,
		Exists: func(n string) bool {
			return s.icons.has(n) || s.aliases.has(n)
		},
		Next: func(n string) ([]string, error) {
			if alias, ok := s.aliases.get(n); ok {
				return []string{alias.Parent}, nil
			}
			return nil, nil
		},
	})
	var cycle graphcycle.CycleError[string]
	var missing graphcycle.MissingError[string]
	switch {
	case errors.As(err, &cycle):
		return ReasonCycle
	case errors.As(err, &missing):
		return ReasonMissingParent
	default:
		return ReasonTooDeep
	}
}
