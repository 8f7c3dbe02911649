package iconset

import "slices"

// ordered is a map that remembers insertion order.
type ordered[V any] struct {
	keys   []string
	values map[string]V
}

func newOrdered[V any](entries []Entry[V]) *ordered[V] {
	o := &ordered[V]{values: make(map[string]V, len(entries))}
	for _, e := range entries {
		o.set(e.Name, e.Value)
	}
	return o
}

func (o *ordered[V]) len() int {
	return len(o.keys)
}

func (o *ordered[V]) has(name string) bool {
	_, ok := o.values[name]
	return ok
}

func (o *ordered[V]) get(name string) (V, bool) {
	v, ok := o.values[name]
	return v, ok
}

// set stores v under name; a new name goes last, an existing one keeps
// its position.
func (o *ordered[V]) set(name string, v V) {
	if _, ok := o.values[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.values[name] = v
}

func (o *ordered[V]) delete(name string) bool {
	if _, ok := o.values[name]; !ok {
		return false
	}
	delete(o.values, name)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == name })
	return true
}

// deleteFunc removes every entry matching fn and returns how many went.
func (o *ordered[V]) deleteFunc(fn func(name string, v V) bool) int {
	before := len(o.keys)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool {
		if fn(k, o.values[k]) {
			delete(o.values, k)
			return true
		}
		return false
	})
	return before - len(o.keys)
}

// rename moves the value at old to name in place.
func (o *ordered[V]) rename(old, name string) bool {
	v, ok := o.values[old]
	if !ok {
		return false
	}
	i := slices.Index(o.keys, old)
	o.keys[i] = name
	delete(o.values, old)
	o.values[name] = v
	return true
}

func (o *ordered[V]) entries() []Entry[V] {
	out := make([]Entry[V], 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, Entry[V]{Name: k, Value: o.values[k]})
	}
	return out
}
