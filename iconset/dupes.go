package iconset

import (
	"strconv"

	"github.com/zeebo/blake3"
)

type digest [32]byte

// Duplicates groups real icons that render identically once defaults are
// applied. Groups and their members keep import order; singletons are
// omitted.
func (s *IconSet) Duplicates() [][]string {
	var order []digest
	groups := make(map[digest][]string)
	for _, name := range s.icons.keys {
		icon := s.ResolveFull(name)
		if icon == nil {
			continue
		}
		key := visualDigest(icon)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], name)
	}

	var out [][]string
	for _, key := range order {
		if names := groups[key]; len(names) > 1 {
			out = append(out, names)
		}
	}
	return out
}

func visualDigest(icon *Icon) digest {
	buf := make([]byte, 0, len(icon.Body)+64)
	for _, v := range []float64{*icon.Left, *icon.Top, *icon.Width, *icon.Height} {
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		buf = append(buf, 0)
	}
	buf = strconv.AppendInt(buf, int64(*icon.Rotate), 10)
	buf = strconv.AppendBool(buf, *icon.HFlip)
	buf = strconv.AppendBool(buf, *icon.VFlip)
	buf = append(buf, 0)
	buf = append(buf, icon.Body...)
	return blake3.Sum256(buf)
}
