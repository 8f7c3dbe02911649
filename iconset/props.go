package iconset

const (
	defaultSize = 16
	// rotations are counted in quarter turns
	rotatePeriod = 4
)

func ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return ptr(*p)
}

func (p Props) clone() Props {
	return Props{
		Left:   clonePtr(p.Left),
		Top:    clonePtr(p.Top),
		Width:  clonePtr(p.Width),
		Height: clonePtr(p.Height),
		Rotate: clonePtr(p.Rotate),
		HFlip:  clonePtr(p.HFlip),
		VFlip:  clonePtr(p.VFlip),
	}
}

// apply layers alias deltas d over resolved props p. Box fields are
// replaced, rotation adds and flips toggle.
func (p Props) apply(d Props) Props {
	out := p.clone()
	if d.Left != nil {
		out.Left = ptr(*d.Left)
	}
	if d.Top != nil {
		out.Top = ptr(*d.Top)
	}
	if d.Width != nil {
		out.Width = ptr(*d.Width)
	}
	if d.Height != nil {
		out.Height = ptr(*d.Height)
	}
	if d.Rotate != nil {
		r := (valueOr(p.Rotate, 0) + *d.Rotate) % rotatePeriod
		if r < 0 {
			r += rotatePeriod
		}
		out.Rotate = ptr(r)
	}
	if d.HFlip != nil {
		out.HFlip = ptr(valueOr(p.HFlip, false) != *d.HFlip)
	}
	if d.VFlip != nil {
		out.VFlip = ptr(valueOr(p.VFlip, false) != *d.VFlip)
	}
	return out
}

// fill sets every unset field of p from defaults.
func (p Props) fill(defaults Props) Props {
	out := p.clone()
	if out.Left == nil {
		out.Left = clonePtr(defaults.Left)
	}
	if out.Top == nil {
		out.Top = clonePtr(defaults.Top)
	}
	if out.Width == nil {
		out.Width = clonePtr(defaults.Width)
	}
	if out.Height == nil {
		out.Height = clonePtr(defaults.Height)
	}
	if out.Rotate == nil {
		out.Rotate = clonePtr(defaults.Rotate)
	}
	if out.HFlip == nil {
		out.HFlip = clonePtr(defaults.HFlip)
	}
	if out.VFlip == nil {
		out.VFlip = clonePtr(defaults.VFlip)
	}
	return out
}

func globalDefaults() Props {
	return Props{
		Left:   ptr(0.0),
		Top:    ptr(0.0),
		Width:  ptr(float64(defaultSize)),
		Height: ptr(float64(defaultSize)),
		Rotate: ptr(0),
		HFlip:  ptr(false),
		VFlip:  ptr(false),
	}
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
