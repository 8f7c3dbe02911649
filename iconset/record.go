package iconset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Props are the optional box and transform fields shared by icons, aliases
// and set-level defaults. A nil field is unset.
type Props struct {
	Left   *float64 `json:"left,omitempty"`
	Top    *float64 `json:"top,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Rotate *int     `json:"rotate,omitempty"`
	HFlip  *bool    `json:"hFlip,omitempty"`
	VFlip  *bool    `json:"vFlip,omitempty"`
}

// Icon is a real icon: graphic body plus optional box and transform.
type Icon struct {
	Body string `json:"body"`
	Props
	Hidden bool `json:"hidden,omitempty"`
}

// Alias names another icon or alias and carries override deltas.
type Alias struct {
	Parent string `json:"parent"`
	Props
	Hidden bool `json:"hidden,omitempty"`
}

// Entry is one key of an ordered JSON object.
type Entry[V any] struct {
	Name  string
	Value V
}

// Record is the wire form of an icon set. Object keys keep the order they
// were read in; unknown top-level keys are carried in Meta untouched.
type Record struct {
	Prefix     string
	Icons      []Entry[Icon]
	Aliases    []Entry[Alias]
	Chars      []Entry[string]
	Categories []Entry[[]string]
	// Defaults holds the set-level left, top, width and height.
	Defaults Props
	Meta     []Entry[json.RawMessage]
}

// ReadRecord decodes one record from r.
func ReadRecord(r io.Reader) (Record, error) {
	var rec Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("read icon set: %w", err)
	}
	return rec, nil
}

// UnmarshalJSON decodes a record preserving key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	rec := Record{}
	for dec.More() {
		key, err := nextKey(dec)
		if err != nil {
			return err
		}
		switch key {
		case "prefix":
			err = dec.Decode(&rec.Prefix)
		case "icons":
			rec.Icons, err = decodeObject[Icon](dec)
		case "aliases":
			rec.Aliases, err = decodeObject[Alias](dec)
		case "chars":
			rec.Chars, err = decodeObject[string](dec)
		case "categories":
			rec.Categories, err = decodeObject[[]string](dec)
		case "left":
			err = dec.Decode(&rec.Defaults.Left)
		case "top":
			err = dec.Decode(&rec.Defaults.Top)
		case "width":
			err = dec.Decode(&rec.Defaults.Width)
		case "height":
			err = dec.Decode(&rec.Defaults.Height)
		default:
			var raw json.RawMessage
			if err = dec.Decode(&raw); err == nil {
				var buf bytes.Buffer
				err = json.Compact(&buf, raw)
				rec.Meta = append(rec.Meta, Entry[json.RawMessage]{Name: key, Value: buf.Bytes()})
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	*r = rec
	return nil
}

func decodeObject[V any](dec *json.Decoder) ([]Entry[V], error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var out []Entry[V]
	for dec.More() {
		name, err := nextKey(dec)
		if err != nil {
			return nil, err
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, Entry[V]{Name: name, Value: v})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return out, nil
}

func nextKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// MarshalJSON encodes the record. Top-level keys are written as prefix,
// metadata, icons, aliases, chars, categories, then the set defaults;
// keys inside each object keep their stored order.
func (r Record) MarshalJSON() ([]byte, error) {
	w := objectWriter{}
	w.open()
	if r.Prefix != "" {
		w.field("prefix", r.Prefix)
	}
	for _, m := range r.Meta {
		w.field(m.Name, m.Value)
	}
	writeObject(&w, "icons", r.Icons, true)
	writeObject(&w, "aliases", r.Aliases, false)
	writeObject(&w, "chars", r.Chars, false)
	writeObject(&w, "categories", r.Categories, false)
	if r.Defaults.Left != nil {
		w.field("left", *r.Defaults.Left)
	}
	if r.Defaults.Top != nil {
		w.field("top", *r.Defaults.Top)
	}
	if r.Defaults.Width != nil {
		w.field("width", *r.Defaults.Width)
	}
	if r.Defaults.Height != nil {
		w.field("height", *r.Defaults.Height)
	}
	w.close()
	return w.bytes()
}

// Encode writes the record as indented JSON without HTML escaping, so icon
// bodies stay readable.
func (r Record) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeObject[V any](w *objectWriter, key string, entries []Entry[V], always bool) {
	if len(entries) == 0 && !always {
		return
	}
	w.key(key)
	w.open()
	for _, e := range entries {
		w.field(e.Name, e.Value)
	}
	w.close()
}

// objectWriter builds a JSON object incrementally, keeping the first error.
type objectWriter struct {
	buf   bytes.Buffer
	first []bool
	err   error
}

func (w *objectWriter) open() {
	w.buf.WriteByte('{')
	w.first = append(w.first, true)
}

func (w *objectWriter) close() {
	w.buf.WriteByte('}')
	w.first = w.first[:len(w.first)-1]
}

func (w *objectWriter) key(name string) {
	if top := len(w.first) - 1; w.first[top] {
		w.first[top] = false
	} else {
		w.buf.WriteByte(',')
	}
	w.value(name)
	w.buf.WriteByte(':')
}

func (w *objectWriter) field(name string, v any) {
	w.key(name)
	w.value(v)
}

func (w *objectWriter) value(v any) {
	if w.err != nil {
		return
	}
	enc := json.NewEncoder(&w.buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		w.err = err
		return
	}
	// Encode terminates every value with a newline
	w.buf.Truncate(w.buf.Len() - 1)
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}
