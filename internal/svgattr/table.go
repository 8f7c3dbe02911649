// Package svgattr holds the static tag and attribute tables that drive
// reference discovery and reusable-element classification.
package svgattr

import "strings"

// Capacity classifies the way an attribute uses the element it references.
type Capacity uint8

const (
	// Ignored attributes never produce a reference edge.
	Ignored Capacity = iota
	// Paint references render the target as paint (gradients, patterns, markers, filters).
	Paint
	// Mask references use the target as a mask or clip path.
	Mask
)

func (c Capacity) String() string {
	switch c {
	case Paint:
		return "paint"
	case Mask:
		return "mask"
	default:
		return "ignored"
	}
}

// attrClass groups presentational attributes that can hold url(#id).
type attrClass uint8

const (
	classNone attrClass = iota
	classURL
	classColor
	classMarker
)

var attrClassMap = map[string]attrClass{
	"clip-path": classURL,
	"mask":      classURL,
	"filter":    classURL,

	"fill":           classColor,
	"stroke":         classColor,
	"color":          classColor,
	"stop-color":     classColor,
	"flood-color":    classColor,
	"lighting-color": classColor,

	"marker":       classMarker,
	"marker-start": classMarker,
	"marker-mid":   classMarker,
	"marker-end":   classMarker,
}

// filter is in the url class but renders its target as paint.
var capacityOverride = map[string]Capacity{
	"filter": Paint,
}

var maskTagMap = map[string]bool{
	"clipPath": true,
	"mask":     true,
}

var paletteTagMap = map[string]bool{
	"linearGradient": true,
	"radialGradient": true,
	"pattern":        true,
	"marker":         true,
	"symbol":         true,
	"filter":         true,
}

var defsTagMap = map[string]bool{
	"defs": true,
}

// hrefTagMap lists tags whose href names another element; true marks tags
// that cannot work without one.
var hrefTagMap = map[string]bool{
	"use":            true,
	"linearGradient": false,
	"radialGradient": false,
	"pattern":        false,
	"filter":         false,
	"textPath":       false,
	"mpath":          false,
}

func classOf(attr string) attrClass {
	return attrClassMap[attr]
}

// CapacityOf returns how an attribute holding url(#id) uses its target.
func CapacityOf(attr string) Capacity {
	if c, ok := capacityOverride[attr]; ok {
		return c
	}
	switch classOf(attr) {
	case classURL:
		return Mask
	case classColor, classMarker:
		return Paint
	default:
		return Ignored
	}
}

// IsMaskTag reports whether tag defines a mask or clip path.
func IsMaskTag(tag string) bool {
	return maskTagMap[tag]
}

// IsPaletteTag reports whether tag defines a reusable element with its own palette.
func IsPaletteTag(tag string) bool {
	return paletteTagMap[tag]
}

// IsDefsTag reports whether tag is a definitions container.
func IsDefsTag(tag string) bool {
	return defsTagMap[tag]
}

// HrefRule reports whether tag references another element through href and
// whether that href is required.
func HrefRule(tag string) (uses, required bool) {
	required, uses = hrefTagMap[tag]
	return uses, required
}

// ParseURLRef extracts the identifier from a url(#id) value.
// The url( prefix is matched case-insensitively and the id is trimmed.
func ParseURLRef(value string) (string, bool) {
	const prefix = "url(#"
	if len(value) < len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return "", false
	}
	rest := value[len(prefix):]
	if !strings.HasSuffix(rest, ")") {
		return "", false
	}
	return strings.TrimSpace(rest[:len(rest)-1]), true
}
