package docjson

import (
	"fmt"
	"strings"

	"github.com/tsawler/docviz/model"
)

// CoordOrigin identifies the coordinate convention a raw bounding box is
// expressed in.
type CoordOrigin string

const (
	// OriginBottomLeft has the origin at the bottom-left corner with y
	// increasing upward. This is the dominant convention in the source
	// schema, so it is the default when a box carries no origin tag.
	OriginBottomLeft CoordOrigin = "BOTTOMLEFT"

	// OriginTopLeft has the origin at the top-left corner with y increasing
	// downward, matching the canonical convention.
	OriginTopLeft CoordOrigin = "TOPLEFT"
)

// RawBBox is a bounding box as it appears in the source: four edge
// coordinates plus an optional origin tag. Missing numeric fields decode
// to zero.
type RawBBox struct {
	L           float64
	R           float64
	T           float64
	B           float64
	CoordOrigin string
}

// NormalizeRect converts a raw box into the canonical top-left convention.
//
// For a bottom-left box, t and b measure the box's top and bottom edges as
// distances from the page bottom, so the canonical y is pageHeight - t and
// the height is t - b. A top-left box passes through unchanged apart from
// the width/height derivation. Origin tags compare case-insensitively; an
// unrecognized tag is the only error. All arithmetic stays in float64 with
// no rounding.
//
// The result may have non-positive dimensions; callers are expected to
// check IsValid and drop degenerate boxes.
func NormalizeRect(raw RawBBox, pageHeight float64, defaultOrigin CoordOrigin) (model.NormalizedRect, error) {
	tag := raw.CoordOrigin
	if tag == "" {
		tag = string(defaultOrigin)
	}

	switch CoordOrigin(strings.ToUpper(tag)) {
	case OriginBottomLeft:
		return model.NormalizedRect{
			X:      raw.L,
			Y:      pageHeight - raw.T,
			Width:  raw.R - raw.L,
			Height: raw.T - raw.B,
		}, nil
	case OriginTopLeft:
		return model.NormalizedRect{
			X:      raw.L,
			Y:      raw.T,
			Width:  raw.R - raw.L,
			Height: raw.B - raw.T,
		}, nil
	default:
		return model.NormalizedRect{}, fmt.Errorf("unknown coord_origin %q", raw.CoordOrigin)
	}
}
