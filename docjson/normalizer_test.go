package docjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docviz/model"
)

func TestNormalizeRectBottomLeft(t *testing.T) {
	// A 1-inch (72pt) square at (72,72), measured from the page bottom on a
	// 792pt-tall page.
	raw := RawBBox{L: 72, T: 144, R: 144, B: 72, CoordOrigin: "BOTTOMLEFT"}

	rect, err := NormalizeRect(raw, 792, OriginBottomLeft)
	require.NoError(t, err)

	assert.Equal(t, model.NewRect(72, 648, 72, 72), rect)
}

func TestNormalizeRectTopLeftPassthrough(t *testing.T) {
	// The same square measured from the top: coordinates pass through.
	raw := RawBBox{L: 72, T: 72, R: 144, B: 144, CoordOrigin: "TOPLEFT"}

	rect, err := NormalizeRect(raw, 792, OriginBottomLeft)
	require.NoError(t, err)

	assert.Equal(t, model.NewRect(72, 72, 72, 72), rect)
}

func TestNormalizeRectTopLeftIgnoresPageHeight(t *testing.T) {
	raw := RawBBox{L: 10, T: 20, R: 110, B: 70, CoordOrigin: "TOPLEFT"}

	for _, h := range []float64{0, 100, 792, 5000} {
		rect, err := NormalizeRect(raw, h, OriginBottomLeft)
		require.NoError(t, err)
		assert.Equal(t, model.NewRect(10, 20, 100, 50), rect, "page height %v", h)
	}
}

func TestNormalizeRectDefaultOriginIsBottomLeft(t *testing.T) {
	raw := RawBBox{L: 72, T: 720, R: 300, B: 650}

	rect, err := NormalizeRect(raw, 792, OriginBottomLeft)
	require.NoError(t, err)

	assert.InDelta(t, 72.0, rect.Y, 0)
	assert.InDelta(t, 70.0, rect.Height, 0)
	assert.InDelta(t, 228.0, rect.Width, 0)
}

func TestNormalizeRectExplicitDefaultTopLeft(t *testing.T) {
	raw := RawBBox{L: 1, T: 2, R: 3, B: 4}

	rect, err := NormalizeRect(raw, 792, OriginTopLeft)
	require.NoError(t, err)

	assert.Equal(t, model.NewRect(1, 2, 2, 2), rect)
}

func TestNormalizeRectCaseInsensitiveOrigin(t *testing.T) {
	tests := []string{"bottomleft", "BottomLeft", "BOTTOMLEFT", "bOtToMlEfT"}

	for _, tag := range tests {
		raw := RawBBox{L: 72, T: 144, R: 144, B: 72, CoordOrigin: tag}
		rect, err := NormalizeRect(raw, 792, OriginBottomLeft)
		require.NoError(t, err, "tag %q", tag)
		assert.Equal(t, model.NewRect(72, 648, 72, 72), rect, "tag %q", tag)
	}
}

func TestNormalizeRectUnknownOrigin(t *testing.T) {
	raw := RawBBox{L: 1, T: 2, R: 3, B: 4, CoordOrigin: "CENTER"}

	_, err := NormalizeRect(raw, 792, OriginBottomLeft)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CENTER")
}

func TestNormalizeRectMissingFieldsAreZero(t *testing.T) {
	// All-zero edges normalize without error; the result is degenerate and
	// left for the caller's IsValid check.
	rect, err := NormalizeRect(RawBBox{}, 792, OriginBottomLeft)
	require.NoError(t, err)

	assert.Equal(t, model.NewRect(0, 792, 0, 0), rect)
	assert.False(t, rect.IsValid())
}

func TestNormalizeRectPreservesPrecision(t *testing.T) {
	raw := RawBBox{L: 72.125, T: 144.0625, R: 144.25, B: 72.03125, CoordOrigin: "BOTTOMLEFT"}

	rect, err := NormalizeRect(raw, 792.5, OriginBottomLeft)
	require.NoError(t, err)

	assert.Equal(t, 72.125, rect.X)
	assert.Equal(t, 792.5-144.0625, rect.Y)
	assert.Equal(t, 144.25-72.125, rect.Width)
	assert.Equal(t, 144.0625-72.03125, rect.Height)
}

func TestNormalizeRectInvertedBoxIsInvalid(t *testing.T) {
	// t below b in the bottom-left convention yields a negative height.
	raw := RawBBox{L: 10, T: 50, R: 60, B: 100, CoordOrigin: "BOTTOMLEFT"}

	rect, err := NormalizeRect(raw, 792, OriginBottomLeft)
	require.NoError(t, err)
	assert.False(t, rect.IsValid())
}
