// Package raster renders source PDF pages to pixel images for use as
// overlay backgrounds.
//
// The [Rasterizer] interface is a capability port: the pipeline depends
// only on its output contract (per-page pixel dimensions and a PNG at a
// known relative path), so tests substitute deterministic fakes and the
// pipeline degrades gracefully when no rasterizer is available. The
// production implementation is [FitzRasterizer], backed by MuPDF via
// go-fitz.
package raster

import (
	"context"
	"errors"
	"sort"
)

// ErrUnavailable reports that page images cannot be produced, typically
// because no source PDF exists for the parsed document. Callers fall back
// to flat-multiplier scaling.
var ErrUnavailable = errors.New("rasterization unavailable")

// Size is a page dimension in points.
type Size struct {
	Width  float64
	Height float64
}

// PageImage describes one rendered page image. Pixel dimensions come from
// the actual rendered bitmap; point dimensions from the source page. The
// two can disagree with a document's declared page size, which is why
// consumers derive scale factors per axis from the pixel values.
type PageImage struct {
	PageNo    int    // 1-indexed
	Filename  string // base name within the assets directory
	WidthPx   int
	HeightPx  int
	WidthPt   float64
	HeightPt  float64
	Thumbnail string // base name of the thumbnail, empty if not generated
}

// RelPath returns the image path relative to the viewer HTML.
func (p PageImage) RelPath() string {
	return "assets/" + p.Filename
}

// Rasterizer renders source pages to images. Implementations may render
// pages concurrently; results are keyed by page number so completion
// order is irrelevant.
type Rasterizer interface {
	// RenderPages renders every page of the source to a PNG under
	// outDir/assets and returns the image metadata sorted by page number.
	RenderPages(ctx context.Context, pdfPath, outDir string) ([]PageImage, error)

	// PageDimensions probes the source's page sizes in points without
	// rendering, keyed by 1-indexed page number.
	PageDimensions(pdfPath string) (map[int]Size, error)
}

// SortByPage orders page images by ascending page number in place.
func SortByPage(images []PageImage) {
	sort.Slice(images, func(i, j int) bool {
		return images[i].PageNo < images[j].PageNo
	})
}
