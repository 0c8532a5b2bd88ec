package docviz

import (
	"github.com/rs/zerolog"

	"github.com/tsawler/docviz/model"
	"github.com/tsawler/docviz/raster"
)

// viewOptions holds configuration for a Viewer chain.
type viewOptions struct {
	// Presentation
	scale            float64
	includeFurniture bool
	categories       []model.Category

	// Source PDF for page backgrounds. Empty means discover next to the
	// JSON file.
	pdfPath string

	// Injected capabilities
	rasterizer raster.Rasterizer
	exporter   Exporter

	log zerolog.Logger
}

// defaultViewOptions returns the standard settings: 2x scale, furniture
// shown, all categories, logging disabled.
func defaultViewOptions() viewOptions {
	return viewOptions{
		scale:            2.0,
		includeFurniture: true,
		log:              zerolog.Nop(),
	}
}

// clone creates a deep copy of viewOptions. Interface fields are shared;
// implementations are expected to be safe for reuse across chains.
func (o viewOptions) clone() viewOptions {
	newOpts := viewOptions{
		scale:            o.scale,
		includeFurniture: o.includeFurniture,
		pdfPath:          o.pdfPath,
		rasterizer:       o.rasterizer,
		exporter:         o.exporter,
		log:              o.log,
	}

	if o.categories != nil {
		newOpts.categories = make([]model.Category, len(o.categories))
		copy(newOpts.categories, o.categories)
	}

	return newOpts
}
