// Package docviz provides a fluent API for turning document-analysis JSON
// into a normalized page model and an interactive overlay viewer.
//
// Basic usage:
//
//	doc, warnings, err := docviz.Open("report.json").Document()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docviz.FormatWarnings(warnings))
//	}
//
// With options:
//
//	warnings, err := docviz.Open("report.json").
//	    Scale(3.0).
//	    ExcludeFurniture().
//	    WithPDF("report.pdf").
//	    WithRasterizer(raster.NewFitzRasterizer(raster.DefaultConfig(), logger)).
//	    RenderOverlay(ctx, "out/viewer.html")
//
// For advanced use cases, the lower-level docjson, overlay, and raster
// packages are also available.
package docviz

import (
	"context"

	"github.com/tsawler/docviz/model"
)

// Exporter renders a parsed document through an external backend, such as
// a converter's own HTML export. The Viewer delegates RenderNative to it
// without interpreting the output.
type Exporter interface {
	Export(ctx context.Context, doc *model.Document, outPath string) error
}

// Open prepares a Viewer for the given analysis JSON file. The file is not
// read until a terminal operation runs.
//
// Example:
//
//	views, warnings, err := docviz.Open("report.json").PageViews(ctx)
func Open(jsonPath string) *Viewer {
	return &Viewer{
		jsonPath: jsonPath,
		options:  defaultViewOptions(),
	}
}

// FromDocument creates a Viewer over an already-parsed document. Useful
// when the caller built or modified the model itself.
func FromDocument(doc *model.Document) *Viewer {
	return &Viewer{
		doc:     doc,
		options: defaultViewOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult wraps a terminal operation returning (T, []Warning, error),
// panicking on error and discarding warnings.
//
// Example:
//
//	doc := docviz.MustResult(docviz.Open("report.json").Document())
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
