package docviz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/docviz/docjson"
	"github.com/tsawler/docviz/model"
	"github.com/tsawler/docviz/overlay"
	"github.com/tsawler/docviz/raster"
)

// Pages compared against the source PDF before rendering. Checking a few
// is enough to catch a mismatched file without probing a large document.
const compatPageSample = 5

// dimTolerance is the allowed divergence, in points, between a declared
// page size and the PDF's actual page size before a warning is raised.
const dimTolerance = 1.0

// Viewer provides a fluent interface for loading analysis JSON and
// producing page views and overlay output. Each configuration method
// returns a new Viewer instance, making it safe for concurrent use and
// allowing method chaining.
type Viewer struct {
	// Source
	jsonPath string
	doc      *model.Document

	// Configuration
	options viewOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Viewer with a deep copy of options.
// This ensures immutability, so each chain method returns a new instance.
func (v *Viewer) clone() *Viewer {
	return &Viewer{
		jsonPath: v.jsonPath,
		doc:      v.doc,
		options:  v.options.clone(),
		err:      v.err,
		warnings: append([]Warning(nil), v.warnings...),
	}
}

// ============================================================================
// Configuration Methods (return new Viewer instance)
// ============================================================================

// Scale sets the flat multiplier used when no page image is available to
// derive pixel factors from. It must be positive.
func (v *Viewer) Scale(factor float64) *Viewer {
	newV := v.clone()
	if factor <= 0 {
		if newV.err == nil {
			newV.err = fmt.Errorf("scale must be positive, got %v", factor)
		}
		return newV
	}
	newV.options.scale = factor
	return newV
}

// ExcludeFurniture drops headers, footers, and page numbers from the
// output.
func (v *Viewer) ExcludeFurniture() *Viewer {
	newV := v.clone()
	newV.options.includeFurniture = false
	return newV
}

// IncludeFurniture keeps headers, footers, and page numbers in the output.
// This is the default.
func (v *Viewer) IncludeFurniture() *Viewer {
	newV := v.clone()
	newV.options.includeFurniture = true
	return newV
}

// Types restricts output to the listed element categories. Multiple calls
// are cumulative. No calls means every category.
//
// Example:
//
//	views, _, err := docviz.Open("doc.json").Types(model.CategoryTable).PageViews()
func (v *Viewer) Types(categories ...model.Category) *Viewer {
	newV := v.clone()
	newV.options.categories = append(newV.options.categories, categories...)
	return newV
}

// WithPDF sets the source PDF used for page backgrounds, bypassing
// discovery next to the JSON file.
func (v *Viewer) WithPDF(path string) *Viewer {
	newV := v.clone()
	newV.options.pdfPath = path
	return newV
}

// WithRasterizer injects the page-image renderer used by RenderOverlay.
// Without one, overlays are drawn on a blank background at the flat scale.
func (v *Viewer) WithRasterizer(r raster.Rasterizer) *Viewer {
	newV := v.clone()
	newV.options.rasterizer = r
	return newV
}

// WithExporter injects the backend used by RenderNative.
func (v *Viewer) WithExporter(e Exporter) *Viewer {
	newV := v.clone()
	newV.options.exporter = e
	return newV
}

// WithLogger sets the logger used by the parser and rasterizer. The
// default logger is disabled.
func (v *Viewer) WithLogger(log zerolog.Logger) *Viewer {
	newV := v.clone()
	newV.options.log = log
	return newV
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document parses the input and returns the normalized model along with
// any warnings raised for dropped or suspect units.
func (v *Viewer) Document() (*model.Document, []Warning, error) {
	if v.err != nil {
		return nil, v.allWarnings(), v.err
	}
	return v.load()
}

// PageViews parses the input and returns serializable page views at the
// flat scale, with furniture and category filtering applied. Use
// RenderOverlay to scale against rendered page images instead.
func (v *Viewer) PageViews() ([]overlay.PageView, []Warning, error) {
	if v.err != nil {
		return nil, v.allWarnings(), v.err
	}
	doc, warnings, err := v.load()
	if err != nil {
		return nil, warnings, err
	}
	return overlay.Prepare(doc, nil, v.overlayOptions()), warnings, nil
}

// RenderOverlay writes a standalone HTML viewer to outPath, rendering
// page images into an assets directory beside it when a source PDF and a
// rasterizer are available. Rasterization problems degrade the output to
// flat-scaled overlays on a blank background and are reported as
// warnings, never as errors.
func (v *Viewer) RenderOverlay(ctx context.Context, outPath string) ([]Warning, error) {
	if v.err != nil {
		return v.allWarnings(), v.err
	}
	doc, warnings, err := v.load()
	if err != nil {
		return warnings, err
	}

	outDir := filepath.Dir(outPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return warnings, fmt.Errorf("creating output directory: %w", err)
	}

	images, rasterWarnings := v.renderImages(ctx, doc, outDir)
	warnings = append(warnings, rasterWarnings...)

	views := overlay.Prepare(doc, images, v.overlayOptions())

	f, err := os.Create(outPath)
	if err != nil {
		return warnings, fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := overlay.WriteHTML(f, doc.Name, views); err != nil {
		f.Close()
		return warnings, err
	}
	return warnings, f.Close()
}

// RenderNative delegates rendering to the injected Exporter. It fails if
// none was configured.
func (v *Viewer) RenderNative(ctx context.Context, outPath string) ([]Warning, error) {
	if v.err != nil {
		return v.allWarnings(), v.err
	}
	doc, warnings, err := v.load()
	if err != nil {
		return warnings, err
	}
	if v.options.exporter == nil {
		return warnings, fmt.Errorf("no exporter configured for native rendering")
	}
	if err := v.options.exporter.Export(ctx, doc, outPath); err != nil {
		return warnings, fmt.Errorf("native export: %w", err)
	}
	return warnings, nil
}

// ============================================================================
// Internals
// ============================================================================

func (v *Viewer) allWarnings() []Warning {
	return append([]Warning(nil), v.warnings...)
}

func (v *Viewer) overlayOptions() overlay.Options {
	return overlay.Options{
		Scale:            v.options.scale,
		IncludeFurniture: v.options.includeFurniture,
		Categories:       v.options.categories,
	}
}

// warningCapture is a zerolog hook that collects warn-level parser events
// as Warning values, so callers see them without configuring a logger.
type warningCapture struct {
	warnings []Warning
}

func (c *warningCapture) Run(_ *zerolog.Event, level zerolog.Level, message string) {
	if level >= zerolog.WarnLevel && message != "" {
		c.warnings = append(c.warnings, Warning{Kind: WarnParse, Message: message})
	}
}

// load parses the input JSON and returns the document with the chain's
// accumulated warnings. It never writes to the receiver, so one Viewer
// can serve terminal operations from several goroutines.
func (v *Viewer) load() (*model.Document, []Warning, error) {
	if v.doc != nil {
		return v.doc, v.allWarnings(), nil
	}
	if v.jsonPath == "" {
		return nil, v.allWarnings(), fmt.Errorf("no input specified")
	}

	// Hooks never fire on a disabled logger, so swap in a discarding one
	// to keep capturing parse warnings when logging is off.
	capture := &warningCapture{}
	base := v.options.log
	if base.GetLevel() == zerolog.Disabled {
		base = zerolog.New(io.Discard)
	}
	parser := docjson.NewParserWithLogger(base.Hook(capture))

	doc, err := parser.ParseFile(v.jsonPath)
	if err != nil {
		return nil, v.allWarnings(), err
	}

	return doc, append(v.allWarnings(), capture.warnings...), nil
}

// renderImages locates the source PDF and rasterizes it into outDir.
// Every failure path returns nil images plus a warning; the overlay then
// falls back to flat scaling.
func (v *Viewer) renderImages(ctx context.Context, doc *model.Document, outDir string) ([]raster.PageImage, []Warning) {
	var warnings []Warning

	if v.options.rasterizer == nil {
		warnings = append(warnings, Warning{
			Kind:    WarnRaster,
			Message: "no rasterizer configured, drawing overlays without page images",
		})
		return nil, warnings
	}

	pdfPath, srcWarnings, err := v.findSourcePDF(doc)
	warnings = append(warnings, srcWarnings...)
	if err != nil {
		if errors.Is(err, raster.ErrUnavailable) {
			warnings = append(warnings, Warning{
				Kind:    WarnRaster,
				Message: "no source PDF found, drawing overlays without page images",
			})
			return nil, warnings
		}
		warnings = append(warnings, Warning{Kind: WarnRaster, Message: err.Error()})
		return nil, warnings
	}

	warnings = append(warnings, v.checkCompatibility(doc, pdfPath)...)

	images, err := v.options.rasterizer.RenderPages(ctx, pdfPath, outDir)
	if err != nil {
		warnings = append(warnings, Warning{
			Kind:    WarnRaster,
			Message: fmt.Sprintf("rendering %s: %v", filepath.Base(pdfPath), err),
		})
		return nil, warnings
	}
	return images, warnings
}

// findSourcePDF resolves the PDF to rasterize: the explicitly configured
// path, a PDF sharing the JSON file's base name, or a lone PDF in the
// same directory. It returns raster.ErrUnavailable when nothing matches.
func (v *Viewer) findSourcePDF(doc *model.Document) (string, []Warning, error) {
	if v.options.pdfPath != "" {
		if _, err := os.Stat(v.options.pdfPath); err != nil {
			return "", nil, fmt.Errorf("source PDF %s: %w", v.options.pdfPath, err)
		}
		return v.options.pdfPath, nil, nil
	}
	if v.jsonPath == "" {
		return "", nil, raster.ErrUnavailable
	}

	dir := filepath.Dir(v.jsonPath)
	base := strings.TrimSuffix(filepath.Base(v.jsonPath), filepath.Ext(v.jsonPath))

	candidate := filepath.Join(dir, base+".pdf")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil || len(matches) != 1 {
		return "", nil, raster.ErrUnavailable
	}

	found := matches[0]
	var warnings []Warning
	if doc.Origin != "" && !strings.EqualFold(filepath.Base(found), doc.Origin) {
		warnings = append(warnings, Warning{
			Kind:    WarnSource,
			Message: fmt.Sprintf("using %s though the document records origin %s", filepath.Base(found), doc.Origin),
		})
	}
	return found, warnings, nil
}

// checkCompatibility probes the PDF's page count and the first few page
// sizes against the parsed document. Mismatches are advisory; the overlay
// is still produced.
func (v *Viewer) checkCompatibility(doc *model.Document, pdfPath string) []Warning {
	dims, err := v.options.rasterizer.PageDimensions(pdfPath)
	if err != nil {
		return []Warning{{
			Kind:    WarnCompat,
			Message: fmt.Sprintf("probing %s: %v", filepath.Base(pdfPath), err),
		}}
	}

	var warnings []Warning
	if len(dims) != doc.PageCount() {
		warnings = append(warnings, Warning{
			Kind: WarnCompat,
			Message: fmt.Sprintf("%s has %d pages but the document declares %d",
				filepath.Base(pdfPath), len(dims), doc.PageCount()),
		})
	}

	checked := 0
	for _, pageNo := range doc.PageNumbers() {
		if checked >= compatPageSample {
			break
		}
		size, ok := dims[pageNo]
		if !ok {
			continue
		}
		page := doc.Pages[pageNo]
		if math.Abs(size.Width-page.Width) > dimTolerance ||
			math.Abs(size.Height-page.Height) > dimTolerance {
			warnings = append(warnings, Warning{
				Kind: WarnCompat,
				Message: fmt.Sprintf("page %d declares %.1fx%.1f but the PDF page is %.1fx%.1f",
					pageNo, page.Width, page.Height, size.Width, size.Height),
			})
		}
		checked++
	}
	return warnings
}
