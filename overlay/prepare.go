package overlay

import (
	"github.com/tsawler/docviz/model"
	"github.com/tsawler/docviz/raster"
)

// Truncation limits applied to serialized text payloads. The viewer only
// needs a preview; full text stays on the model.
const (
	maxItemText = 200
	maxCellText = 100
)

// Options configures page-view preparation.
type Options struct {
	// Scale is the flat multiplier applied when a page has no rendered
	// image to derive pixel factors from.
	Scale float64

	// IncludeFurniture keeps header/footer elements in the output.
	IncludeFurniture bool

	// Categories restricts output to the listed categories. Empty means no
	// filtering.
	Categories []model.Category
}

// DefaultOptions returns the standard view settings: 2x scale, furniture
// included, all categories.
func DefaultOptions() Options {
	return Options{Scale: 2.0, IncludeFurniture: true}
}

// RectView is serialized rectangle geometry in viewer pixels.
type RectView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CellView is a serialized, scaled table cell.
type CellView struct {
	BBox     RectView `json:"bbox"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	RowSpan  int      `json:"row_span"`
	ColSpan  int      `json:"col_span"`
	IsHeader bool     `json:"is_header"`
	Text     string   `json:"text"`
}

// ItemView is a serialized, scaled element occurrence. The table fields
// are present only for table elements that carry cells.
type ItemView struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Label       string     `json:"label"`
	Text        string     `json:"text"`
	BBox        RectView   `json:"bbox"`
	IsFurniture bool       `json:"is_furniture"`
	Cells       []CellView `json:"cells,omitempty"`
	NumRows     *int       `json:"num_rows,omitempty"`
	NumCols     *int       `json:"num_cols,omitempty"`
}

// PageView is one page ready for rendering: viewport dimensions in pixels,
// an optional relative image path, and the scaled items in source order.
type PageView struct {
	PageNo int        `json:"page_no"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Image  *string    `json:"image"`
	Items  []ItemView `json:"items"`
}

// Prepare produces serializable page views from a parsed document, in
// ascending page order. When a rendered image exists for a page, per-axis
// scale factors are derived from its pixel dimensions against the page's
// declared size; this intentionally compensates for sources whose declared
// page size diverges from the rasterized pages. Pages without an image
// fall back to the flat multiplier. The document is only read, never
// modified.
func Prepare(doc *model.Document, images []raster.PageImage, opts Options) []PageView {
	imageByPage := make(map[int]raster.PageImage, len(images))
	for _, img := range images {
		imageByPage[img.PageNo] = img
	}

	var views []PageView
	for _, pageNo := range doc.PageNumbers() {
		page := doc.Pages[pageNo]
		items := doc.GetPageItems(pageNo, opts.Categories, opts.IncludeFurniture)

		// Non-positive declared dimensions cannot yield finite pixel
		// factors, so such pages scale by the flat multiplier even when
		// an image exists.
		xScale, yScale := opts.Scale, opts.Scale
		img, hasImage := imageByPage[pageNo]
		if hasImage && page.Width > 0 && page.Height > 0 {
			xScale = float64(img.WidthPx) / page.Width
			yScale = float64(img.HeightPx) / page.Height
		}

		scaled := make([]ItemView, 0, len(items))
		for _, item := range items {
			scaled = append(scaled, scaleItem(item, xScale, yScale))
		}

		view := PageView{
			PageNo: pageNo,
			Items:  scaled,
		}
		if hasImage {
			view.Width = float64(img.WidthPx)
			view.Height = float64(img.HeightPx)
			rel := img.RelPath()
			view.Image = &rel
		} else {
			view.Width = page.Width * opts.Scale
			view.Height = page.Height * opts.Scale
		}

		views = append(views, view)
	}

	return views
}

func scaleItem(elem model.Element, xScale, yScale float64) ItemView {
	view := ItemView{
		ID:          elem.ElementID(),
		Type:        string(elem.ElementCategory()),
		IsFurniture: elem.IsFurniture(),
		BBox:        toRectView(elem.BoundingBox().ScaleXY(xScale, yScale)),
	}

	switch it := elem.(type) {
	case *model.TableItem:
		view.Label = it.Label
		view.Text = truncate(it.Text, maxItemText)
		if len(it.Cells) > 0 {
			view.Cells = make([]CellView, 0, len(it.Cells))
			for _, cell := range it.Cells {
				view.Cells = append(view.Cells, scaleCell(cell, xScale, yScale))
			}
			rows, cols := it.NumRows, it.NumCols
			view.NumRows = &rows
			view.NumCols = &cols
		}
	case *model.Item:
		view.Label = it.Label
		view.Text = truncate(it.Text, maxItemText)
	}

	return view
}

func scaleCell(cell model.TableCell, xScale, yScale float64) CellView {
	return CellView{
		BBox:     toRectView(cell.BBox.ScaleXY(xScale, yScale)),
		Row:      cell.Row,
		Col:      cell.Col,
		RowSpan:  cell.RowSpan,
		ColSpan:  cell.ColSpan,
		IsHeader: cell.IsHeader,
		Text:     truncate(cell.Text, maxCellText),
	}
}

func toRectView(r model.NormalizedRect) RectView {
	return RectView{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// truncate limits a string to n characters, counting runes so multi-byte
// text is never split mid-character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
