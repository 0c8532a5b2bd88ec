package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docviz/model"
	"github.com/tsawler/docviz/raster"
)

func buildDocument() *model.Document {
	doc := model.NewDocument("report.json", "1.3.0")

	p1 := model.NewPageRecord(1, 612, 792)
	p1.AddItem(&model.Item{
		ID:       "#/texts/0",
		Category: model.CategoryText,
		BBox:     model.NewRect(72, 100, 200, 50),
		PageNo:   1,
		Label:    "paragraph",
		Text:     "First paragraph",
	})
	p1.AddItem(&model.Item{
		ID:        "#/texts/1",
		Category:  model.CategoryFurniture,
		BBox:      model.NewRect(72, 760, 100, 20),
		PageNo:    1,
		Label:     "page_footer",
		Text:      "Page 1 of 2",
		Furniture: true,
	})
	doc.AddPage(p1)

	p2 := model.NewPageRecord(2, 612, 792)
	p2.AddItem(&model.TableItem{
		Item: model.Item{
			ID:       "#/tables/0",
			Category: model.CategoryTable,
			BBox:     model.NewRect(50, 50, 400, 300),
			PageNo:   2,
			Label:    "table",
		},
		Cells: []model.TableCell{
			{BBox: model.NewRect(50, 50, 200, 30), Row: 0, Col: 0, RowSpan: 1, ColSpan: 1, IsHeader: true, Text: "Name"},
			{BBox: model.NewRect(250, 50, 200, 30), Row: 0, Col: 1, RowSpan: 1, ColSpan: 1, IsHeader: true, Text: "Value"},
			{BBox: model.NewRect(50, 80, 200, 30), Row: 1, Col: 0, RowSpan: 1, ColSpan: 1, Text: "alpha"},
		},
		NumRows: 2,
		NumCols: 2,
	})
	doc.AddPage(p2)

	doc.ItemsByID["#/texts/0"] = p1.Items[0]
	doc.ItemsByID["#/texts/1"] = p1.Items[1]
	doc.ItemsByID["#/tables/0"] = p2.Items[0]

	return doc
}

func TestPrepareFlatScale(t *testing.T) {
	doc := buildDocument()

	views := Prepare(doc, nil, DefaultOptions())
	require.Len(t, views, 2)

	assert.Equal(t, 1, views[0].PageNo)
	assert.Equal(t, 2, views[1].PageNo)

	// No images, so the viewport is declared size times the flat factor.
	assert.Equal(t, 1224.0, views[0].Width)
	assert.Equal(t, 1584.0, views[0].Height)
	assert.Nil(t, views[0].Image)

	require.Len(t, views[0].Items, 2)
	text := views[0].Items[0]
	assert.Equal(t, "#/texts/0", text.ID)
	assert.Equal(t, "text", text.Type)
	assert.Equal(t, RectView{X: 144, Y: 200, Width: 400, Height: 100}, text.BBox)
	assert.False(t, text.IsFurniture)
	assert.Nil(t, text.Cells)
	assert.Nil(t, text.NumRows)

	footer := views[0].Items[1]
	assert.Equal(t, "furniture", footer.Type)
	assert.True(t, footer.IsFurniture)
}

func TestPrepareImageDerivedFactors(t *testing.T) {
	doc := buildDocument()
	images := []raster.PageImage{
		{PageNo: 1, Filename: "page_1.png", WidthPx: 1224, HeightPx: 1584, WidthPt: 612, HeightPt: 792},
		// Anisotropic on purpose: x factor 3, y factor 2.
		{PageNo: 2, Filename: "page_2.png", WidthPx: 1836, HeightPx: 1584, WidthPt: 612, HeightPt: 792},
	}

	views := Prepare(doc, images, DefaultOptions())
	require.Len(t, views, 2)

	assert.Equal(t, 1224.0, views[0].Width)
	require.NotNil(t, views[0].Image)
	assert.Equal(t, "assets/page_1.png", *views[0].Image)

	assert.Equal(t, 1836.0, views[1].Width)
	assert.Equal(t, 1584.0, views[1].Height)

	table := views[1].Items[0]
	assert.Equal(t, RectView{X: 150, Y: 100, Width: 1200, Height: 600}, table.BBox)

	require.Len(t, table.Cells, 3)
	assert.Equal(t, RectView{X: 150, Y: 100, Width: 600, Height: 60}, table.Cells[0].BBox)
	assert.True(t, table.Cells[0].IsHeader)
	assert.Equal(t, "Name", table.Cells[0].Text)

	require.NotNil(t, table.NumRows)
	assert.Equal(t, 2, *table.NumRows)
	require.NotNil(t, table.NumCols)
	assert.Equal(t, 2, *table.NumCols)
}

func TestPreparePartialImages(t *testing.T) {
	doc := buildDocument()
	images := []raster.PageImage{
		{PageNo: 2, Filename: "page_2.png", WidthPx: 1224, HeightPx: 1584},
	}

	views := Prepare(doc, images, Options{Scale: 1.5, IncludeFurniture: true})
	require.Len(t, views, 2)

	// Page 1 falls back to the flat multiplier.
	assert.Nil(t, views[0].Image)
	assert.Equal(t, 918.0, views[0].Width)

	require.NotNil(t, views[1].Image)
	assert.Equal(t, 1224.0, views[1].Width)
}

func TestPrepareFiltering(t *testing.T) {
	doc := buildDocument()

	t.Run("exclude furniture", func(t *testing.T) {
		views := Prepare(doc, nil, Options{Scale: 1.0})
		require.Len(t, views[0].Items, 1)
		assert.Equal(t, "text", views[0].Items[0].Type)
	})

	t.Run("category filter", func(t *testing.T) {
		views := Prepare(doc, nil, Options{
			Scale:            1.0,
			IncludeFurniture: true,
			Categories:       []model.Category{model.CategoryTable},
		})
		assert.Empty(t, views[0].Items)
		require.Len(t, views[1].Items, 1)
		assert.Equal(t, "table", views[1].Items[0].Type)
	})
}

func TestPrepareTruncation(t *testing.T) {
	doc := model.NewDocument("long.json", "1.3.0")
	page := model.NewPageRecord(1, 612, 792)

	longText := strings.Repeat("a", 250)
	longCell := strings.Repeat("b", 150)
	page.AddItem(&model.TableItem{
		Item: model.Item{
			ID:       "#/tables/0",
			Category: model.CategoryTable,
			BBox:     model.NewRect(0, 0, 100, 100),
			PageNo:   1,
			Text:     longText,
		},
		Cells: []model.TableCell{
			{BBox: model.NewRect(0, 0, 50, 50), Text: longCell},
		},
	})
	doc.AddPage(page)

	views := Prepare(doc, nil, Options{Scale: 1.0, IncludeFurniture: true})
	item := views[0].Items[0]
	assert.Len(t, item.Text, 200)
	assert.Len(t, item.Cells[0].Text, 100)
}

func TestTruncateRuneSafe(t *testing.T) {
	s := strings.Repeat("é", 150) // 300 bytes, 150 runes
	got := truncate(s, 200)
	assert.Equal(t, s, got, "under the rune limit, string is untouched")

	long := strings.Repeat("é", 250)
	got = truncate(long, 200)
	assert.Equal(t, 200, len([]rune(got)))
	assert.True(t, strings.HasPrefix(long, got))
}

func TestPrepareZeroDeclaredDimensions(t *testing.T) {
	// Declared zero dimensions cannot produce pixel factors; the page
	// scales by the flat multiplier even though an image exists, and the
	// output stays finite.
	doc := model.NewDocument("zero.json", "unknown")
	page := model.NewPageRecord(1, 0, 0)
	page.AddItem(&model.Item{
		ID:       "#/texts/0",
		Category: model.CategoryText,
		BBox:     model.NewRect(10, 20, 30, 40),
		PageNo:   1,
	})
	doc.AddPage(page)

	images := []raster.PageImage{
		{PageNo: 1, Filename: "page_1.png", WidthPx: 1224, HeightPx: 1584},
	}

	views := Prepare(doc, images, Options{Scale: 2.0, IncludeFurniture: true})
	require.Len(t, views, 1)

	item := views[0].Items[0]
	assert.Equal(t, RectView{X: 20, Y: 40, Width: 60, Height: 80}, item.BBox)

	// The viewport still comes from the rendered image.
	assert.Equal(t, 1224.0, views[0].Width)
	assert.Equal(t, 1584.0, views[0].Height)
	require.NotNil(t, views[0].Image)
}

func TestPrepareDoesNotMutateDocument(t *testing.T) {
	doc := buildDocument()
	before := doc.Pages[1].Items[0].BoundingBox()

	Prepare(doc, nil, Options{Scale: 4.0, IncludeFurniture: true})

	assert.Equal(t, before, doc.Pages[1].Items[0].BoundingBox())
}

func TestPrepareEmptyDocument(t *testing.T) {
	doc := model.NewDocument("empty.json", "unknown")
	views := Prepare(doc, nil, DefaultOptions())
	assert.Empty(t, views)
}
