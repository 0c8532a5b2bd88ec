package docjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/docviz/model"
)

// Default page dimensions (US Letter, points) applied when the source
// omits a page size.
const (
	DefaultPageWidth  = 612.0
	DefaultPageHeight = 792.0
)

// Parser builds a normalized document model from docling-style layout
// JSON. The zero value is not usable; construct with NewParser or
// NewParserWithLogger.
//
// Parsing is tolerant by design: structurally incomplete input yields an
// empty-but-valid document, and malformed individual elements or bounding
// boxes are dropped with a warning rather than failing the parse. Only a
// missing or unreadable input source is a hard error.
type Parser struct {
	log           zerolog.Logger
	defaultOrigin CoordOrigin
}

// NewParser returns a parser that discards warning logs and assumes
// bottom-left origin for untagged boxes.
func NewParser() *Parser {
	return NewParserWithLogger(zerolog.Nop())
}

// NewParserWithLogger returns a parser that emits warnings through the
// given logger. The logger is held as a value; no global logging state is
// touched.
func NewParserWithLogger(log zerolog.Logger) *Parser {
	return &Parser{
		log:           log,
		defaultOrigin: OriginBottomLeft,
	}
}

// ParseFile reads and parses a layout JSON file. The document name is the
// file's base name without extension.
func (p *Parser) ParseFile(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return p.Parse(data, name)
}

// Parse builds a document model from raw JSON bytes. It returns an error
// only when the input is not a JSON object; all element-level problems are
// recovered locally.
func (p *Parser) Parse(data []byte, name string) (*model.Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding document JSON: %w", err)
	}

	version := raw.SchemaName
	if version == "" {
		version = raw.Version
	}
	if version == "" {
		version = "unknown"
	}

	dims := p.extractPageDimensions(raw.Pages)

	doc := model.NewDocument(name, version)
	doc.Origin = string(raw.Origin.Filename)
	for pageNo, size := range dims {
		doc.AddPage(model.NewPageRecord(pageNo, size.width, size.height))
	}

	owners := make(map[string]string)
	p.collectTexts(raw, doc, dims, owners)
	p.collectTables(raw, doc, dims, owners)
	p.collectPictures(raw, doc, dims, owners)
	p.collectFurniture(raw, doc, dims, owners)

	return doc, nil
}

type pageSize struct {
	width  float64
	height float64
}

// extractPageDimensions reads the pages collection, which is either a
// mapping keyed by page number or a positionally ordered sequence
// (1-indexed). A document with no declared pages gets a single synthesized
// page 1 with default dimensions.
func (p *Parser) extractPageDimensions(raw json.RawMessage) map[int]pageSize {
	dims := make(map[int]pageSize)

	var byKey map[string]rawPage
	if len(raw) > 0 && json.Unmarshal(raw, &byKey) == nil {
		for key, page := range byKey {
			pageNo, err := strconv.Atoi(key)
			if err != nil {
				p.log.Warn().Str("key", key).Msg("skipping non-numeric page key")
				continue
			}
			dims[pageNo] = p.sizeOf(page, pageNo)
		}
	} else if list := decodeList(raw); list != nil {
		for i, entry := range list {
			var page rawPage
			if err := json.Unmarshal(entry, &page); err != nil {
				p.log.Warn().Int("page", i+1).Err(err).Msg("skipping malformed page entry")
				continue
			}
			dims[i+1] = p.sizeOf(page, i+1)
		}
	}

	if len(dims) == 0 {
		dims[1] = pageSize{width: DefaultPageWidth, height: DefaultPageHeight}
	}

	return dims
}

// sizeOf resolves a page's declared dimensions. Missing values default to
// US Letter; a declared non-positive dimension is rejected the same way,
// with a warning, since it would poison every scale factor derived from it.
func (p *Parser) sizeOf(page rawPage, pageNo int) pageSize {
	size := pageSize{width: DefaultPageWidth, height: DefaultPageHeight}
	if page.Size.Width != nil {
		if w := float64(*page.Size.Width); w > 0 {
			size.width = w
		} else {
			p.log.Warn().Int("page", pageNo).Float64("width", w).
				Msg("ignoring non-positive declared page width")
		}
	}
	if page.Size.Height != nil {
		if h := float64(*page.Size.Height); h > 0 {
			size.height = h
		} else {
			p.log.Warn().Int("page", pageNo).Float64("height", h).
				Msg("ignoring non-positive declared page height")
		}
	}
	return size
}

type occurrence struct {
	pageNo int
	rect   model.NormalizedRect
}

// isMissingPayload reports whether a bbox value is absent or empty, which
// is skipped silently (no warning): the source legitimately omits geometry
// for some occurrences.
func isMissingPayload(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || string(trimmed) == "null" || string(trimmed) == "{}"
}

// extractProvenance resolves each of an element's (page, bbox) occurrences
// to canonical geometry. Occurrences without a bbox payload are skipped
// silently; malformed or degenerate boxes are dropped with a warning. The
// page height comes from the page dimension table, defaulting when the
// page is unknown.
func (p *Parser) extractProvenance(item rawItem, dims map[int]pageSize) []occurrence {
	var results []occurrence

	for _, prov := range item.Prov {
		pageNo := 1
		if prov.PageNo != nil {
			pageNo = int(*prov.PageNo)
		} else if prov.Page != nil {
			pageNo = int(*prov.Page)
		}

		if isMissingPayload(prov.BBox) {
			continue
		}

		var box rawBBox
		if err := json.Unmarshal(prov.BBox, &box); err != nil {
			p.log.Warn().Int("page", pageNo).Err(err).Msg("failed to decode bounding box")
			continue
		}

		pageHeight := DefaultPageHeight
		if size, ok := dims[pageNo]; ok {
			pageHeight = size.height
		}

		rect, err := NormalizeRect(rawToBBox(box), pageHeight, p.defaultOrigin)
		if err != nil {
			p.log.Warn().Int("page", pageNo).Err(err).Msg("failed to normalize bounding box")
			continue
		}
		if !rect.IsValid() {
			p.log.Warn().Int("page", pageNo).
				Float64("width", rect.Width).Float64("height", rect.Height).
				Msg("dropping occurrence with degenerate bounding box")
			continue
		}

		results = append(results, occurrence{pageNo: pageNo, rect: rect})
	}

	return results
}

func rawToBBox(box rawBBox) RawBBox {
	return RawBBox{
		L:           float64(box.L),
		R:           float64(box.R),
		T:           float64(box.T),
		B:           float64(box.B),
		CoordOrigin: string(box.CoordOrigin),
	}
}

// classify assigns the semantic category from the source label and type
// strings. First match wins; anything unrecognized is plain text.
func classify(item rawItem) model.Category {
	label := strings.ToLower(string(item.Label))
	itemType := strings.ToLower(string(item.Type))

	switch {
	case strings.Contains(label, "section"),
		strings.Contains(label, "heading"),
		strings.Contains(label, "title"):
		return model.CategoryHeading
	case strings.Contains(label, "table"), itemType == "table":
		return model.CategoryTable
	case strings.Contains(label, "picture"),
		strings.Contains(label, "figure"),
		strings.Contains(label, "image"):
		return model.CategoryPicture
	case strings.Contains(label, "list"):
		return model.CategoryList
	case strings.Contains(label, "header"),
		strings.Contains(label, "footer"),
		strings.Contains(label, "page_number"):
		return model.CategoryFurniture
	default:
		return model.CategoryText
	}
}

// itemID derives a stable identifier: the explicit self-reference if
// present, then an id field, then a per-record positional key.
func itemID(item rawItem, prefix string, index int) string {
	if item.SelfRef != "" {
		return string(item.SelfRef)
	}
	if item.ID != "" {
		return string(item.ID)
	}
	return fmt.Sprintf("%s_%d", prefix, index)
}

// insert adds an element to the identifier index and its page's item list.
// A reused identifier silently overwrites the index entry (last occurrence
// wins). One source record legitimately emits several elements under the
// same id, one per page occurrence, so a collision is logged only when a
// different record claims an id already owned by another; owner names the
// emitting record as collection/index.
func (p *Parser) insert(doc *model.Document, elem model.Element, owner string, owners map[string]string) {
	id := elem.ElementID()
	if prev, ok := owners[id]; ok && prev != owner {
		p.log.Warn().Str("id", id).
			Str("prev_record", prev).
			Str("record", owner).
			Msg("identifier reused by a different record; index keeps the last occurrence")
	}
	owners[id] = owner
	doc.ItemsByID[id] = elem

	if page, ok := doc.Pages[elem.PageNumber()]; ok {
		page.AddItem(elem)
	}
}

func (p *Parser) decodeItems(raw json.RawMessage, what string) []rawItem {
	var items []rawItem
	for i, entry := range decodeList(raw) {
		var item rawItem
		if err := json.Unmarshal(entry, &item); err != nil {
			p.log.Warn().Str("collection", what).Int("index", i).Err(err).
				Msg("skipping malformed record")
			continue
		}
		items = append(items, item)
	}
	return items
}

func (p *Parser) collectTexts(raw rawDocument, doc *model.Document, dims map[int]pageSize, owners map[string]string) {
	for i, item := range p.decodeItems(raw.Texts, "texts") {
		id := itemID(item, "text", i)
		label := string(item.Label)
		if label == "" {
			label = "text"
		}
		category := classify(item)

		for _, occ := range p.extractProvenance(item, dims) {
			p.insert(doc, &model.Item{
				ID:        id,
				Category:  category,
				BBox:      occ.rect,
				PageNo:    occ.pageNo,
				Label:     label,
				Text:      string(item.Text),
				Metadata:  map[string]string{"orig_label": label},
				Furniture: category == model.CategoryFurniture,
			}, fmt.Sprintf("texts/%d", i), owners)
		}
	}
}

func (p *Parser) collectPictures(raw rawDocument, doc *model.Document, dims map[int]pageSize, owners map[string]string) {
	for i, item := range p.decodeItems(raw.Pictures, "pictures") {
		id := itemID(item, "picture", i)
		label := string(item.Label)
		if label == "" {
			label = "picture"
		}

		for _, occ := range p.extractProvenance(item, dims) {
			p.insert(doc, &model.Item{
				ID:       id,
				Category: model.CategoryPicture,
				BBox:     occ.rect,
				PageNo:   occ.pageNo,
				Label:    label,
				Metadata: map[string]string{"orig_label": label},
			}, fmt.Sprintf("pictures/%d", i), owners)
		}
	}
}

func (p *Parser) collectTables(raw rawDocument, doc *model.Document, dims map[int]pageSize, owners map[string]string) {
	for i, item := range p.decodeItems(raw.Tables, "tables") {
		id := itemID(item, "table", i)
		label := string(item.Label)
		if label == "" {
			label = "table"
		}

		for _, occ := range p.extractProvenance(item, dims) {
			table := &model.TableItem{
				Item: model.Item{
					ID:       id,
					Category: model.CategoryTable,
					BBox:     occ.rect,
					PageNo:   occ.pageNo,
					Label:    label,
					Metadata: map[string]string{"orig_label": label},
				},
			}

			pageHeight := DefaultPageHeight
			if size, ok := dims[occ.pageNo]; ok {
				pageHeight = size.height
			}
			p.parseCells(item.Data, table, pageHeight)

			p.insert(doc, table, fmt.Sprintf("tables/%d", i), owners)
		}
	}
}

// parseCells fills a table's cell collection from its nested data block.
// The grid appears either as a two-dimensional row-major structure or as a
// flat list of cell records; a 2D grid is flattened into one ordered cell
// sequence first. Cells without geometry are skipped. Cell geometry is not
// validity-filtered: degenerate cells are kept so the declared grid shape
// stays inspectable.
func (p *Parser) parseCells(data json.RawMessage, table *model.TableItem, pageHeight float64) {
	if len(data) == 0 {
		return
	}

	var td rawTableData
	if err := json.Unmarshal(data, &td); err != nil {
		p.log.Warn().Str("id", table.ID).Err(err).Msg("skipping malformed table data")
		return
	}
	table.NumRows = int(td.NumRows)
	table.NumCols = int(td.NumCols)

	grid := td.Grid
	if len(grid) == 0 {
		grid = td.TableCells
	}

	entries := decodeList(grid)
	var cellsRaw []json.RawMessage
	if len(entries) > 0 && isJSONArray(entries[0]) {
		// 2D grid: flatten rows into a single ordered list.
		for _, row := range entries {
			cellsRaw = append(cellsRaw, decodeList(row)...)
		}
	} else {
		cellsRaw = entries
	}

	for i, cellRaw := range cellsRaw {
		var cell rawCell
		if err := json.Unmarshal(cellRaw, &cell); err != nil {
			p.log.Warn().Str("id", table.ID).Int("cell", i).Err(err).
				Msg("skipping malformed table cell")
			continue
		}
		if isMissingPayload(cell.BBox) {
			continue
		}

		var box rawBBox
		if err := json.Unmarshal(cell.BBox, &box); err != nil {
			p.log.Warn().Str("id", table.ID).Int("cell", i).Err(err).
				Msg("skipping table cell with malformed bounding box")
			continue
		}

		rect, err := NormalizeRect(rawToBBox(box), pageHeight, p.defaultOrigin)
		if err != nil {
			p.log.Warn().Str("id", table.ID).Int("cell", i).Err(err).
				Msg("skipping table cell with unknown coordinate origin")
			continue
		}

		table.Cells = append(table.Cells, model.TableCell{
			BBox:     rect,
			Row:      intOr(cell.Row, intOr(cell.StartRowIdx, 0)),
			Col:      intOr(cell.Col, intOr(cell.StartColIdx, 0)),
			RowSpan:  intOr(cell.RowSpan, 1),
			ColSpan:  intOr(cell.ColSpan, 1),
			IsHeader: cell.ColumnHeader || cell.RowHeader,
			Text:     string(cell.Text),
		})
	}
}

func intOr(v *flexInt, fallback int) int {
	if v == nil {
		return fallback
	}
	return int(*v)
}

// collectFurniture resolves the structural furniture container, whose
// children are reference pointers into the texts collection. A reference
// matches a text record by exact identifier equality or by suffix
// containment against the reference path. Every resolved reference emits a
// furniture-flagged element regardless of the record's own classification.
func (p *Parser) collectFurniture(raw rawDocument, doc *model.Document, dims map[int]pageSize, owners map[string]string) {
	if len(raw.Furniture) == 0 {
		return
	}

	var furn rawFurniture
	if err := json.Unmarshal(raw.Furniture, &furn); err != nil {
		p.log.Warn().Err(err).Msg("skipping malformed furniture container")
		return
	}

	texts := p.decodeItems(raw.Texts, "texts")

	for _, childRaw := range furn.Children {
		ref := childRefString(childRaw)
		if ref == "" {
			continue
		}

		for i, item := range texts {
			selfRef := string(item.SelfRef)
			if selfRef == "" {
				continue
			}
			if selfRef != ref && !strings.HasSuffix(ref, selfRef) {
				continue
			}

			id := itemID(item, "furniture", i)
			label := string(item.Label)
			if label == "" {
				label = "furniture"
			}

			// Re-emission of the same source record, so it shares the
			// text collector's owner key.
			owner := fmt.Sprintf("texts/%d", i)
			for _, occ := range p.extractProvenance(item, dims) {
				p.insert(doc, &model.Item{
					ID:        id,
					Category:  model.CategoryFurniture,
					BBox:      occ.rect,
					PageNo:    occ.pageNo,
					Label:     label,
					Text:      string(item.Text),
					Metadata:  map[string]string{"orig_label": label},
					Furniture: true,
				}, owner, owners)
			}
		}
	}
}

func childRefString(data json.RawMessage) string {
	var child rawChildRef
	if err := json.Unmarshal(data, &child); err == nil && child.Ref != "" {
		return string(child.Ref)
	}
	var s flexString
	if err := s.UnmarshalJSON(data); err == nil {
		return string(s)
	}
	return ""
}
