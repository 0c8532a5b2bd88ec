package model

// TableCell is a single cell owned by a TableItem. It is not a standalone
// element; its geometry is normalized with the same page height as the
// parent table's page.
type TableCell struct {
	BBox     NormalizedRect
	Row      int // zero-indexed
	Col      int // zero-indexed
	RowSpan  int // defaults to 1
	ColSpan  int // defaults to 1
	IsHeader bool
	Text     string
}

// TableItem is a table element occurrence. It extends Item with an ordered
// cell collection and the source's declared row/column counts. Declared
// counts of zero mean the source omitted them; that is not an error, and
// the cell list may cover fewer positions than the declared grid.
type TableItem struct {
	Item
	Cells   []TableCell
	NumRows int
	NumCols int
}

// HeaderCells returns the cells marked as row or column headers, in cell
// order.
func (t *TableItem) HeaderCells() []TableCell {
	var headers []TableCell
	for _, c := range t.Cells {
		if c.IsHeader {
			headers = append(headers, c)
		}
	}
	return headers
}

// CellAt returns the first cell whose position matches (row, col), or nil.
func (t *TableItem) CellAt(row, col int) *TableCell {
	for i := range t.Cells {
		if t.Cells[i].Row == row && t.Cells[i].Col == col {
			return &t.Cells[i]
		}
	}
	return nil
}
