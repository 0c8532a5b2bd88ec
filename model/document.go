package model

import "sort"

// Document is the top-level aggregate produced by a single parse pass. It
// is built once and treated as immutable by consumers; renderers only read
// it and produce independent, serializable copies.
type Document struct {
	Name    string
	Version string // source schema version, diagnostic only
	Origin  string // source filename recorded in the input, may be empty

	// Pages maps page number to page record.
	Pages map[int]*PageRecord

	// ItemsByID gives direct element lookup across all pages. If a source
	// identifier is reused, the last occurrence wins.
	ItemsByID map[string]Element
}

// NewDocument creates an empty document.
func NewDocument(name, version string) *Document {
	return &Document{
		Name:      name,
		Version:   version,
		Pages:     make(map[int]*PageRecord),
		ItemsByID: make(map[string]Element),
	}
}

// AddPage registers a page record, replacing any existing record for the
// same page number.
func (d *Document) AddPage(page *PageRecord) {
	d.Pages[page.PageNo] = page
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// PageNumbers returns the page numbers in ascending order.
func (d *Document) PageNumbers() []int {
	nums := make([]int, 0, len(d.Pages))
	for n := range d.Pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// GetPageItems returns the elements on a page, optionally filtered to the
// given categories (nil = all) and with furniture excluded when
// includeFurniture is false. Unknown pages yield an empty slice. The
// document is never mutated.
func (d *Document) GetPageItems(pageNo int, categories []Category, includeFurniture bool) []Element {
	page, ok := d.Pages[pageNo]
	if !ok {
		return nil
	}
	return page.Filtered(categories, includeFurniture)
}

// ItemCount returns the total number of element occurrences across pages.
func (d *Document) ItemCount() int {
	total := 0
	for _, page := range d.Pages {
		total += len(page.Items)
	}
	return total
}
