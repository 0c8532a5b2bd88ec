package model

// PageRecord holds one page's dimensions and content. Width and height are
// in source units (points) in the canonical convention. Items preserve
// source encounter order, not spatial order.
type PageRecord struct {
	PageNo int
	Width  float64
	Height float64
	Items  []Element
}

// NewPageRecord creates an empty page with the given dimensions.
func NewPageRecord(pageNo int, width, height float64) *PageRecord {
	return &PageRecord{
		PageNo: pageNo,
		Width:  width,
		Height: height,
		Items:  make([]Element, 0),
	}
}

// AddItem appends an element to the page.
func (p *PageRecord) AddItem(elem Element) {
	p.Items = append(p.Items, elem)
}

// Filtered returns the page's elements restricted to the given categories
// (nil or empty = all) and, when includeFurniture is false, with furniture
// elements removed. The page is not modified.
func (p *PageRecord) Filtered(categories []Category, includeFurniture bool) []Element {
	allowed := make(map[Category]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	out := make([]Element, 0, len(p.Items))
	for _, elem := range p.Items {
		if len(allowed) > 0 && !allowed[elem.ElementCategory()] {
			continue
		}
		if !includeFurniture && elem.IsFurniture() {
			continue
		}
		out = append(out, elem)
	}
	return out
}
