package model

// Category is the semantic classification of a document element.
// The set is closed; classification assigns exactly one of these values.
type Category string

const (
	CategoryText      Category = "text"
	CategoryHeading   Category = "heading"
	CategoryTable     Category = "table"
	CategoryPicture   Category = "picture"
	CategoryList      Category = "list"
	CategoryFurniture Category = "furniture"
)

// Categories returns the closed set of semantic categories.
func Categories() []Category {
	return []Category{
		CategoryText,
		CategoryHeading,
		CategoryTable,
		CategoryPicture,
		CategoryList,
		CategoryFurniture,
	}
}

// Element is the interface implemented by every page element occurrence.
// The concrete types are [*Item] and [*TableItem]; a type switch on the
// concrete type recovers table structure where it exists, while the
// Category tag carries the runtime classification.
type Element interface {
	ElementID() string
	ElementCategory() Category
	BoundingBox() NormalizedRect
	PageNumber() int
	IsFurniture() bool
}

// Item is one visual element occurrence on one page. A source record that
// appears on several pages yields one Item per page occurrence.
type Item struct {
	ID        string            // stable identifier, unique within a document
	Category  Category          // semantic classification
	BBox      NormalizedRect    // geometry in canonical coordinates
	PageNo    int               // originating page, 1-indexed
	Label     string            // short human label from the source schema
	Text      string            // free text payload, may be empty
	Metadata  map[string]string // open bag; always carries the source label
	Children  []string          // ids of child elements, weak references
	Furniture bool              // repeating header/footer content
}

func (i *Item) ElementID() string           { return i.ID }
func (i *Item) ElementCategory() Category   { return i.Category }
func (i *Item) BoundingBox() NormalizedRect { return i.BBox }
func (i *Item) PageNumber() int             { return i.PageNo }
func (i *Item) IsFurniture() bool           { return i.Furniture }
