// Package model provides the normalized in-memory representation of a
// parsed document layout.
//
// This package defines the user-facing data structures produced by the
// docjson parser and consumed by the overlay renderer. All geometry is
// expressed in a single canonical coordinate convention: origin at the
// top-left corner of the page, y increasing downward, in source units
// (typically publishing points).
//
// # Document Structure
//
// The [Document] type aggregates pages and an identifier index:
//
//	doc := model.NewDocument("report", "1.4.0")
//	doc.AddPage(model.NewPageRecord(1, 612, 792))
//
// Each [PageRecord] holds dimensions and an ordered list of [Element]
// occurrences in source encounter order.
//
// # Elements
//
// All page content implements the [Element] interface. The concrete types
// are [*Item] (text, headings, pictures, lists, furniture) and [*TableItem]
// (tables with an owned [TableCell] collection). The semantic [Category]
// tag is computed at parse time and is independent of the structural shape.
//
// # Geometry
//
// [NormalizedRect] supports uniform and independent per-axis scaling, both
// of which return new values:
//
//	scaled := rect.ScaleXY(xFactor, yFactor)
//
// A rectangle is valid iff both dimensions are positive; the parser drops
// occurrences whose normalized geometry is invalid.
package model
