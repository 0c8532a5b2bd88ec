// Package docjson parses docling-style layout-analysis JSON into the
// normalized document model.
//
// The source format is a loosely-typed element tree: a pages collection
// (map or sequence), per-category element arrays (texts, tables,
// pictures), and a furniture container of references into texts. Each
// element carries a provenance list of (page, bounding box) occurrences;
// boxes arrive in either a bottom-left or top-left coordinate convention
// and are converted to the canonical top-left system via [NormalizeRect].
//
// Parsing is deliberately forgiving: missing collections, missing page
// sizes, and malformed individual records produce warnings and sparse
// output, never errors. The only hard failures are an unreadable file and
// input that is not a JSON object.
package docjson
