package docjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The source schema is loosely typed: numbers occasionally arrive as
// strings, identifiers as numbers, and several containers come in two
// shapes. The raw types below absorb that variance so the parser proper
// only deals with clean values.

// flexFloat decodes a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*f = flexFloat(v)
	return nil
}

// flexInt decodes a JSON integer, float, or numeric string to an int.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}

// flexString decodes a JSON string or number to a string.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("not a string: %s", data)
	}
	*s = flexString(n.String())
	return nil
}

type rawDocument struct {
	SchemaName string          `json:"schema_name"`
	Version    string          `json:"version"`
	Name       string          `json:"name"`
	Origin     rawOrigin       `json:"origin"`
	Pages      json.RawMessage `json:"pages"`
	Texts      json.RawMessage `json:"texts"`
	Tables     json.RawMessage `json:"tables"`
	Pictures   json.RawMessage `json:"pictures"`
	Furniture  json.RawMessage `json:"furniture"`
}

type rawOrigin struct {
	Filename flexString `json:"filename"`
}

type rawPage struct {
	Size rawSize `json:"size"`
}

type rawSize struct {
	Width  *flexFloat `json:"width"`
	Height *flexFloat `json:"height"`
}

type rawItem struct {
	SelfRef flexString      `json:"self_ref"`
	ID      flexString      `json:"id"`
	Type    flexString      `json:"type"`
	Label   flexString      `json:"label"`
	Text    flexString      `json:"text"`
	Prov    []rawProv       `json:"prov"`
	Data    json.RawMessage `json:"data"`
}

type rawProv struct {
	PageNo *flexInt        `json:"page_no"`
	Page   *flexInt        `json:"page"`
	BBox   json.RawMessage `json:"bbox"`
}

type rawBBox struct {
	L           flexFloat  `json:"l"`
	R           flexFloat  `json:"r"`
	T           flexFloat  `json:"t"`
	B           flexFloat  `json:"b"`
	CoordOrigin flexString `json:"coord_origin"`
}

type rawTableData struct {
	Grid       json.RawMessage `json:"grid"`
	TableCells json.RawMessage `json:"table_cells"`
	NumRows    flexInt         `json:"num_rows"`
	NumCols    flexInt         `json:"num_cols"`
}

type rawCell struct {
	BBox         json.RawMessage `json:"bbox"`
	Row          *flexInt        `json:"row"`
	Col          *flexInt        `json:"col"`
	StartRowIdx  *flexInt        `json:"start_row_offset_idx"`
	StartColIdx  *flexInt        `json:"start_col_offset_idx"`
	RowSpan      *flexInt        `json:"row_span"`
	ColSpan      *flexInt        `json:"col_span"`
	ColumnHeader bool            `json:"column_header"`
	RowHeader    bool            `json:"row_header"`
	Text         flexString      `json:"text"`
}

type rawFurniture struct {
	Children []json.RawMessage `json:"children"`
}

type rawChildRef struct {
	Ref flexString `json:"$ref"`
}

// decodeList unmarshals a collection that should be an array, returning nil
// both for an absent collection and for one with an unexpected shape.
func decodeList(data json.RawMessage) []json.RawMessage {
	if len(data) == 0 {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil
	}
	return list
}

// isJSONArray reports whether the raw value is a JSON array.
func isJSONArray(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
