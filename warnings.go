package docviz

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal problem reported by a terminal
// operation.
type WarningKind string

const (
	// WarnParse covers problems in the source JSON: malformed units that
	// were dropped, identifier collisions, unknown coordinate origins.
	WarnParse WarningKind = "parse"

	// WarnRaster means page images could not be produced and the output
	// fell back to flat-multiplier scaling.
	WarnRaster WarningKind = "raster"

	// WarnCompat means the discovered PDF does not look like the document
	// the JSON was produced from.
	WarnCompat WarningKind = "compat"

	// WarnSource covers source-PDF discovery issues, such as a filename
	// that does not match the document's recorded origin.
	WarnSource WarningKind = "source"
)

// Warning describes a non-fatal issue encountered during processing.
// Terminal operations return accumulated warnings alongside their result;
// the result is still usable when warnings are present.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}

// FormatWarnings renders warnings one per line for display or logging.
// It returns an empty string for an empty slice.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, w.String())
	}
	return strings.Join(lines, "\n")
}
