// Package output renders CLI command results as a table, JSON, or YAML,
// the way the teacher project's internal/cli/output does for dittofs'
// status/config/user commands.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format is the output encoding a command was asked to render as.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a --output flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
}

func (f Format) String() string {
	return string(f)
}

// TableRenderer is implemented by types that know how to lay themselves
// out as a table (e.g. pkg/trace.Sample rows in a histogram report).
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// Print writes data in the requested format. Table format falls back to
// JSON for data that doesn't implement TableRenderer.
func Print(w io.Writer, format Format, data any) error {
	switch format {
	case FormatTable:
		if renderer, ok := data.(TableRenderer); ok {
			return PrintTable(w, renderer)
		}
		return PrintJSON(w, data)
	case FormatJSON:
		return PrintJSON(w, data)
	case FormatYAML:
		return PrintYAML(w, data)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
