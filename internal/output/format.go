package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is human-readable output (default).
	FormatText Format = "text"
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
	// FormatTable is tabular format for lists.
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format type.
// Empty string defaults to FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", clierrors.New(clierrors.KindUsage, fmt.Sprintf("invalid --output format %q", s)).
			WithSuggestion("Use one of: text, json, yaml, table")
	}
}

// Structured reports whether f is meant for machines rather than people.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Printer handles output formatting across different formats.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a new Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Format returns the printer's format.
func (p *Printer) Format() Format {
	return p.format
}

// Print outputs data in the configured format after applying the
// --jsonpath and --query selectors found in ctx.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}

	path := JSONPathFromContext(ctx)
	query := QueryFromContext(ctx)
	if path == "" && query == "" {
		return p.print(data)
	}

	normalized, err := normalize(data)
	if err != nil {
		return err
	}
	if path != "" {
		normalized, err = applyJSONPath(normalized, path)
		if err != nil {
			return err
		}
	}
	if query == "" {
		return p.print(normalized)
	}

	results, err := runQuery(query, normalized)
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := p.print(r); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) print(data interface{}) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(data)
	case FormatYAML:
		return p.printYAML(data)
	case FormatTable:
		return p.printTable(data)
	case FormatText:
		return p.printText(data)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func (p *Printer) printJSON(data interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (p *Printer) printYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

// printText prints scalars as-is, maps as sorted "key: value" lines and
// lists one item per line.
func (p *Printer) printText(data interface{}) error {
	switch v := data.(type) {
	case Table:
		return p.printTableFromTable(v)
	case Tabular:
		return p.printTableFromTable(v.Table())
	case string, bool, float64, int, int64, json.Number:
		_, err := fmt.Fprintln(p.w, v)
		return err
	}

	normalized, err := normalize(data)
	if err != nil {
		return err
	}
	switch v := normalized.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		for _, k := range sortedKeys(v) {
			if _, err := fmt.Fprintf(p.w, "%s: %s\n", k, formatCell(v[k])); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		for _, item := range v {
			if _, err := fmt.Fprintln(p.w, formatCell(item)); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(p.w, formatCell(v))
		return err
	}
}

// normalize converts typed values into the map/slice form that gojq and
// jsonpath operate on, honouring json tags.
func normalize(data interface{}) (interface{}, error) {
	switch data.(type) {
	case nil, map[string]interface{}, []interface{}, string, bool, float64:
		return data, nil
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("failed to decode output: %w", err)
	}
	return out, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatCell renders a normalized value on a single line.
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case map[string]interface{}, []interface{}:
		buf, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(buf)
	default:
		return fmt.Sprintf("%v", val)
	}
}
