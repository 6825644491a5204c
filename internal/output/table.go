package output

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

// Table represents a pre-rendered table for table output formatting.
type Table struct {
	Headers []string   `json:"headers" yaml:"headers"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Tabular is implemented by result types that know their own columns.
type Tabular interface {
	Table() Table
}

func (p *Printer) printTable(data interface{}) error {
	switch v := data.(type) {
	case Table:
		return p.printTableFromTable(v)
	case *Table:
		if v == nil {
			return nil
		}
		return p.printTableFromTable(*v)
	case Tabular:
		return p.printTableFromTable(v.Table())
	}

	normalized, err := normalize(data)
	if err != nil {
		return err
	}
	switch v := normalized.(type) {
	case nil:
		return nil
	case []interface{}:
		return p.printTableFromMaps(v)
	case map[string]interface{}:
		return p.printTableFromMaps([]interface{}{v})
	default:
		return clierrors.New(clierrors.KindUsage, "table format requires a list or an object").
			WithSuggestion("Use --output json for scalar results")
	}
}

func (p *Printer) printTableFromTable(t Table) error {
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if len(t.Headers) > 0 {
		_, _ = fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// printTableFromMaps uses the union of keys across all rows, sorted, as
// columns. Non-object rows are printed in a single VALUE column.
func (p *Printer) printTableFromMaps(items []interface{}) error {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var keys []string
	scalar := false
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			scalar = true
			continue
		}
		for _, k := range sortedKeys(m) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}

	if scalar || len(keys) == 0 {
		t := Table{Headers: []string{"VALUE"}}
		for _, item := range items {
			t.Rows = append(t.Rows, []string{formatCell(item)})
		}
		return p.printTableFromTable(t)
	}

	sort.Strings(keys)
	t := Table{Headers: make([]string, len(keys))}
	for i, k := range keys {
		t.Headers[i] = strings.ToUpper(k)
	}
	for _, item := range items {
		m := item.(map[string]interface{})
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = formatCell(m[k])
		}
		t.Rows = append(t.Rows, row)
	}
	return p.printTableFromTable(t)
}
