// Package output renders command results for scripts.
//
// Supported formats:
//   - text: human-readable lines (default)
//   - json: pretty-printed JSON
//   - yaml: YAML
//   - table: aligned columns for lists
//
// The format, the jq filter (--query) and the JSONPath selector (--jsonpath)
// are attached to the command context in root.go and read back by Print:
//
//	ctx = output.WithFormat(ctx, format)
//	ctx = output.WithQuery(ctx, query)
//	...
//	printer := output.NewPrinter(os.Stdout, output.FormatFromContext(ctx))
//	return printer.Print(ctx, data)
//
// --jsonpath is applied before --query, so both can be combined.
package output
