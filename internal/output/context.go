package output

import "context"

type ctxKey int

const (
	formatKey ctxKey = iota
	queryKey
	jsonPathKey
)

func valueOr[T any](ctx context.Context, key ctxKey, fallback T) T {
	if v, ok := ctx.Value(key).(T); ok {
		return v
	}
	return fallback
}

// WithFormat attaches the output format to ctx.
func WithFormat(ctx context.Context, format Format) context.Context {
	return context.WithValue(ctx, formatKey, format)
}

// FormatFromContext returns the attached format, FormatText when unset.
func FormatFromContext(ctx context.Context) Format {
	return valueOr(ctx, formatKey, FormatText)
}

// WithQuery attaches a jq filter applied before rendering.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey, query)
}

func QueryFromContext(ctx context.Context) string {
	return valueOr(ctx, queryKey, "")
}

// WithJSONPath attaches a JSONPath expression applied before rendering.
func WithJSONPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, jsonPathKey, path)
}

func JSONPathFromContext(ctx context.Context) string {
	return valueOr(ctx, jsonPathKey, "")
}
