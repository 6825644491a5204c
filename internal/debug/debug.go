// Package debug provides an HTTP transport that traces GraphQL traffic.
package debug

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	maxRequestBody  = 500
	maxResponseBody = 1000
)

type contextKey struct{}

// WithDebug injects the debug flag into the context
func WithDebug(ctx context.Context, debug bool) context.Context {
	return context.WithValue(ctx, contextKey{}, debug)
}

// IsDebug returns true if debug mode is enabled in the context
func IsDebug(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// DebugTransport wraps http.RoundTripper to log requests and responses.
type DebugTransport struct {
	Transport http.RoundTripper
	Output    io.Writer
}

// NewDebugTransport creates a new DebugTransport with the given base transport.
// If output is nil, it defaults to os.Stderr
func NewDebugTransport(base http.RoundTripper, output io.Writer) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if output == nil {
		output = os.Stderr
	}
	return &DebugTransport{
		Transport: base,
		Output:    output,
	}
}

// RedactAuthorization hides everything but the last four characters of an
// Authorization header value. Linear keys are sent raw, but a "Bearer "
// prefix is tolerated.
func RedactAuthorization(val string) string {
	prefix := ""
	if strings.HasPrefix(val, "Bearer ") {
		prefix = "Bearer "
		val = val[len(prefix):]
	}
	if len(val) <= 10 {
		return prefix + "..."
	}
	return prefix + "..." + val[len(val)-4:]
}

// RoundTrip implements http.RoundTripper. Bodies are buffered and restored.
func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	_, _ = fmt.Fprintf(t.Output, "\n--> %s %s\n", req.Method, req.URL)
	t.writeHeaders(req.Header, true)

	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			_, _ = fmt.Fprintf(t.Output, "    [ERROR reading request body: %v]\n", err)
		} else {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			if op := graphQLOperation(bodyBytes); op != "" {
				_, _ = fmt.Fprintf(t.Output, "    Operation: %s\n", op)
			}
			t.writeBody(bodyBytes, maxRequestBody)
		}
	}

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		_, _ = fmt.Fprintf(t.Output, "<-- ERROR: %v (%s)\n\n", err, duration)
		return resp, err
	}

	_, _ = fmt.Fprintf(t.Output, "<-- %d %s (%s)\n", resp.StatusCode, resp.Status, duration)

	// Linear reports request-based limits; reset is a Unix timestamp in milliseconds.
	if rl := resp.Header.Get("X-RateLimit-Requests-Remaining"); rl != "" {
		limit := resp.Header.Get("X-RateLimit-Requests-Limit")
		resetStr := ""
		if reset := resp.Header.Get("X-RateLimit-Requests-Reset"); reset != "" {
			if ms, err := strconv.ParseInt(reset, 10, 64); err == nil {
				if remaining := time.Until(time.UnixMilli(ms)); remaining > 0 {
					resetStr = fmt.Sprintf(" (resets in %ds)", int(remaining.Seconds()))
				}
			}
		}
		_, _ = fmt.Fprintf(t.Output, "    Rate-Limit: %s/%s remaining%s\n", rl, limit, resetStr)
	}

	t.writeHeaders(resp.Header, false)

	if resp.Body != nil {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			_, _ = fmt.Fprintf(t.Output, "    [ERROR reading response body: %v]\n\n", err)
		} else {
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			t.writeBody(bodyBytes, maxResponseBody)
		}
	}

	_, _ = fmt.Fprintln(t.Output)

	return resp, nil
}

func (t *DebugTransport) writeHeaders(h http.Header, redact bool) {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		values := h[key]
		if redact && key == "Authorization" && len(values) > 0 {
			_, _ = fmt.Fprintf(t.Output, "    %s: %s\n", key, RedactAuthorization(values[0]))
			continue
		}
		_, _ = fmt.Fprintf(t.Output, "    %s: %s\n", key, strings.Join(values, ", "))
	}
}

func (t *DebugTransport) writeBody(body []byte, limit int) {
	if len(body) == 0 {
		return
	}
	bodyStr := string(body)
	if len(bodyStr) > limit {
		bodyStr = bodyStr[:limit] + "... [truncated]"
	}
	_, _ = fmt.Fprintf(t.Output, "    Body: %s\n", bodyStr)
}

// graphQLOperation returns the header line of a GraphQL request body,
// e.g. "query Teams", or "" when body is not a GraphQL request.
func graphQLOperation(body []byte) string {
	var payload struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(payload.Query), "\n")
	if i := strings.IndexAny(line, "({"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
