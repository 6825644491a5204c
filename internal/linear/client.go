// Package linear is a minimal client for the Linear GraphQL API.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/salmonumbrella/rofi-linear/internal/debug"
)

const (
	// DefaultAPIEndpoint is the Linear GraphQL endpoint.
	DefaultAPIEndpoint = "https://api.linear.app/graphql"

	// EndpointEnvVarName overrides DefaultAPIEndpoint.
	EndpointEnvVarName = "LINEAR_API_ENDPOINT"

	defaultTimeout = 30 * time.Second
)

// Client issues GraphQL operations with a single API key. There are no
// retries: every failure is returned to the caller as-is.
type Client struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
}

// NewClient creates a client for apiKey with a 30s timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:   apiKey,
		endpoint: DefaultAPIEndpoint,
	}
}

// WithHTTPClient sets a custom HTTP client
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithEndpoint sets a custom GraphQL endpoint (useful for testing)
func (c *Client) WithEndpoint(endpoint string) *Client {
	if endpoint != "" {
		c.endpoint = endpoint
	}
	return c
}

// WithDebugOutput enables request/response tracing to the provided writer.
func (c *Client) WithDebugOutput(w io.Writer) *Client {
	baseTransport := c.httpClient.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}

	// Copy so a shared *http.Client passed to WithHTTPClient is not mutated.
	hc := *c.httpClient
	hc.Transport = debug.NewDebugTransport(baseTransport, w)
	c.httpClient = &hc
	return c
}

// Endpoint returns the GraphQL endpoint in use.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLErrorEntry `json:"errors"`
}

type graphQLErrorEntry struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// do posts one GraphQL operation and decodes its data object into out.
func (c *Client) do(ctx context.Context, op, query string, variables map[string]any, out any) error {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("graphql request failed", "op", op, "duration", time.Since(start), "error", err)
		return &HTTPError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	slog.Debug("graphql request", "op", op, "status", resp.StatusCode, "duration", time.Since(start))
	if err != nil {
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return &ProtocolError{Op: op, Reason: "invalid response body", Err: err}
	}

	if len(envelope.Errors) > 0 {
		return newGraphQLError(op, envelope.Errors)
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &ProtocolError{Op: op, Reason: "missing data"}
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &ProtocolError{Op: op, Reason: "unexpected data shape", Err: err}
	}
	return nil
}

// require returns *v, or a ProtocolError naming the missing field.
func require[T any](op, field string, v *T) (T, error) {
	if v == nil {
		var zero T
		return zero, &ProtocolError{Op: op, Reason: fmt.Sprintf("missing field %q", field)}
	}
	return *v, nil
}
