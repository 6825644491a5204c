package linear

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

const maxErrorBody = 512

// HTTPError is a non-2xx response or a transport failure. StatusCode is 0
// when no response was received (connection error, timeout, cancellation).
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("linear %s: request failed: %v", e.Op, e.Err)
	}
	body := strings.TrimSpace(e.Body)
	if len(body) > maxErrorBody {
		body = truncateUTF8(body, maxErrorBody) + "..."
	}
	if body == "" {
		return fmt.Sprintf("linear %s: HTTP %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("linear %s: HTTP %d: %s", e.Op, e.StatusCode, body)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// Kind implements errors.Kinded.
func (e *HTTPError) Kind() clierrors.Kind { return clierrors.KindRemoteHTTP }

// GraphQLError carries the messages of a non-empty "errors" array. Codes
// holds each entry's extensions.code where Linear sent one.
type GraphQLError struct {
	Op       string
	Messages []string
	Codes    []string
}

func newGraphQLError(op string, entries []graphQLErrorEntry) *GraphQLError {
	e := &GraphQLError{Op: op, Messages: make([]string, len(entries))}
	for i, entry := range entries {
		e.Messages[i] = entry.Message
		if entry.Extensions.Code != "" {
			e.Codes = append(e.Codes, entry.Extensions.Code)
		}
	}
	return e
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("linear %s: GraphQL errors: %s", e.Op, strings.Join(e.Messages, ", "))
}

// Kind implements errors.Kinded.
func (e *GraphQLError) Kind() clierrors.Kind { return clierrors.KindRemoteGraphQL }

// ProtocolError is a response that does not match the expected schema.
type ProtocolError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("linear %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("linear %s: %s", e.Op, e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Kind implements errors.Kinded.
func (e *ProtocolError) Kind() clierrors.Kind { return clierrors.KindRemoteProtocol }

// IssueCreateRejectedError is returned when issueCreate reports success: false.
type IssueCreateRejectedError struct {
	TeamID string
	Title  string
}

func (e *IssueCreateRejectedError) Error() string {
	return "linear issueCreate: issue creation was rejected"
}

// Kind implements errors.Kinded.
func (e *IssueCreateRejectedError) Kind() clierrors.Kind {
	return clierrors.KindIssueCreateRejected
}

const authenticationErrorCode = "AUTHENTICATION_ERROR"

// IsAuthFailure reports whether err means Linear refused the API key:
// HTTP 401 or 403, or an AUTHENTICATION_ERROR code in the GraphQL errors
// (Linear sends those with HTTP 400).
func IsAuthFailure(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return true
		case http.StatusBadRequest:
			var envelope graphQLResponse
			if json.Unmarshal([]byte(httpErr.Body), &envelope) != nil {
				return false
			}
			return newGraphQLError(httpErr.Op, envelope.Errors).hasCode(authenticationErrorCode)
		}
		return false
	}
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return gqlErr.hasCode(authenticationErrorCode)
	}
	return false
}

func (e *GraphQLError) hasCode(code string) bool {
	return slices.Contains(e.Codes, code)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
