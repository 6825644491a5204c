// Package testutil provides testing utilities for rofi-linear.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"unicode"
)

// GraphQLRequest is a request received by GraphQLServer.
type GraphQLRequest struct {
	Field     string
	Query     string
	Variables map[string]any
	Header    http.Header
}

// GraphQLServer is an httptest server that routes GraphQL requests by the
// first root field named in the query ("viewer", "teams", "issueCreate")
// and records every request it receives.
type GraphQLServer struct {
	server   *httptest.Server
	handlers map[string]http.HandlerFunc
	requests []GraphQLRequest
	mu       sync.RWMutex
}

// NewGraphQLServer creates a new mock GraphQL server.
func NewGraphQLServer() *GraphQLServer {
	gs := &GraphQLServer{
		handlers: make(map[string]http.HandlerFunc),
	}

	gs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		_ = json.Unmarshal(body, &payload)
		field := RootField(payload.Query)

		gs.mu.Lock()
		gs.requests = append(gs.requests, GraphQLRequest{
			Field:     field,
			Query:     payload.Query,
			Variables: payload.Variables,
			Header:    r.Header.Clone(),
		})
		handler, ok := gs.handlers[field]
		gs.mu.Unlock()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if ok {
			handler(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"errors": []map[string]string{{"message": fmt.Sprintf("no mock for field %q", field)}},
		})
	}))

	return gs
}

// URL returns the GraphQL endpoint URL.
func (gs *GraphQLServer) URL() string {
	return gs.server.URL + "/graphql"
}

// Close shuts down the server.
func (gs *GraphQLServer) Close() {
	gs.server.Close()
}

// Handle registers a custom handler for a root field.
func (gs *GraphQLServer) Handle(field string, handler http.HandlerFunc) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.handlers[field] = handler
}

// HandleData responds to field with {"data": data}.
func (gs *GraphQLServer) HandleData(field string, data any) {
	gs.HandleEnvelope(field, map[string]any{"data": data})
}

// HandleEnvelope responds to field with the given response envelope.
func (gs *GraphQLServer) HandleEnvelope(field string, envelope any) {
	gs.Handle(field, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope)
	})
}

// HandleErrors responds to field with a GraphQL errors array.
func (gs *GraphQLServer) HandleErrors(field string, messages ...string) {
	errs := make([]map[string]string, len(messages))
	for i, m := range messages {
		errs[i] = map[string]string{"message": m}
	}
	gs.HandleEnvelope(field, map[string]any{"data": nil, "errors": errs})
}

// HandleStatus responds to field with a raw body and HTTP status.
func (gs *GraphQLServer) HandleStatus(field string, status int, body string) {
	gs.Handle(field, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// HandleViewer registers a successful viewer response.
func (gs *GraphQLServer) HandleViewer(id, name, email string) {
	gs.HandleData("viewer", map[string]any{
		"viewer": map[string]string{"id": id, "name": name, "email": email},
	})
}

// Team is a remote team returned by HandleTeams.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// HandleTeams registers a successful teams response.
func (gs *GraphQLServer) HandleTeams(teams ...Team) {
	if teams == nil {
		teams = []Team{}
	}
	gs.HandleData("teams", map[string]any{
		"teams": map[string]any{"nodes": teams},
	})
}

// HandleIssueCreate registers a successful issueCreate response that
// echoes the requested title.
func (gs *GraphQLServer) HandleIssueCreate(id, identifier, url string) {
	gs.Handle("issueCreate", func(w http.ResponseWriter, r *http.Request) {
		title := ""
		if req, ok := gs.LastRequest(); ok {
			title, _ = req.Variables["title"].(string)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"issueCreate": map[string]any{
					"success": true,
					"issue": map[string]string{
						"id":         id,
						"identifier": identifier,
						"url":        url,
						"title":      title,
					},
				},
			},
		})
	})
}

// Requests returns a copy of every recorded request.
func (gs *GraphQLServer) Requests() []GraphQLRequest {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	out := make([]GraphQLRequest, len(gs.requests))
	copy(out, gs.requests)
	return out
}

// RequestCount returns the number of recorded requests.
func (gs *GraphQLServer) RequestCount() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return len(gs.requests)
}

// LastRequest returns the most recent request.
func (gs *GraphQLServer) LastRequest() (GraphQLRequest, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	if len(gs.requests) == 0 {
		return GraphQLRequest{}, false
	}
	return gs.requests[len(gs.requests)-1], true
}

// Reset clears all registered handlers and recorded requests.
func (gs *GraphQLServer) Reset() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.handlers = make(map[string]http.HandlerFunc)
	gs.requests = nil
}

// RootField returns the first field selected by a GraphQL document.
func RootField(query string) string {
	i := strings.Index(query, "{")
	if i < 0 {
		return ""
	}
	rest := strings.TrimLeftFunc(query[i+1:], unicode.IsSpace)
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	if end < 0 {
		return rest
	}
	return rest[:end]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
