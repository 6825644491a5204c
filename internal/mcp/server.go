// Package mcp exposes rofi-linear to editor agents as a Model Context
// Protocol server over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/linear"
	"github.com/salmonumbrella/rofi-linear/internal/session"
)

const (
	serverName = "rofi-linear"

	ToolListTeams   = "list_teams"
	ToolCreateIssue = "create_issue"
)

// Service is the part of the session the server exposes.
type Service interface {
	ListTeams() ([]session.TeamEntry, error)
	CreateIssue(ctx context.Context, alias, title, description string) (*linear.Issue, error)
}

// Server wraps an mcp-go server with the rofi-linear tools registered.
type Server struct {
	svc   Service
	inner *server.MCPServer
}

// NewServer registers the tools backed by svc.
func NewServer(svc Service, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		svc:   svc,
		inner: server.NewMCPServer(serverName, version, server.WithToolCapabilities(false)),
	}

	s.inner.AddTool(mcp.NewTool(ToolListTeams,
		mcp.WithDescription("List the Linear teams linked in rofi-linear. The default team is marked."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListTeams)

	s.inner.AddTool(mcp.NewTool(ToolCreateIssue,
		mcp.WithDescription("Create a Linear issue in a linked team and return its identifier and URL."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Issue title")),
		mcp.WithString("description", mcp.Description("Optional markdown description")),
		mcp.WithString("team", mcp.Description("Team alias; the default team is used when omitted")),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	), s.handleCreateIssue)

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.inner
}

// ServeStdio serves JSON-RPC on in/out until ctx is cancelled or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	slog.Debug("serving MCP over stdio")
	err := server.NewStdioServer(s.inner).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func (s *Server) handleListTeams(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	teams, err := s.svc.ListTeams()
	if err != nil {
		return toolError(err), nil
	}
	if teams == nil {
		teams = []session.TeamEntry{}
	}
	return jsonResult(teams)
}

// IssueResult is the create_issue payload.
type IssueResult struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
	Title      string `json:"title"`
}

func (s *Server) handleCreateIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description := req.GetString("description", "")
	team := req.GetString("team", "")

	issue, err := s.svc.CreateIssue(ctx, team, title, description)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(IssueResult{
		ID:         issue.ID,
		Identifier: issue.Identifier,
		URL:        issue.URL,
		Title:      issue.Title,
	})
}

// toolError reports failures inside the tool result so the agent can see
// them, keeping JSON-RPC errors for protocol problems.
func toolError(err error) *mcp.CallToolResult {
	msg := err.Error()
	if kind := clierrors.KindOf(err); kind != clierrors.KindUnknown {
		msg = fmt.Sprintf("%s (%s)", msg, kind)
	}
	if hint := clierrors.UserSuggestion(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return mcp.NewToolResultError(msg)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(buf)), nil
}
