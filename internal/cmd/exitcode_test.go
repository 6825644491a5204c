package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/linear"
)

func TestExitCode(t *testing.T) {
	httpErr := func(status int) error {
		return fmt.Errorf("failed to create issue in Engineering: %w", &linear.HTTPError{Op: "issueCreate", StatusCode: status})
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitSystem},
		{"empty credential", clierrors.New(clierrors.KindEmptyCredential, "x"), ExitUser},
		{"empty title", clierrors.New(clierrors.KindEmptyTitle, "x"), ExitUser},
		{"no teams", clierrors.New(clierrors.KindNoTeamsAvailable, "x"), ExitUser},
		{"no default", clierrors.NoDefaultTeam(), ExitUser},
		{"usage", clierrors.New(clierrors.KindUsage, "x"), ExitUser},
		{"missing credential", clierrors.MissingCredential(), ExitAuth},
		{"invalid credential", clierrors.New(clierrors.KindInvalidCredential, "x"), ExitAuth},
		{"team not found", clierrors.TeamNotFound("web"), ExitNotFound},
		{"graphql", &linear.GraphQLError{Op: "teams", Messages: []string{"bad"}}, ExitRejected},
		{"rejected", &linear.IssueCreateRejectedError{TeamID: "T1"}, ExitRejected},
		{"protocol", &linear.ProtocolError{Op: "viewer", Reason: "missing field"}, ExitSystem},
		{"io", clierrors.New(clierrors.KindIO, "x"), ExitSystem},
		{"corrupt", clierrors.New(clierrors.KindCorruptState, "x"), ExitSystem},
		{"http 401", httpErr(http.StatusUnauthorized), ExitAuth},
		{"http 403", httpErr(http.StatusForbidden), ExitAuth},
		{"http 429", httpErr(http.StatusTooManyRequests), ExitRateLimit},
		{"http 400", httpErr(http.StatusBadRequest), ExitRejected},
		{"http 400 authentication", &linear.HTTPError{Op: "teams", StatusCode: http.StatusBadRequest,
			Body: `{"errors":[{"message":"not authenticated","extensions":{"code":"AUTHENTICATION_ERROR"}}]}`}, ExitAuth},
		{"graphql authentication", &linear.GraphQLError{Op: "teams", Messages: []string{"x"}, Codes: []string{"AUTHENTICATION_ERROR"}}, ExitAuth},
		{"http 500", httpErr(http.StatusInternalServerError), ExitSystem},
		{"transport", httpErr(0), ExitSystem},
		{"canceled", fmt.Errorf("prompt: %w", context.Canceled), ExitCanceled},
		{"canceled request", &linear.HTTPError{Op: "viewer", Err: context.Canceled}, ExitCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
