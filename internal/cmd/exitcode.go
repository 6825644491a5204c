package cmd

import (
	"context"
	"errors"
	"net/http"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/linear"
)

const (
	ExitOK        = 0
	ExitSystem    = 1
	ExitUser      = 2
	ExitAuth      = 3
	ExitNotFound  = 4
	ExitRateLimit = 5
	ExitRejected  = 6
	ExitCanceled  = 130
)

// ExitCode maps a command error to a stable process exit code for automation.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}

	switch clierrors.KindOf(err) {
	case clierrors.KindEmptyCredential, clierrors.KindEmptyTitle, clierrors.KindNoTeamsAvailable,
		clierrors.KindNoDefaultTeam, clierrors.KindUsage:
		return ExitUser
	case clierrors.KindMissingCredential, clierrors.KindInvalidCredential:
		return ExitAuth
	case clierrors.KindTeamNotFound:
		return ExitNotFound
	case clierrors.KindRemoteGraphQL, clierrors.KindIssueCreateRejected:
		if linear.IsAuthFailure(err) {
			return ExitAuth
		}
		return ExitRejected
	case clierrors.KindRemoteHTTP:
		if linear.IsAuthFailure(err) {
			return ExitAuth
		}
		return httpExitCode(err)
	}
	return ExitSystem
}

func httpExitCode(err error) int {
	var httpErr *linear.HTTPError
	if !errors.As(err, &httpErr) {
		return ExitSystem
	}
	switch {
	case httpErr.StatusCode == http.StatusUnauthorized, httpErr.StatusCode == http.StatusForbidden:
		return ExitAuth
	case httpErr.StatusCode == http.StatusTooManyRequests:
		return ExitRateLimit
	case httpErr.StatusCode >= 400 && httpErr.StatusCode < 500:
		// Linear answers malformed operations with 400 and a GraphQL body.
		return ExitRejected
	default:
		return ExitSystem
	}
}
