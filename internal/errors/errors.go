package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch without parsing messages.
type Kind string

const (
	KindUnknown             Kind = ""
	KindEmptyCredential     Kind = "empty_credential"
	KindMissingCredential   Kind = "missing_credential"
	KindInvalidCredential   Kind = "invalid_credential"
	KindNoTeamsAvailable    Kind = "no_teams_available"
	KindTeamNotFound        Kind = "team_not_found"
	KindNoDefaultTeam       Kind = "no_default_team"
	KindEmptyTitle          Kind = "empty_title"
	KindRemoteHTTP          Kind = "remote_http"
	KindRemoteGraphQL       Kind = "remote_graphql"
	KindRemoteProtocol      Kind = "remote_protocol"
	KindIssueCreateRejected Kind = "issue_create_rejected"
	KindIO                  Kind = "io"
	KindCorruptState        Kind = "corrupt_state"
	KindUsage               Kind = "usage"
)

// Kinded is implemented by every error that carries a Kind,
// including the remote errors defined by the linear package.
type Kinded interface {
	error
	Kind() Kind
}

// Error is a classified error with an optional user-facing suggestion.
type Error struct {
	kind       Kind
	Message    string
	Suggestion string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, Message: message}
}

// Wrap classifies an underlying error. Returns nil if err is nil.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, Message: message, Err: err}
}

// WithSuggestion attaches a hint shown below the error line.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// KindOf returns the outermost Kind found in err's chain.
func KindOf(err error) Kind {
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserSuggestion returns the suggestion of the first Error in the chain that has one.
func UserSuggestion(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Suggestion != "" {
			return e.Suggestion
		}
		err = e.Err
	}
	return ""
}

// Common constructors for the storage and session layers.

// MissingCredential reports that no API key has been stored yet.
func MissingCredential() *Error {
	return New(KindMissingCredential, "no API key found").
		WithSuggestion("Run 'rofi-linear auth' first")
}

// TeamNotFound reports an alias that is not in the registry.
func TeamNotFound(alias string) *Error {
	return New(KindTeamNotFound, fmt.Sprintf("team %q not found", alias)).
		WithSuggestion("Run 'rofi-linear list' to see linked teams")
}

// NoDefaultTeam reports that no alias was given and no default is set.
func NoDefaultTeam() *Error {
	return New(KindNoDefaultTeam, "no team specified and no default team set").
		WithSuggestion("Run 'rofi-linear link' to link a team")
}
