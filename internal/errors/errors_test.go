package errors

import (
	"errors"
	"fmt"
	"testing"
)

type remoteErr struct{}

func (remoteErr) Error() string { return "remote" }
func (remoteErr) Kind() Kind    { return KindRemoteGraphQL }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"direct", New(KindEmptyTitle, "title is empty"), KindEmptyTitle},
		{"fmt wrapped", fmt.Errorf("ctx: %w", New(KindIO, "write failed")), KindIO},
		{"foreign kinded", fmt.Errorf("op: %w", remoteErr{}), KindRemoteGraphQL},
		{"outermost wins", Wrap(KindInvalidCredential, remoteErr{}, "validate"), KindInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	if err := Wrap(KindIO, nil, "nothing"); err != nil {
		t.Fatalf("Wrap(nil) = %v, want nil", err)
	}
}

func TestError_Message(t *testing.T) {
	err := Wrap(KindIO, errors.New("disk full"), "failed to save config")
	if err.Error() != "failed to save config: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, errors.Unwrap(err)) {
		t.Errorf("expected wrapped error to be reachable")
	}
}

func TestUserSuggestion(t *testing.T) {
	if got := UserSuggestion(errors.New("plain")); got != "" {
		t.Errorf("expected no suggestion, got %q", got)
	}

	err := fmt.Errorf("run: %w", MissingCredential())
	if got := UserSuggestion(err); got != "Run 'rofi-linear auth' first" {
		t.Errorf("unexpected suggestion %q", got)
	}

	nested := Wrap(KindInvalidCredential, TeamNotFound("eng"), "outer")
	if got := UserSuggestion(nested); got != "Run 'rofi-linear list' to see linked teams" {
		t.Errorf("expected inner suggestion, got %q", got)
	}
}

func TestIs(t *testing.T) {
	if !Is(NoDefaultTeam(), KindNoDefaultTeam) {
		t.Error("expected NoDefaultTeam kind")
	}
	if Is(nil, KindUnknown) {
		t.Error("nil error should never match")
	}
}
