package cmdutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

func TestReadTextArg(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "desc.md")
	if err := os.WriteFile(file, []byte("\nSteps:\n1. open login\n\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		value string
		stdin string
		want  string
	}{
		{name: "literal", value: "plain text", want: "plain text"},
		{name: "literal keeps spaces", value: "  padded ", want: "  padded "},
		{name: "empty", value: "", want: ""},
		{name: "stdin", value: "-", stdin: "from a pipe\n", want: "from a pipe"},
		{name: "file", value: "@" + file, want: "Steps:\n1. open login"},
		{name: "escaped at", value: "@@team", want: "@team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadTextArg(tt.value, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("ReadTextArg(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ReadTextArg(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestReadTextArg_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value string
		stdin string
		kind  clierrors.Kind
	}{
		{name: "missing file", value: "@" + filepath.Join(t.TempDir(), "nope.txt"), kind: clierrors.KindIO},
		{name: "empty path", value: "@", kind: clierrors.KindUsage},
		{name: "stdin too large", value: "-", stdin: strings.Repeat("x", MaxTextInput+1), kind: clierrors.KindUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTextArg(tt.value, strings.NewReader(tt.stdin))
			if !clierrors.Is(err, tt.kind) {
				t.Errorf("ReadTextArg(%q) error = %v, want %s", tt.value, err, tt.kind)
			}
		})
	}
}
