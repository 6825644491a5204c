// Package cmdutil holds helpers shared by command implementations.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

// MaxTextInput bounds text read from a file or stdin (1MB).
const MaxTextInput = 1 << 20

// ReadTextArg resolves a flag value that may point at its content:
// "-" reads in, "@path" reads a file and "@@text" is the literal "@text".
// Any other value is returned unchanged. Content read from a source is
// trimmed of surrounding whitespace.
func ReadTextArg(value string, in io.Reader) (string, error) {
	switch {
	case value == "-":
		return readLimited(in, "stdin")
	case strings.HasPrefix(value, "@@"):
		return value[1:], nil
	case strings.HasPrefix(value, "@"):
		return ReadInputSource(value[1:])
	default:
		return value, nil
	}
}

// ReadInputSource reads text from a file path.
func ReadInputSource(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", clierrors.New(clierrors.KindUsage, "input file path is required").
			WithSuggestion("Use @path/to/file or - for stdin")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", clierrors.Wrap(clierrors.KindIO, err, fmt.Sprintf("failed to read file %q", path))
	}
	defer func() { _ = f.Close() }()
	return readLimited(f, fmt.Sprintf("file %q", path))
}

func readLimited(r io.Reader, source string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTextInput+1))
	if err != nil {
		return "", clierrors.Wrap(clierrors.KindIO, err, "failed to read "+source)
	}
	if len(data) > MaxTextInput {
		return "", clierrors.New(clierrors.KindUsage, fmt.Sprintf("%s exceeds %d bytes", source, MaxTextInput))
	}
	return strings.TrimSpace(string(data)), nil
}
