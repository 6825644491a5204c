// Package validate checks user-supplied values before they are stored or
// used to build requests.
package validate

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxAliasLength bounds team aliases so they stay usable as rofi
// keybinding arguments.
const MaxAliasLength = 64

// Alias validates a team alias. Aliases are case-sensitive and must be a
// single shell word.
func Alias(alias string) error {
	if alias == "" {
		return fmt.Errorf("alias: cannot be empty")
	}
	if utf8.RuneCountInString(alias) > MaxAliasLength {
		return fmt.Errorf("alias: must be at most %d characters, got %d", MaxAliasLength, utf8.RuneCountInString(alias))
	}
	for _, r := range alias {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("alias: must not contain whitespace or control characters, got %q", alias)
		}
	}
	if strings.HasPrefix(alias, "-") {
		return fmt.Errorf("alias: must not start with '-', got %q", alias)
	}
	return nil
}

// Endpoint validates an API endpoint override: an absolute http(s) URL
// with a host.
func Endpoint(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s: cannot be empty", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: must be a valid URL, got error: %v", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: must use http or https, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: must have a host, got %q", field, raw)
	}
	return nil
}
