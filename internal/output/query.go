package output

import (
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/itchyny/gojq"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

// ValidateQuery parses a jq expression without running it so bad input is
// reported before any network call.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if _, err := compileQuery(query); err != nil {
		return err
	}
	return nil
}

func compileQuery(query string) (*gojq.Code, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, invalidQuery(err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, invalidQuery(err)
	}
	return code, nil
}

func invalidQuery(err error) error {
	return clierrors.Wrap(clierrors.KindUsage, err, "invalid --query")
}

// runQuery runs a jq expression over normalized data and collects every
// emitted value.
func runQuery(query string, data interface{}) ([]interface{}, error) {
	code, err := compileQuery(query)
	if err != nil {
		return nil, err
	}

	var results []interface{}
	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if queryErr, isErr := v.(error); isErr {
			return nil, clierrors.Wrap(clierrors.KindUsage, queryErr, "query error")
		}
		results = append(results, v)
	}
	return results, nil
}

// applyJSONPath selects a value from normalized data. Paths without a
// leading "$" are rooted automatically, so "[0].alias" and ".[0].alias"
// both work.
func applyJSONPath(data interface{}, raw string) (interface{}, error) {
	path := normalizeJSONPath(raw)
	if path == "" {
		return nil, clierrors.New(clierrors.KindUsage, "invalid --jsonpath value").
			WithSuggestion("Example: --jsonpath '$[0].alias'")
	}
	value, err := jsonpath.Get(path, data)
	if err != nil {
		e := clierrors.New(clierrors.KindUsage, "invalid --jsonpath value").
			WithSuggestion("Example: --jsonpath '$[0].alias'")
		e.Err = err
		return nil, e
	}
	return value, nil
}

func normalizeJSONPath(path string) string {
	trimmed := strings.TrimSpace(path)
	switch {
	case trimmed == "":
		return ""
	case strings.HasPrefix(trimmed, "$"):
		return trimmed
	case strings.HasPrefix(trimmed, ".["):
		return "$" + trimmed[1:]
	case strings.HasPrefix(trimmed, "."), strings.HasPrefix(trimmed, "["):
		return "$" + trimmed
	default:
		return "$." + trimmed
	}
}
