package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/linear"
	"github.com/salmonumbrella/rofi-linear/internal/output"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return clierrors.New(clierrors.KindUsage, fmt.Sprintf("invalid --error-format %q", format)).
			WithSuggestion("Use one of: auto, text, json, yaml")
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	w := stderrFromContext(ctx)

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	if suggestion := clierrors.UserSuggestion(err); suggestion != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", suggestion)
	}
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message": err.Error(),
		"kind":    string(clierrors.KindOf(err)),
	}
	if errMap["kind"] == "" {
		errMap["kind"] = "unknown"
	}
	if errors.Is(err, context.Canceled) {
		errMap["kind"] = "cancelled"
	}
	errMap["exit_code"] = ExitCode(err)

	if suggestion := clierrors.UserSuggestion(err); suggestion != "" {
		errMap["suggestion"] = suggestion
	}

	var httpErr *linear.HTTPError
	if errors.As(err, &httpErr) {
		errMap["operation"] = httpErr.Op
		if httpErr.StatusCode > 0 {
			errMap["status"] = httpErr.StatusCode
		}
	}

	var gqlErr *linear.GraphQLError
	if errors.As(err, &gqlErr) {
		errMap["operation"] = gqlErr.Op
		errMap["graphql_errors"] = gqlErr.Messages
	}

	return map[string]interface{}{"error": errMap}
}
