package cmd

import (
	"context"

	"github.com/salmonumbrella/rofi-linear/internal/config"
	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/prompt"
	"github.com/salmonumbrella/rofi-linear/internal/session"
)

type (
	errorFormatKey struct{}
	sessionKey     struct{}
	storeKey       struct{}
	prompterKey    struct{}
)

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

// WithSession stores the session built by the root command.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session built by the root command.
func SessionFromContext(ctx context.Context) (*session.Session, error) {
	if s, ok := ctx.Value(sessionKey{}).(*session.Session); ok && s != nil {
		return s, nil
	}
	return nil, clierrors.New(clierrors.KindUnknown, "session not initialized")
}

// WithStore stores the configuration store the session was built on.
func WithStore(ctx context.Context, s *config.Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

func StoreFromContext(ctx context.Context) (*config.Store, error) {
	if s, ok := ctx.Value(storeKey{}).(*config.Store); ok && s != nil {
		return s, nil
	}
	return nil, clierrors.New(clierrors.KindUnknown, "config store not initialized")
}

// WithPrompterKind stores the --prompter override. An empty kind keeps
// each command's default.
func WithPrompterKind(ctx context.Context, kind prompt.Kind) context.Context {
	return context.WithValue(ctx, prompterKey{}, kind)
}

// PrompterKindFromContext returns the override, or fallback when none is set.
func PrompterKindFromContext(ctx context.Context, fallback prompt.Kind) prompt.Kind {
	if k, ok := ctx.Value(prompterKey{}).(prompt.Kind); ok && k != "" {
		return k
	}
	return fallback
}
