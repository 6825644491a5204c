package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/salmonumbrella/rofi-linear/internal/iocontext"
	"github.com/salmonumbrella/rofi-linear/internal/output"
)

func stdoutFromContext(ctx context.Context) io.Writer {
	return iocontext.Stdout(ctx)
}

func stderrFromContext(ctx context.Context) io.Writer {
	return iocontext.Stderr(ctx)
}

func printerForContext(ctx context.Context) *output.Printer {
	return output.NewPrinter(stdoutFromContext(ctx), output.FormatFromContext(ctx))
}

// structuredOutput reports whether results should go through the printer
// instead of the human-readable messages.
func structuredOutput(ctx context.Context) bool {
	return output.FormatFromContext(ctx) != output.FormatText ||
		output.QueryFromContext(ctx) != "" ||
		output.JSONPathFromContext(ctx) != ""
}

// messageWriter is where human-readable progress goes: stdout in text mode,
// stderr when stdout carries structured output.
func messageWriter(ctx context.Context) io.Writer {
	if structuredOutput(ctx) {
		return stderrFromContext(ctx)
	}
	return stdoutFromContext(ctx)
}

func say(ctx context.Context, format string, args ...any) {
	_, _ = fmt.Fprintf(messageWriter(ctx), format+"\n", args...)
}
