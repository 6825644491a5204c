// Package iocontext carries the process streams through a context so that
// commands and prompters can be driven from tests.
package iocontext

import (
	"context"
	"io"
	"os"
)

type ctxKey struct{}

// Streams are the standard streams of one invocation.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// OS returns the process streams.
func OS() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// WithStreams injects s into ctx. Nil members fall back to the process
// streams when read back.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the streams stored in ctx, filling any missing member
// from the process.
func FromContext(ctx context.Context) Streams {
	s, _ := ctx.Value(ctxKey{}).(Streams)
	def := OS()
	if s.In == nil {
		s.In = def.In
	}
	if s.Out == nil {
		s.Out = def.Out
	}
	if s.Err == nil {
		s.Err = def.Err
	}
	return s
}

// Stdout returns the output stream from ctx.
func Stdout(ctx context.Context) io.Writer {
	return FromContext(ctx).Out
}

// Stderr returns the error stream from ctx.
func Stderr(ctx context.Context) io.Writer {
	return FromContext(ctx).Err
}

// Stdin returns the input stream from ctx.
func Stdin(ctx context.Context) io.Reader {
	return FromContext(ctx).In
}
