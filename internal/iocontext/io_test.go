package iocontext

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestFromContext_EmptyContextUsesProcessStreams(t *testing.T) {
	s := FromContext(context.Background())
	if s.In != os.Stdin || s.Out != os.Stdout || s.Err != os.Stderr {
		t.Errorf("expected process streams, got %+v", s)
	}
}

func TestWithStreams_RoundTrip(t *testing.T) {
	var out, errOut bytes.Buffer
	in := strings.NewReader("lin_api_x\n")
	ctx := WithStreams(context.Background(), Streams{In: in, Out: &out, Err: &errOut})

	if Stdin(ctx) != in {
		t.Error("expected injected stdin")
	}
	if Stdout(ctx) != &out {
		t.Error("expected injected stdout")
	}
	if Stderr(ctx) != &errOut {
		t.Error("expected injected stderr")
	}
}

func TestWithStreams_PartialFallsBack(t *testing.T) {
	var out bytes.Buffer
	ctx := WithStreams(context.Background(), Streams{Out: &out})

	if Stdout(ctx) != &out {
		t.Error("expected injected stdout")
	}
	if Stderr(ctx) != os.Stderr {
		t.Error("expected stderr to fall back to os.Stderr")
	}
	if Stdin(ctx) != os.Stdin {
		t.Error("expected stdin to fall back to os.Stdin")
	}
}
