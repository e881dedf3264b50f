package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func init() {
	stdout = io.Discard
}

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerSteps(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(context.Background(), "Laying out gearbox.toml", "Rendering svg")
	s.w = &buf
	s.Start()
	time.Sleep(3 * spinnerTick)
	s.Next()
	time.Sleep(3 * spinnerTick)
	s.Next() // past the end
	time.Sleep(2 * spinnerTick)
	if d := s.Stop(); d <= 0 {
		t.Errorf("elapsed = %v", d)
	}

	out := buf.String()
	for _, want := range []string{"[1/2] Laying out gearbox.toml", "[2/2] Rendering svg"} {
		if !strings.Contains(out, want) {
			t.Errorf("spinner output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "[3/2]") {
		t.Error("Next must not run past the last step")
	}
}

func TestSpinnerSingleStepHasNoCounter(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(context.Background(), "Working")
	s.w = &buf
	s.Start()
	time.Sleep(2 * spinnerTick)
	s.Stop()

	if out := buf.String(); !strings.Contains(out, "Working") || strings.Contains(out, "[1/1]") {
		t.Errorf("output = %q", out)
	}
}

func TestSpinnerCancellation(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), spinnerTick/2)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinner(ctx, "Waiting")
			s.w = io.Discard
			s.Start()
			cancel()
			time.Sleep(2 * spinnerTick)
			if !s.Cancelled() {
				t.Error("spinner should report cancellation")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Stopping")
	s.w = io.Discard
	s.Start()
	s.Stop()
	s.Stop()
	s.Fail("Render failed")
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background())
	s.Stop()
}
