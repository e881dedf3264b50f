package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// spinner animates a fixed sequence of steps on stderr, e.g.
// "⠹ [1/2] Laying out gearbox.toml 0.4s". Cancelling ctx stops the animation.
type spinner struct {
	w     io.Writer
	steps []string
	start time.Time

	mu    sync.Mutex
	step  int
	width int // widest line drawn so far, for clearing

	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
	stopped chan struct{}
}

// newSpinner creates a spinner over the given step labels. It starts on the
// first step.
func newSpinner(ctx context.Context, steps ...string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       os.Stderr,
		steps:   steps,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *spinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Next advances to the following step. Past the last step it is a no-op.
func (s *spinner) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step < len(s.steps)-1 {
		s.step++
	}
}

func (s *spinner) line(frame string) string {
	label := ""
	if len(s.steps) > 0 {
		label = s.steps[s.step]
	}
	if len(s.steps) > 1 {
		label = fmt.Sprintf("[%d/%d] %s", s.step+1, len(s.steps), label)
	}
	elapsed := time.Since(s.start).Truncate(100 * time.Millisecond)
	return styleSpinner.Render(frame) + " " + StyleDim.Render(fmt.Sprintf("%s %s", label, elapsed))
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.line(frame)
	if n := len(l); n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%-*s", s.width, l)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation, clears the line and returns the time since Start.
// It is safe to call more than once.
func (s *spinner) Stop() time.Duration {
	s.once.Do(func() {
		s.cancel()
		if !s.start.IsZero() {
			<-s.stopped
		}
	})
	return time.Since(s.start)
}

// Fail stops the spinner and reports which step failed.
func (s *spinner) Fail(message string) {
	s.Stop()
	s.mu.Lock()
	step := ""
	if len(s.steps) > 0 {
		step = s.steps[s.step]
	}
	s.mu.Unlock()
	printError("%s: %s", message, step)
}

// Cancelled reports whether the parent context ended the animation.
func (s *spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
