package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// statusSpinner animates a single status line on stderr while a long layout
// or conversion step runs. ASCII frames keep it legible on terminals without
// braille glyph support.
type statusSpinner struct {
	out      io.Writer
	frames   []string
	interval time.Duration
}

func newStatusSpinner() *statusSpinner {
	return &statusSpinner{
		out:      os.Stderr,
		frames:   []string{"|", "/", "-", `\`},
		interval: 120 * time.Millisecond,
	}
}

// run executes fn while animating message, clearing the line when fn
// returns. Context cancellation stops the animation, but fn is still waited
// on so its error is never lost.
func (s *statusSpinner) run(ctx context.Context, message string, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.clear(message)

	for i := 0; ; i++ {
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return <-done
		case <-ticker.C:
			frame := s.frames[i%len(s.frames)]
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(message))
		}
	}
}

func (s *statusSpinner) clear(message string) {
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(message)+2))
}
