package ai

import (
	"context"
	"strings"
	"time"
)

// Completion is the text gathered from one streamed call
type Completion struct {
	Text     string
	TimedOut bool
}

// Collect drains the provider stream for prompt. When timeout elapses first, the
// text received so far is returned with TimedOut set and no error. Provider and
// context errors are returned as-is together with whatever text arrived.
func Collect(ctx context.Context, p Provider, prompt string, timeout time.Duration) (Completion, error) {
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := p.Generate(callCtx, prompt)
	if err != nil {
		return Completion{}, err
	}

	var timeoutC <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	var sb strings.Builder
	for {
		select {
		case frag, ok := <-stream:
			if !ok {
				// a stream closed by cancellation is not a complete answer
				return Completion{Text: sb.String()}, ctx.Err()
			}
			if frag.Err != nil {
				return Completion{Text: sb.String()}, frag.Err
			}
			sb.WriteString(frag.Text)
		case <-timeoutC:
			return Completion{Text: sb.String(), TimedOut: true}, nil
		case <-ctx.Done():
			return Completion{Text: sb.String()}, ctx.Err()
		}
	}
}

// send delivers a fragment unless ctx is done. It reports whether the receiver is still listening.
func send(ctx context.Context, out chan<- Fragment, frag Fragment) bool {
	select {
	case out <- frag:
		return true
	case <-ctx.Done():
		return false
	}
}
