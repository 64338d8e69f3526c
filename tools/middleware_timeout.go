package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// WithTimeout bounds every call to the wrapped tool at d. The handler runs
// in its own goroutine so a handler that ignores its context cannot stall
// the caller; once the deadline passes, its eventual result is discarded.
func WithTimeout(d time.Duration) Middleware {
	return func(next ToolCallFunc) ToolCallFunc {
		return func(ctx context.Context, args json.RawMessage) (any, error) {
			callCtx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			type outcome struct {
				value any
				err   error
			}
			done := make(chan outcome, 1)

			go func() {
				value, err := next(callCtx, args)
				done <- outcome{value: value, err: err}
			}()

			select {
			case out := <-done:
				return out.value, out.err
			case <-callCtx.Done():
				return nil, fmt.Errorf("tool call exceeded %v", d)
			}
		}
	}
}
