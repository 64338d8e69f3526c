package openai

import (
	"github.com/scribe-labs/scribe/core"
)

// newDecodeError wraps a JSON decode failure of a successful response body.
func newDecodeError(err error) error {
	return &core.APIError{Message: err.Error(), Err: core.ErrDecode}
}

// newStreamError wraps a failure of the underlying stream byte source.
// Malformed individual frames are skipped, never wrapped.
func newStreamError(err error) error {
	return &core.APIError{Message: err.Error(), Err: core.ErrStream}
}
