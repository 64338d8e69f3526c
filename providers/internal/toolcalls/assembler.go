// Package toolcalls provides streaming tool-call assembly: fragments
// arrive interleaved and indexed, and are merged by index into canonical
// tool calls. Argument bytes are concatenated verbatim, whether or not
// they form valid JSON.
package toolcalls

import (
	"encoding/json"
	"strings"

	"github.com/scribe-labs/scribe/core"
)

// Config controls assembler behavior.
type Config struct {
	// EmptyArgumentsJSON, when set, is used as arguments when a tool call has no
	// accumulated argument fragments.
	EmptyArgumentsJSON string
}

// Fragment represents one streaming tool-call delta fragment.
// Fields other than Index may be absent on any given fragment; the
// assembler merges them across fragments sharing an index.
type Fragment struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

type assemblingCall struct {
	ID        string
	Name      string
	Arguments strings.Builder
}

// Assembler accumulates fragmented tool calls keyed by index and emits
// canonical tool calls. Missing indices are tolerated.
type Assembler struct {
	calls map[int]*assemblingCall
	cfg   Config
}

// NewAssembler creates a tool-call assembler.
func NewAssembler(cfg Config) *Assembler {
	return &Assembler{
		calls: make(map[int]*assemblingCall),
		cfg:   cfg,
	}
}

// AddFragment applies a streaming fragment, creating a call entry if needed.
func (a *Assembler) AddFragment(f Fragment) {
	call, exists := a.calls[f.Index]
	if !exists {
		call = &assemblingCall{}
		a.calls[f.Index] = call
	}

	if f.ID != "" {
		call.ID = f.ID
	}
	if f.Name != "" {
		call.Name = f.Name
	}
	if f.Arguments != "" {
		call.Arguments.WriteString(f.Arguments)
	}
}

// Len returns the number of calls being assembled.
func (a *Assembler) Len() int {
	return len(a.calls)
}

// Finalize returns the assembled tool calls in index order. Arguments are
// the raw concatenated fragments; consumers decide how to treat bytes that
// do not parse as JSON.
func (a *Assembler) Finalize() []core.ToolCall {
	if len(a.calls) == 0 {
		return nil
	}

	maxIndex := 0
	for idx := range a.calls {
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	result := make([]core.ToolCall, 0, len(a.calls))
	for i := 0; i <= maxIndex; i++ {
		call, exists := a.calls[i]
		if !exists {
			continue
		}

		args := call.Arguments.String()
		if args == "" && a.cfg.EmptyArgumentsJSON != "" {
			args = a.cfg.EmptyArgumentsJSON
		}

		result = append(result, core.ToolCall{
			ID:        call.ID,
			Name:      call.Name,
			Arguments: json.RawMessage(args),
		})
	}

	return result
}
