package tools

import (
	"encoding/json"
	"fmt"

	"github.com/scribe-labs/scribe/core"
)

// ParseArgs decodes a tool call's argument bytes into T, giving handlers a
// typed view of what the model sent:
//
//	args, err := tools.ParseArgs[WeatherArgs](call)
//	if err != nil {
//	    return nil, err
//	}
//	lookup(args.Location, args.Unit)
//
// Unknown fields are ignored; a decode failure names the tool in the error.
func ParseArgs[T any](call core.ToolCall) (*T, error) {
	var args T
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return nil, fmt.Errorf("parsing %s arguments: %w", call.Name, err)
	}
	return &args, nil
}
