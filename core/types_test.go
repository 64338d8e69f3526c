package core

import (
	"errors"
	"testing"
)

func TestToolResultBuilder(t *testing.T) {
	results := NewToolResults().
		Success("tc1", map[string]any{"temp": 18}).
		Error("tc2", errors.New("backend down")).
		FromExecution("tc3", "fine", nil).
		FromExecution("tc4", nil, errors.New("boom")).
		Build()

	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}

	if results[0].CallID != "tc1" || results[0].IsError {
		t.Errorf("result 0 = %+v, want success for tc1", results[0])
	}

	if !results[1].IsError {
		t.Fatalf("result 1 = %+v, want error result", results[1])
	}
	content, ok := results[1].Content.(map[string]string)
	if !ok || content["error"] != "backend down" {
		t.Errorf("error content = %v, want {error: backend down}", results[1].Content)
	}

	if results[2].IsError || results[2].Content != "fine" {
		t.Errorf("result 2 = %+v, want FromExecution success", results[2])
	}
	if !results[3].IsError {
		t.Errorf("result 3 = %+v, want FromExecution error", results[3])
	}
}
