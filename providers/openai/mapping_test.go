package openai

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/tools"
)

// schemaTool implements the full tools.Tool interface.
type schemaTool struct{}

func (schemaTool) Name() string        { return "get_weather" }
func (schemaTool) Description() string { return "Gets the weather" }
func (schemaTool) Schema() tools.ToolSchema {
	return tools.ToolSchema{
		JSONSchema: json.RawMessage(`{"type":"object","properties":{"location":{"type":"string"}}}`),
	}
}
func (schemaTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	return nil, nil
}

// bareTool implements only core.Tool.
type bareTool struct{}

func (bareTool) Name() string        { return "bare" }
func (bareTool) Description() string { return "No schema" }

func TestMapMessagesRoles(t *testing.T) {
	msgs := mapMessages([]core.Message{
		{Role: core.RoleSystem, Content: "be brief"},
		{Role: core.RoleUser, Content: "hi"},
		{Role: core.RoleAssistant, Content: "hello"},
	})

	if len(msgs) != 3 {
		t.Fatalf("messages = %d, want 3", len(msgs))
	}
	wantRoles := []string{"system", "user", "assistant"}
	for i, want := range wantRoles {
		if msgs[i].Role != want {
			t.Errorf("message %d role = %q, want %q", i, msgs[i].Role, want)
		}
	}
}

func TestMapMessagesToolResults(t *testing.T) {
	msgs := mapMessages([]core.Message{
		{
			Role:    core.RoleAssistant,
			Content: "",
			ToolCalls: []core.ToolCall{
				{ID: "tc1", Name: "get_weather", Arguments: json.RawMessage(`{"location":"Paris"}`)},
			},
		},
		{
			Role: core.RoleTool,
			ToolResults: []core.ToolResult{
				{CallID: "tc1", Content: "sunny"},
				{CallID: "tc2", Content: map[string]int{"temp": 21}},
			},
		},
	})

	if len(msgs) != 3 {
		t.Fatalf("messages = %d, want assistant + one per tool result", len(msgs))
	}

	assistant := msgs[0]
	if len(assistant.ToolCalls) != 1 || assistant.ToolCalls[0].ID != "tc1" {
		t.Errorf("assistant message = %+v, want replayed tool call", assistant)
	}

	if msgs[1].Role != "tool" || msgs[1].ToolCallID != "tc1" || msgs[1].Content != "sunny" {
		t.Errorf("tool message 1 = %+v, want string passthrough", msgs[1])
	}
	if msgs[2].ToolCallID != "tc2" || msgs[2].Content != `{"temp":21}` {
		t.Errorf("tool message 2 = %+v, want JSON-encoded content", msgs[2])
	}
}

func TestMapTools(t *testing.T) {
	wire := mapTools([]core.Tool{schemaTool{}, bareTool{}})

	if len(wire) != 2 {
		t.Fatalf("tools = %d, want 2", len(wire))
	}
	if wire[0].Type != "function" || wire[0].Function.Name != "get_weather" {
		t.Errorf("tool 0 = %+v", wire[0])
	}
	if string(wire[0].Function.Parameters) == "{}" {
		t.Error("schema tool should carry its JSON schema")
	}
	if string(wire[1].Function.Parameters) != "{}" {
		t.Errorf("bare tool parameters = %s, want empty object default", wire[1].Function.Parameters)
	}
}

func TestBuildRequestToolChoice(t *testing.T) {
	base := &core.ChatRequest{
		Model:    "gpt-4o",
		Messages: []core.Message{{Role: core.RoleUser, Content: "hi"}},
	}

	// No tools, no tool_choice.
	wire := buildRequest(base, false)
	if wire.ToolChoice != "" || len(wire.Tools) != 0 {
		t.Errorf("bare request = %+v, want no tool fields", wire)
	}

	// Tools default the choice to auto.
	withTools := *base
	withTools.Tools = []core.Tool{schemaTool{}}
	wire = buildRequest(&withTools, false)
	if wire.ToolChoice != "auto" {
		t.Errorf("tool_choice = %q, want auto", wire.ToolChoice)
	}

	// An explicit choice wins, even "none" with tools still advertised.
	withTools.ToolChoice = core.ToolChoiceNone
	wire = buildRequest(&withTools, true)
	if wire.ToolChoice != "none" {
		t.Errorf("tool_choice = %q, want none", wire.ToolChoice)
	}
	if len(wire.Tools) != 1 {
		t.Error("tools should remain advertised alongside tool_choice none")
	}
	if !wire.Stream {
		t.Error("streaming request should set stream")
	}
}

func TestGetModelInfo(t *testing.T) {
	info := GetModelInfo("gpt-4o")
	if info == nil {
		t.Fatal("GetModelInfo(gpt-4o) = nil, want catalog entry")
	}
	if !info.HasCapability(core.FeatureToolCalling) {
		t.Error("gpt-4o should support tool calling")
	}

	if GetModelInfo("no-such-model") != nil {
		t.Error("unknown model should return nil")
	}
}
