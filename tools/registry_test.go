package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// echoTool returns its arguments as the result.
type echoTool struct {
	name string
	err  error
}

func (e *echoTool) Name() string        { return e.name }
func (e *echoTool) Description() string { return "echoes arguments" }
func (e *echoTool) Schema() ToolSchema {
	return ToolSchema{JSONSchema: json.RawMessage(`{"type":"object"}`)}
}
func (e *echoTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	if e.err != nil {
		return nil, e.err
	}
	return string(args), nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&echoTool{name: "echo"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := r.Register(&echoTool{name: "echo"}); !errors.Is(err, ErrDuplicateTool) {
		t.Errorf("duplicate Register() error = %v, want ErrDuplicateTool", err)
	}

	if err := r.Register(nil); err == nil {
		t.Error("Register(nil) should fail")
	}
	if err := r.Register(&echoTool{name: ""}); err == nil {
		t.Error("Register() with empty name should fail")
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{name: "echo"})

	tool, ok := r.Get("echo")
	if !ok || tool.Name() != "echo" {
		t.Errorf("Get(echo) = %v, %v", tool, ok)
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should return ok = false")
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{name: "echo"})

	r.Unregister("echo")
	if _, ok := r.Get("echo"); ok {
		t.Error("tool should be gone after Unregister")
	}

	// Unknown names are a no-op.
	r.Unregister("never-existed")
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{name: "a"})
	r.Register(&echoTool{name: "b"})

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("List() = %d tools, want 2", len(list))
	}
}

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{name: "echo"})

	result, err := r.Execute(context.Background(), "echo", json.RawMessage(`{"x":1}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != `{"x":1}` {
		t.Errorf("result = %v, want echoed arguments", result)
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.Execute(context.Background(), "missing", nil)
	if err == nil {
		t.Fatal("Execute() on unknown tool should fail")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error = %v, should name the missing tool", err)
	}
}

func TestRegistryExecutePropagatesError(t *testing.T) {
	r := NewRegistry()
	toolErr := fmt.Errorf("backend unavailable")
	r.Register(&echoTool{name: "flaky", err: toolErr})

	_, err := r.Execute(context.Background(), "flaky", json.RawMessage(`{}`))
	if !errors.Is(err, toolErr) {
		t.Errorf("Execute() error = %v, want the tool's error", err)
	}
}
