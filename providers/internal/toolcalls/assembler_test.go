package toolcalls

import (
	"testing"
)

func TestAssemblerSingleCall(t *testing.T) {
	a := NewAssembler(Config{})

	a.AddFragment(Fragment{Index: 0, ID: "call_1", Name: "get_weather"})
	a.AddFragment(Fragment{Index: 0, Arguments: `{"loca`})
	a.AddFragment(Fragment{Index: 0, Arguments: `tion":"Paris"}`})

	calls := a.Finalize()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if calls[0].ID != "call_1" || calls[0].Name != "get_weather" {
		t.Errorf("call = %+v, want merged id and name", calls[0])
	}
	if string(calls[0].Arguments) != `{"location":"Paris"}` {
		t.Errorf("arguments = %s, want concatenated fragments", calls[0].Arguments)
	}
}

func TestAssemblerInterleavedCalls(t *testing.T) {
	a := NewAssembler(Config{})

	// Fragments for two calls arrive interleaved.
	a.AddFragment(Fragment{Index: 1, ID: "call_b", Name: "second"})
	a.AddFragment(Fragment{Index: 0, ID: "call_a", Name: "first"})
	a.AddFragment(Fragment{Index: 1, Arguments: `{"b":2}`})
	a.AddFragment(Fragment{Index: 0, Arguments: `{"a":1}`})

	calls := a.Finalize()
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	// Output follows index order, not arrival order.
	if calls[0].ID != "call_a" || calls[1].ID != "call_b" {
		t.Errorf("order = [%s %s], want [call_a call_b]", calls[0].ID, calls[1].ID)
	}
}

func TestAssemblerEmpty(t *testing.T) {
	a := NewAssembler(Config{})

	if calls := a.Finalize(); calls != nil {
		t.Errorf("calls = %v, want nil for empty assembler", calls)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
}

func TestAssemblerEmptyArgumentsDefault(t *testing.T) {
	a := NewAssembler(Config{EmptyArgumentsJSON: "{}"})
	a.AddFragment(Fragment{Index: 0, ID: "call_1", Name: "no_args"})

	calls := a.Finalize()
	if string(calls[0].Arguments) != "{}" {
		t.Errorf("arguments = %s, want configured default", calls[0].Arguments)
	}
}

func TestAssemblerPreservesMalformedArguments(t *testing.T) {
	// A stream cut off mid-arguments still yields the call; the raw bytes
	// travel onward untouched.
	a := NewAssembler(Config{})
	a.AddFragment(Fragment{Index: 0, ID: "call_1", Name: "truncated", Arguments: `{"unterminated`})

	calls := a.Finalize()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if string(calls[0].Arguments) != `{"unterminated` {
		t.Errorf("arguments = %s, want raw fragment bytes", calls[0].Arguments)
	}
}

func TestAssemblerSkipsMissingIndices(t *testing.T) {
	a := NewAssembler(Config{})
	a.AddFragment(Fragment{Index: 0, ID: "call_a", Name: "first", Arguments: `{}`})
	a.AddFragment(Fragment{Index: 2, ID: "call_c", Name: "third", Arguments: `{}`})

	calls := a.Finalize()
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2 with the gap skipped", len(calls))
	}
	if calls[0].ID != "call_a" || calls[1].ID != "call_c" {
		t.Errorf("order = [%s %s], want [call_a call_c]", calls[0].ID, calls[1].ID)
	}
}
