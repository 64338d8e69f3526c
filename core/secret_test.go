package core

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestSecretRedaction(t *testing.T) {
	secret := NewSecret("sk-abc123xyz")

	if got := secret.String(); got != "[REDACTED]" {
		t.Errorf("String() = %q, want redacted", got)
	}
	if got := secret.GoString(); got != "core.Secret{[REDACTED]}" {
		t.Errorf("GoString() = %q, want redacted", got)
	}
	if got := fmt.Sprintf("%v %s %#v", secret, secret, secret); got != "[REDACTED] [REDACTED] core.Secret{[REDACTED]}" {
		t.Errorf("fmt output = %q, leaked the value", got)
	}
}

func TestSecretMarshalJSON(t *testing.T) {
	type config struct {
		APIKey Secret `json:"api_key"`
	}

	data, err := json.Marshal(config{APIKey: NewSecret("sk-abc123xyz")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"api_key":"[REDACTED]"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestSecretMarshalText(t *testing.T) {
	data, err := NewSecret("sk-abc123xyz").MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(data) != "[REDACTED]" {
		t.Errorf("MarshalText() = %s, want redacted", data)
	}
}

func TestSecretExpose(t *testing.T) {
	secret := NewSecret("sk-abc123xyz")
	if got := secret.Expose(); got != "sk-abc123xyz" {
		t.Errorf("Expose() = %q, want the original value", got)
	}
}

func TestSecretIsEmpty(t *testing.T) {
	if !NewSecret("").IsEmpty() {
		t.Error("empty secret should report IsEmpty")
	}
	if NewSecret("sk-abc123").IsEmpty() {
		t.Error("non-empty secret should not report IsEmpty")
	}
}
