package core

// Secret holds a sensitive string, typically an API key. Every standard
// rendering path (fmt, JSON, text marshaling) produces a redacted
// placeholder; the underlying value is reachable only through Expose.
//
//	secret := NewSecret("sk-abc123")
//	fmt.Println(secret)        // [REDACTED]
//	fmt.Printf("%#v", secret)  // core.Secret{[REDACTED]}
//	secret.Expose()            // "sk-abc123"
type Secret struct {
	value string
}

// NewSecret wraps a string value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String implements fmt.Stringer with a redacted placeholder.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer, covering %#v formatting.
func (s Secret) GoString() string {
	return "core.Secret{[REDACTED]}"
}

// MarshalJSON renders the secret as a redacted JSON string.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText implements encoding.TextMarshaler, covering YAML and
// similar text encoders.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// Expose returns the actual value. Callers own the responsibility of not
// logging or serializing what it returns; the intended use is building
// Authorization headers.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether the wrapped value is the empty string.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
