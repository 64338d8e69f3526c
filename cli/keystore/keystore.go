// Package keystore provides secure storage for provider API keys.
package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Keystore stores named secrets. Implementations must never log or
// otherwise expose stored values.
type Keystore interface {
	// Set stores a key-value pair, replacing any existing value.
	Set(name, value string) error
	// Get retrieves a value by name.
	Get(name string) (string, error)
	// Delete removes a key by name.
	Delete(name string) error
	// List returns all stored key names in sorted order.
	List() ([]string, error)
}

// ErrKeyNotFound is returned when a requested key does not exist.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return fmt.Sprintf("key not found: %s", e.Name)
}

// MasterKeySource supplies the master key material used to derive the
// keystore encryption key.
type MasterKeySource interface {
	GetMasterKey() ([]byte, error)
}

// DefaultKeystorePath returns the default keystore file path for the current platform.
// - macOS/Linux: ~/.scribe/keys.enc
// - Windows: %USERPROFILE%\.scribe\keys.enc
func DefaultKeystorePath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "keys.enc"
	}

	return filepath.Join(homeDir, ".scribe", "keys.enc")
}

// NewKeystore creates a keystore at the default path using the
// machine-derived master key.
func NewKeystore() (Keystore, error) {
	return NewFileKeystore(DefaultKeystorePath())
}
