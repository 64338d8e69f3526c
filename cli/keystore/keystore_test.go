package keystore

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newTestKeystore(t *testing.T) *FileKeystore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.enc")
	ks, err := NewFileKeystoreWithSource(path, StaticKeySource{Key: []byte("test-master-key")})
	if err != nil {
		t.Fatalf("NewFileKeystoreWithSource() error = %v", err)
	}
	return ks
}

func TestFileKeystoreSetAndGet(t *testing.T) {
	ks := newTestKeystore(t)

	if err := ks.Set("openai", "sk-test-key-12345"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, err := ks.Get("openai")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if value != "sk-test-key-12345" {
		t.Errorf("Get() = %q, want sk-test-key-12345", value)
	}
}

func TestFileKeystoreGetNotFound(t *testing.T) {
	ks := newTestKeystore(t)

	_, err := ks.Get("nonexistent")
	if err == nil {
		t.Fatal("Get() should return error for nonexistent key")
	}

	if _, ok := err.(*ErrKeyNotFound); !ok {
		t.Errorf("Get() error type = %T, want *ErrKeyNotFound", err)
	}
}

func TestFileKeystoreDelete(t *testing.T) {
	ks := newTestKeystore(t)

	if err := ks.Set("openai", "sk-test"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := ks.Delete("openai"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := ks.Get("openai")
	if _, ok := err.(*ErrKeyNotFound); !ok {
		t.Error("Get() should return ErrKeyNotFound after Delete()")
	}
}

func TestFileKeystoreDeleteNotFound(t *testing.T) {
	ks := newTestKeystore(t)

	err := ks.Delete("nonexistent")
	if err == nil {
		t.Fatal("Delete() should return error for nonexistent key")
	}

	if _, ok := err.(*ErrKeyNotFound); !ok {
		t.Errorf("Delete() error type = %T, want *ErrKeyNotFound", err)
	}
}

func TestFileKeystoreList(t *testing.T) {
	ks := newTestKeystore(t)

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() on empty keystore returned %d items", len(names))
	}

	if err := ks.Set("openai", "key1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := ks.Set("azure", "key2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	names, err = ks.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	// Names come back sorted
	if len(names) != 2 || names[0] != "azure" || names[1] != "openai" {
		t.Errorf("List() = %v, want [azure openai]", names)
	}
}

func TestFileKeystorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.enc")
	source := StaticKeySource{Key: []byte("shared-master-key")}

	ks1, err := NewFileKeystoreWithSource(path, source)
	if err != nil {
		t.Fatalf("NewFileKeystoreWithSource() error = %v", err)
	}
	if err := ks1.Set("openai", "persisted-key"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	ks2, err := NewFileKeystoreWithSource(path, source)
	if err != nil {
		t.Fatalf("NewFileKeystoreWithSource() error = %v", err)
	}
	value, err := ks2.Get("openai")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "persisted-key" {
		t.Errorf("Get() = %q, want persisted-key", value)
	}
}

func TestFileKeystoreWrongMasterKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.enc")

	ks1, err := NewFileKeystoreWithSource(path, StaticKeySource{Key: []byte("right-key")})
	if err != nil {
		t.Fatalf("NewFileKeystoreWithSource() error = %v", err)
	}
	if err := ks1.Set("openai", "secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	ks2, err := NewFileKeystoreWithSource(path, StaticKeySource{Key: []byte("wrong-key")})
	if err != nil {
		t.Fatalf("NewFileKeystoreWithSource() error = %v", err)
	}
	if _, err := ks2.Get("openai"); err == nil {
		t.Error("Get() with wrong master key should fail to decrypt")
	}
}

func TestFileKeystoreFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.enc")

	ks, err := NewFileKeystoreWithSource(path, StaticKeySource{Key: []byte("test-key")})
	if err != nil {
		t.Fatalf("NewFileKeystoreWithSource() error = %v", err)
	}
	if err := ks.Set("openai", "secret-value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(raw[:4]) != magicHeader {
		t.Errorf("file magic = %q, want %q", raw[:4], magicHeader)
	}
	if raw[4] != formatVersion {
		t.Errorf("file version = %#x, want %#x", raw[4], formatVersion)
	}

	// Plaintext must not appear in the file
	if bytes.Contains(raw, []byte("secret-value")) {
		t.Error("stored value appears unencrypted in keystore file")
	}
}

func TestFileKeystoreCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.enc")

	if err := os.WriteFile(path, []byte("not a keystore"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ks, err := NewFileKeystoreWithSource(path, StaticKeySource{Key: []byte("test-key")})
	if err != nil {
		t.Fatalf("NewFileKeystoreWithSource() error = %v", err)
	}

	if _, err := ks.Get("openai"); err == nil {
		t.Error("Get() should fail on corrupted keystore file")
	}
}

func TestFileKeystorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "keys.enc")
	ks, err := NewFileKeystoreWithSource(path, StaticKeySource{Key: []byte("test-key")})
	if err != nil {
		t.Fatalf("NewFileKeystoreWithSource() error = %v", err)
	}
	if err := ks.Set("openai", "secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("keystore file mode = %o, want 0600", perm)
	}
}

func TestStaticKeySourceEmpty(t *testing.T) {
	if _, err := (StaticKeySource{}).GetMasterKey(); err == nil {
		t.Error("empty StaticKeySource should fail")
	}
}

func TestErrKeyNotFoundMessage(t *testing.T) {
	err := &ErrKeyNotFound{Name: "openai"}
	if err.Error() != "key not found: openai" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestDefaultKeystorePath(t *testing.T) {
	path := DefaultKeystorePath()

	if filepath.Base(path) != "keys.enc" {
		t.Errorf("DefaultKeystorePath() = %q, should end with keys.enc", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".scribe" {
		t.Errorf("DefaultKeystorePath() = %q, should be in .scribe directory", path)
	}
}
