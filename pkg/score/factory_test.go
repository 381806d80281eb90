// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestCreateBackend_Builtin(t *testing.T) {
	ctx := context.Background()

	memory, err := CreateBackend(ctx, BackendConfig{Type: MemoryBackendType})
	if err != nil {
		t.Fatalf("CreateBackend(memory) error = %v", err)
	}
	if memory.Type() != MemoryBackendType {
		t.Errorf("Type() = %s, expected %s", memory.Type(), MemoryBackendType)
	}

	sqlite, err := CreateBackend(ctx, BackendConfig{
		Type:       SQLiteBackendType,
		Namespace:  "test",
		Parameters: map[string]interface{}{"path": filepath.Join(t.TempDir(), "flick.db")},
	})
	if err != nil {
		t.Fatalf("CreateBackend(sqlite) error = %v", err)
	}
	defer sqlite.Close()
	if sqlite.Type() != SQLiteBackendType {
		t.Errorf("Type() = %s, expected %s", sqlite.Type(), SQLiteBackendType)
	}
}

func TestCreateBackend_Unknown(t *testing.T) {
	_, err := CreateBackend(context.Background(), BackendConfig{Type: "carrier-pigeon"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("CreateBackend() error = %v, expected ErrUnknownBackend", err)
	}
}

func TestRegisterBackendType(t *testing.T) {
	RegisterBackendType("test-custom", func(ctx context.Context, config BackendConfig) (Backend, error) {
		return NewMemoryBackend(), nil
	})

	found := false
	for _, bt := range BackendTypes() {
		if bt == "test-custom" {
			found = true
		}
	}
	if !found {
		t.Errorf("BackendTypes() = %v, expected test-custom registered", BackendTypes())
	}
}

func TestBackendConfig_String(t *testing.T) {
	cfg := BackendConfig{Parameters: map[string]interface{}{"path": "a.db", "n": 3}}

	if got := cfg.String("path", "x"); got != "a.db" {
		t.Errorf("String(path) = %s, expected a.db", got)
	}
	if got := cfg.String("n", "x"); got != "x" {
		t.Errorf("String(n) = %s, expected fallback x", got)
	}
	if got := cfg.String("missing", "x"); got != "x" {
		t.Errorf("String(missing) = %s, expected fallback x", got)
	}
}
