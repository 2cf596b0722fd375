package domain

import (
	"strings"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(key, "fk_") {
		t.Fatalf("expected fk_ prefix, got %q", key)
	}
	other, err := GenerateKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if key == other {
		t.Fatal("expected unique keys")
	}
}

func TestHashAPIKeyIsStable(t *testing.T) {
	key := "fk_test_key"
	first := HashAPIKey(key)
	second := HashAPIKey(key)
	if first != second {
		t.Fatal("expected deterministic hash")
	}
	if len(first) != 64 {
		t.Fatalf("expected hex sha256, got %d chars", len(first))
	}
	if first == HashAPIKey("fk_other_key") {
		t.Fatal("expected distinct keys to hash differently")
	}
}
