package logger

import "testing"

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer fk_abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskAuthorizationRawValue(t *testing.T) {
	got := MaskAuthorization("fk_abcdef1234")
	want := "****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := MaskAuthorization(""); got != "" {
		t.Fatalf("expected empty for empty input, got %q", got)
	}
}

func TestMaskIfSensitive(t *testing.T) {
	if got := MaskIfSensitive("password", "hunter22"); got != "****er22" {
		t.Fatalf("expected masked password, got %q", got)
	}
	if got := MaskIfSensitive("Api_Key", "key_12345678"); got != "****5678" {
		t.Fatalf("expected masked api key, got %q", got)
	}
	if got := MaskIfSensitive("currency", "USD"); got != "USD" {
		t.Fatalf("expected plain value to pass through, got %q", got)
	}
}

func TestMaskShortValues(t *testing.T) {
	if got := MaskIfSensitive("token", "ab"); got != "****" {
		t.Fatalf("expected full mask for short value, got %q", got)
	}
}
