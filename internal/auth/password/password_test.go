package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding: %s", encoded)
	}
	if !Verify("correct horse battery staple", encoded) {
		t.Fatal("expected verify to accept the original password")
	}
	if Verify("wrong password", encoded) {
		t.Fatal("expected verify to reject a wrong password")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to yield distinct encodings")
	}
	if !Verify("secret123", first) || !Verify("secret123", second) {
		t.Fatal("expected both encodings to verify")
	}
}

func TestVerifyRejectsMalformedEncodings(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!",
	}
	for _, encoded := range cases {
		if Verify("whatever", encoded) {
			t.Fatalf("expected verify to reject %q", encoded)
		}
	}
}
