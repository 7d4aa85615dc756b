package security

import (
	"strings"
	"testing"
)

func TestGenerateAndVerify_Success(t *testing.T) {
	t.Parallel()

	a := NewArgon()

	encoded, err := a.GenerateFromPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("GenerateFromPassword error: %v", err)
	}

	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash encoding: %q", encoded)
	}

	ok, err := a.VerifyPasswd("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("VerifyPasswd error: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	t.Parallel()

	a := NewArgon()

	encoded, err := a.GenerateFromPassword("right-password")
	if err != nil {
		t.Fatalf("GenerateFromPassword error: %v", err)
	}

	ok, err := a.VerifyPasswd("wrong-password", encoded)
	if err != nil {
		t.Fatalf("VerifyPasswd error: %v", err)
	}
	if ok {
		t.Fatalf("wrong password must not verify")
	}
}

func TestVerify_SaltsDiffer(t *testing.T) {
	t.Parallel()

	a := NewArgon()

	h1, err := a.GenerateFromPassword("same-password")
	if err != nil {
		t.Fatalf("GenerateFromPassword error: %v", err)
	}
	h2, err := a.GenerateFromPassword("same-password")
	if err != nil {
		t.Fatalf("GenerateFromPassword error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password must not be equal")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	t.Parallel()

	a := NewArgon()

	if _, err := a.VerifyPasswd("whatever", "not-a-phc-hash"); err == nil {
		t.Fatalf("expected error for malformed hash, got nil")
	}
}
