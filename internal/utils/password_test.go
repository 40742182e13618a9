package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("rahasia123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "rahasia123" {
		t.Fatal("hash must not equal the plain password")
	}
	if !VerifyPassword(hash, "rahasia123") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "salah") {
		t.Fatal("wrong password accepted")
	}
}

func TestRandomPassword(t *testing.T) {
	p, err := RandomPassword(8)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(p) != 8 {
		t.Fatalf("got length %d, want 8", len(p))
	}
	for _, r := range p {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Fatalf("character %q outside alphabet", r)
		}
	}
	q, err := RandomPassword(8)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if p == q {
		t.Fatal("two generated passwords should differ")
	}
}
