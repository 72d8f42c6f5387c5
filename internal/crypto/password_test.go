package crypto

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if bytes.Contains(hash, []byte("secret123")) {
		t.Fatalf("hash contains plaintext")
	}
	if !CheckPassword(hash, "secret123") {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword(hash, "secret124") {
		t.Fatalf("expected mismatching password to fail")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatalf("expected distinct salts to produce distinct hashes")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if CheckPassword([]byte("not-a-bcrypt-hash"), "secret123") {
		t.Fatalf("expected malformed hash to compare as false")
	}
	if CheckPassword(nil, "secret123") {
		t.Fatalf("expected nil hash to compare as false")
	}
}

func TestHashPasswordDefaultCost(t *testing.T) {
	hash, err := HashPassword("secret123", 0)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cost, err := bcrypt.Cost(hash)
	if err != nil {
		t.Fatalf("read cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", cost)
	}
}
