package helpers

import "testing"

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("password stored in plain text")
	}
	if !CompareHashAndPassword(hash, "secret123") {
		t.Fatal("expected password to match")
	}
	if CompareHashAndPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail")
	}
	if CompareHashAndPassword("", "secret123") {
		t.Fatal("expected empty hash to fail")
	}
}
