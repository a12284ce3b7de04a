package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the raw password")
	}

	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Error("correct password did not match its hash")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Error("wrong password matched the hash")
	}
}

func TestCheckPasswordHashGarbage(t *testing.T) {
	if CheckPasswordHash("anything", "not-a-bcrypt-hash") {
		t.Error("garbage hash matched a password")
	}
}
