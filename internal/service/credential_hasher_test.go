package service

import "testing"

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}

	if !hasher.Verify(hash, "hunter22") {
		t.Error("Verify rejected the correct secret")
	}
	if hasher.Verify(hash, "wrong") {
		t.Error("Verify accepted a wrong secret")
	}
}
