package service_test

import (
	"testing"

	"github.com/space2study/ms-go-api/app/service"
	"github.com/space2study/ms-go-api/config"
)

func TestHasher_HashAndCompare(t *testing.T) {
	hasher := service.NewHasher(config.HashConfig{SaltRounds: 4})

	hash, err := hasher.Hash("testpass_135")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "testpass_135" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !hasher.Compare("testpass_135", hash) {
		t.Fatal("expected matching password to compare true")
	}
	if hasher.Compare("wrong-password", hash) {
		t.Fatal("expected mismatching password to compare false")
	}
}

func TestHasher_EmptyPlaintextNeverMatches(t *testing.T) {
	hasher := service.NewHasher(config.HashConfig{SaltRounds: 4})

	hash, err := hasher.Hash("")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hasher.Compare("", hash) {
		t.Fatal("empty plaintext must never match")
	}
}

func TestHasher_InvalidCostFallsBackToDefault(t *testing.T) {
	hasher := service.NewHasher(config.HashConfig{SaltRounds: 99})

	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !hasher.Compare("secret", hash) {
		t.Fatal("expected matching password to compare true")
	}
}
