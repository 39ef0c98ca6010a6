package fireblocks

import (
	"errors"
	"testing"
	"time"
)

func TestSign_FreshTokensShareBinding(t *testing.T) {
	signer := NewSigner(testApiKey, signingKey(t))
	path := "/v1/transactions"
	body := []byte(`{"assetId":"SOL_TEST"}`)

	first, err := signer.Sign(path, body)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	second, err := signer.Sign(path, body)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if first == second {
		t.Fatal("expected two tokens for the same request to differ")
	}

	firstClaims, err := VerifyToken(first, &signingKey(t).PublicKey, path, body)
	if err != nil {
		t.Fatalf("first token does not verify: %v", err)
	}
	secondClaims, err := VerifyToken(second, &signingKey(t).PublicKey, path, body)
	if err != nil {
		t.Fatalf("second token does not verify: %v", err)
	}

	if firstClaims.Nonce == secondClaims.Nonce {
		t.Errorf("nonce reused: %s", firstClaims.Nonce)
	}
	if firstClaims.BodyHash != secondClaims.BodyHash || firstClaims.Uri != secondClaims.Uri {
		t.Errorf("content binding differs: %+v vs %+v", firstClaims, secondClaims)
	}
}

func TestSign_Claims(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	signer := NewSigner(testApiKey, signingKey(t))
	signer.now = func() time.Time { return now }

	token, err := signer.Sign("/v1/transactions/abc", nil)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	claims, err := VerifyToken(token, &signingKey(t).PublicKey, "/v1/transactions/abc", nil)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}

	if claims.Subject != testApiKey {
		t.Errorf("sub = %q, want %q", claims.Subject, testApiKey)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != TokenLifetime {
		t.Errorf("lifetime = %s, want %s", got, TokenLifetime)
	}
	// sha256 of the empty body
	if claims.BodyHash != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("bodyHash = %s", claims.BodyHash)
	}
}

func TestVerifyToken_RejectsOtherRequests(t *testing.T) {
	signer := NewSigner(testApiKey, signingKey(t))
	token, err := signer.Sign("/v1/transactions", []byte(`{"amount":"1"}`))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	pub := &signingKey(t).PublicKey

	tests := []struct {
		name string
		path string
		body []byte
	}{
		{"different path", "/v1/vault/accounts/0/SOL/addresses_paginated", []byte(`{"amount":"1"}`)},
		{"different body", "/v1/transactions", []byte(`{"amount":"2"}`)},
		{"empty body", "/v1/transactions", nil},
	}
	for _, tt := range tests {
		if _, err := VerifyToken(token, pub, tt.path, tt.body); !errors.Is(err, ErrInvalidCredential) {
			t.Errorf("%s: error = %v, want ErrInvalidCredential", tt.name, err)
		}
	}
}

func TestVerifyToken_RejectsExpired(t *testing.T) {
	signer := NewSigner(testApiKey, signingKey(t))
	signer.now = func() time.Time { return time.Now().Add(-2 * TokenLifetime) }

	token, err := signer.Sign("/v1/transactions", nil)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := VerifyToken(token, &signingKey(t).PublicKey, "/v1/transactions", nil); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
