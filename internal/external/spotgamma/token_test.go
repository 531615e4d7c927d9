package spotgamma

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSignedTokenSignature(t *testing.T) {
	secret := "secretKeyValue"

	token, err := SignedToken(secret, nil)
	if err != nil {
		t.Fatalf("SignedToken() failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("Expected 3 token segments, got %d", len(parts))
	}

	// No base64 padding in any segment
	for i, part := range parts {
		if strings.Contains(part, "=") {
			t.Errorf("Segment %d contains padding: %s", i, part)
		}
	}

	// Signature must recompute as HMAC-SHA256 over header.payload
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(parts[0] + "." + parts[1]))
	want := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	if parts[2] != want {
		t.Errorf("Signature mismatch: got %s, want %s", parts[2], want)
	}
}

func TestSignedTokenHeader(t *testing.T) {
	token, err := SignedToken("k", nil)
	if err != nil {
		t.Fatalf("SignedToken() failed: %v", err)
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[0])
	if err != nil {
		t.Fatalf("Header segment not base64url: %v", err)
	}

	var header map[string]string
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		t.Fatalf("Header not JSON: %v", err)
	}

	if header["alg"] != "HS256" {
		t.Errorf("Expected alg=HS256, got %s", header["alg"])
	}
	if header["typ"] != "JWT" {
		t.Errorf("Expected typ=JWT, got %s", header["typ"])
	}
}

func TestSignedTokenInjectsIssuedAt(t *testing.T) {
	before := time.Now().Unix()

	token, err := SignedToken("k", nil)
	if err != nil {
		t.Fatalf("SignedToken() failed: %v", err)
	}

	after := time.Now().Unix()

	payloadBytes, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	if err != nil {
		t.Fatalf("Payload segment not base64url: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		t.Fatalf("Payload not JSON: %v", err)
	}

	iat, ok := payload["iat"].(float64)
	if !ok {
		t.Fatalf("Expected numeric iat claim, got %v", payload["iat"])
	}

	if int64(iat) < before || int64(iat) > after {
		t.Errorf("iat=%d outside [%d, %d]", int64(iat), before, after)
	}
}

func TestSignedTokenPreservesExplicitClaims(t *testing.T) {
	token, err := SignedToken("k", map[string]interface{}{
		"iat": int64(1700000000),
		"sub": "levels",
	})
	if err != nil {
		t.Fatalf("SignedToken() failed: %v", err)
	}

	// Deterministic for a fixed claim set
	token2, err := SignedToken("k", map[string]interface{}{
		"iat": int64(1700000000),
		"sub": "levels",
	})
	if err != nil {
		t.Fatalf("SignedToken() failed: %v", err)
	}

	if token != token2 {
		t.Error("Expected identical tokens for identical claims")
	}

	payloadBytes, _ := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	var payload map[string]interface{}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		t.Fatalf("Payload not JSON: %v", err)
	}

	if int64(payload["iat"].(float64)) != 1700000000 {
		t.Errorf("Explicit iat overwritten: %v", payload["iat"])
	}
	if payload["sub"] != "levels" {
		t.Errorf("Expected sub=levels, got %v", payload["sub"])
	}
}
