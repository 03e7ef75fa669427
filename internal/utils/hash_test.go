// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/hex"
	"testing"
)

func TestInitHasherPoolAndHash(t *testing.T) {
	InitHasherPool("secret")

	sum := Hash([]byte(`{"syncId":"s1","photos":[]}`))
	if len(sum) != 32 {
		t.Fatalf("expected 32 byte digest, got %d", len(sum))
	}
}

func TestHash_MatchesSignPayload(t *testing.T) {
	InitHasherPool("secret")
	payload := []byte(`{"syncId":"s1"}`)

	if got, want := hex.EncodeToString(Hash(payload)), SignPayload(payload, "secret"); got != want {
		t.Errorf("pooled hash %s differs from SignPayload %s", got, want)
	}
}

func TestHash_SamePayload_Deterministic(t *testing.T) {
	InitHasherPool("secret")
	payload := []byte("same")

	first := hex.EncodeToString(Hash(payload))
	for i := 0; i < 10; i++ {
		if next := hex.EncodeToString(Hash(payload)); next != first {
			t.Fatalf("iteration %d: expected %s, got %s", i, first, next)
		}
	}
}

func TestSignPayload_DifferentKeys(t *testing.T) {
	payload := []byte("data")
	if SignPayload(payload, "k1") == SignPayload(payload, "k2") {
		t.Error("expected different signatures for different keys")
	}
}

func TestVerifyPayload(t *testing.T) {
	InitHasherPool("secret")
	payload := []byte(`{"photos":[{"id":"p1"}]}`)

	tests := []struct {
		name      string
		signature string
		want      bool
	}{
		{"valid signature", SignPayload(payload, "secret"), true},
		{"signed with another key", SignPayload(payload, "other"), false},
		{"not hex", "zz-not-hex", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPayload(payload, tt.signature); got != tt.want {
				t.Errorf("VerifyPayload() = %v, want %v", got, tt.want)
			}
		})
	}
}
