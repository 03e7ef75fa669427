package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// hasherPool is a package-level pool of reusable HMAC-SHA256 hash instances.
// Must be initialized via InitHasherPool before Hash is called.
var hasherPool sync.Pool

// InitHasherPool initializes the pool of HMAC-SHA256 hashers used to sign
// and check request bodies. Every hasher is keyed with hashKey.
func InitHasherPool(hashKey string) {
	hasherPool = sync.Pool{
		New: func() any {
			return hmac.New(sha256.New, []byte(hashKey))
		},
	}
}

// Hash computes an HMAC-SHA256 signature over data using a pooled hasher.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// SignPayload returns the hex-encoded HMAC-SHA256 of data keyed with
// hashKey. Clients use it to fill the HashSHA256 header.
func SignPayload(data []byte, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// VerifyPayload reports whether signature is the hex HMAC of data under the
// pooled key. The comparison is constant time.
func VerifyPayload(data []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(Hash(data), expected)
}
