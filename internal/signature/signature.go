// Package signature holds the crypto helpers shared by settlement and
// redemption: webhook HMAC verification and redemption token generation.
package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// Sign computes the hex-encoded HMAC-SHA512 of payload under secret. The
// gateway signs the raw request body with the shared secret key.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether sig is the valid signature of payload. The
// comparison is constant-time; a length mismatch fails without leaking
// how far the match got.
func Verify(payload []byte, sig, secret string) bool {
	if sig == "" {
		return false
	}
	expected := Sign(payload, secret)
	if len(expected) != len(sig) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) == 1
}

// NewToken returns a hex-encoded token with n random bytes of entropy.
// Redemption tokens are never derived from ticket ids, so holding one
// ticket id gives no way to enumerate another ticket's token.
func NewToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
