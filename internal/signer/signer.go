// Package signer implements the CLOVA Chatbot request-signing scheme:
// a base64-encoded HMAC-SHA256 digest over the literal request body.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// ErrEmptySecret is returned when no signing secret is configured.
var ErrEmptySecret = errors.New("signer: secret key must not be empty")

// Sign computes base64(HMAC-SHA256(secretKey, body)). body must be the exact
// bytes that will be transmitted — signing a re-serialized copy produces a
// signature the upstream rejects.
func Sign(secretKey string, body []byte) (string, error) {
	if secretKey == "" {
		return "", ErrEmptySecret
	}
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether signature matches Sign(secretKey, body) using a
// constant-time comparison.
func Verify(secretKey string, body []byte, signature string) bool {
	expected, err := Sign(secretKey, body)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}
