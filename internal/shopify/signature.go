package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	apperrors "shopgate/internal/errors"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Shopify-Hmac-Sha256"

// ComputeSignature returns the base64-encoded HMAC-SHA256 digest of body
// under secret.
func ComputeSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature against the exact raw body
// bytes. Any re-serialization of the body would invalidate the signature, so
// callers must pass the unparsed payload. The comparison is constant time.
func VerifySignature(body []byte, provided, secret string) error {
	if provided == "" {
		return apperrors.ErrSignatureMissing
	}
	expected := ComputeSignature(body, secret)
	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return apperrors.ErrSignatureInvalid
	}
	return nil
}
