package webex

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

// SignatureHeader carries the HMAC-SHA1 of the webhook body, keyed with the
// secret given when the webhook was registered.
const SignatureHeader = "X-Spark-Signature"

// VerifySignature checks a webhook body against its signature header.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	want := mac.Sum(nil)

	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, want)
}
