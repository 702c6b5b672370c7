package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex HMAC-SHA256 of "orderRef|paymentRef" under secret,
// which is what the gateway attaches to its callbacks.
func Sign(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, orderRef, paymentRef, signature string) bool {
	if secret == "" || orderRef == "" || paymentRef == "" {
		return false
	}

	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))

	return hmac.Equal(got, mac.Sum(nil))
}
