package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test_secret_key"

	t.Run("accepts a correctly signed pair", func(t *testing.T) {
		sig := sign("order_abc", "pay_xyz", secret)
		assert.True(t, VerifySignature("order_abc", "pay_xyz", sig, secret))
	})

	t.Run("rejects a tampered payment id", func(t *testing.T) {
		sig := sign("order_abc", "pay_xyz", secret)
		assert.False(t, VerifySignature("order_abc", "pay_other", sig, secret))
	})

	t.Run("rejects a tampered order id", func(t *testing.T) {
		sig := sign("order_abc", "pay_xyz", secret)
		assert.False(t, VerifySignature("order_other", "pay_xyz", sig, secret))
	})

	t.Run("rejects a signature minted with a different secret", func(t *testing.T) {
		sig := sign("order_abc", "pay_xyz", "wrong_secret")
		assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, secret))
	})

	t.Run("rejects a single flipped hex digit", func(t *testing.T) {
		sig := sign("order_abc", "pay_xyz", secret)
		flipped := []byte(sig)
		if flipped[0] == 'a' {
			flipped[0] = 'b'
		} else {
			flipped[0] = 'a'
		}
		assert.False(t, VerifySignature("order_abc", "pay_xyz", string(flipped), secret))
	})

	t.Run("rejects empty signature", func(t *testing.T) {
		assert.False(t, VerifySignature("order_abc", "pay_xyz", "", secret))
	})
}
