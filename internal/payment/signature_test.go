package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")
	assert.Len(t, sig, 64)
	assert.Equal(t, sig, Sign("secret", "order_1", "pay_1"))
	assert.NotEqual(t, sig, Sign("other", "order_1", "pay_1"))
	assert.NotEqual(t, sig, Sign("secret", "order_1|pay", "_1x"))
}

func TestVerifySignature(t *testing.T) {
	good := Sign("secret", "order_1", "pay_1")

	assert.True(t, VerifySignature("secret", "order_1", "pay_1", good))

	altered := []byte(good)
	altered[0] ^= 1
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", string(altered)))
	assert.False(t, VerifySignature("secret", "order_1", "pay_2", good))
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", ""))
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", good[:63]))
}
