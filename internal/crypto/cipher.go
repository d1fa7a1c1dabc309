package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
)

// EncryptCTR encrypts plaintext with AES-256-CTR, using iv as the
// initial counter block.
func EncryptCTR(key [32]byte, iv [16]byte, plaintext []byte) []byte {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		// 32-byte keys cannot produce a KeySizeError.
		panic(err)
	}
	out := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv[:]).XORKeyStream(out, plaintext)
	return out
}

// DecryptCTR is EncryptCTR; CTR mode is symmetric.
func DecryptCTR(key [32]byte, iv [16]byte, ciphertext []byte) []byte {
	return EncryptCTR(key, iv, ciphertext)
}

// HMACSHA256 computes HMAC-SHA256 over the concatenation of parts.
func HMACSHA256(key []byte, parts ...[]byte) []byte {
	h := hmac.New(sha256.New, key)
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// TruncatedMAC returns the leading n bytes of HMAC-SHA256 over parts.
func TruncatedMAC(key []byte, n int, parts ...[]byte) []byte {
	return HMACSHA256(key, parts...)[:n]
}

// ConstantTimeEqual compares two MACs without leaking a timing signal.
func ConstantTimeEqual(a, b []byte) bool {
	return hmac.Equal(a, b)
}
