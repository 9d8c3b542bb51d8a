package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
)

const (
	// encPrefix marks encrypted values and supports future versioning
	encPrefix   = "enc:v1:"
	gcmNonceLen = 12 // AES-GCM standard nonce length
)

var (
	cryptoMu      sync.RWMutex
	encryptionKey []byte
)

// SetTokenSecret installs the AES-256 key used to encrypt stored Fitbit
// tokens. The secret must be a base64-encoded 32-byte value
// (openssl rand -base64 32). Called once at startup from config.
func SetTokenSecret(base64Secret string) error {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(base64Secret))
	if err != nil {
		return errors.New("failed to base64 decode token secret")
	}
	if len(raw) != 32 {
		return errors.New("token secret must decode to exactly 32 bytes")
	}
	cryptoMu.Lock()
	encryptionKey = raw
	cryptoMu.Unlock()
	return nil
}

func currentKey() ([]byte, error) {
	cryptoMu.RLock()
	defer cryptoMu.RUnlock()
	if len(encryptionKey) != 32 {
		return nil, errors.New("token secret is not configured")
	}
	return encryptionKey, nil
}

// EncryptToken encrypts the plaintext token using AES-256-GCM.
// Format: "enc:v1:" + base64(nonce || ciphertext)
func EncryptToken(plaintext string) (string, error) {
	key, err := currentKey()
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcmNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	combined := append(nonce, ciphertext...)
	return encPrefix + base64.StdEncoding.EncodeToString(combined), nil
}

// DecryptToken decrypts an encrypted token. Values without the enc:v1:
// prefix are rejected; there is no plaintext backward compatibility.
func DecryptToken(s string) (string, error) {
	if !strings.HasPrefix(s, encPrefix) {
		return "", errors.New("token is not encrypted (missing " + encPrefix + " prefix)")
	}
	key, err := currentKey()
	if err != nil {
		return "", err
	}

	combined, err := base64.StdEncoding.DecodeString(s[len(encPrefix):])
	if err != nil {
		return "", errors.New("failed to base64 decode encrypted token")
	}
	if len(combined) < gcmNonceLen {
		return "", errors.New("invalid encrypted token payload")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	plain, err := gcm.Open(nil, combined[:gcmNonceLen], combined[gcmNonceLen:], nil)
	if err != nil {
		return "", errors.New("failed to decrypt token")
	}
	return string(plain), nil
}
