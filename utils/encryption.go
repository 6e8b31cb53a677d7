package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"ptaconnect/config"
)

// DataClass selects which symmetric key protects a blob.
type DataClass string

const (
	DataClassPII       DataClass = "pii"
	DataClassFinancial DataClass = "financial"
	DataClassHealth    DataClass = "health"
)

func keyForClass(class DataClass) (string, error) {
	switch class {
	case DataClassPII:
		return config.AppConfig.PIIEncryptionKey, nil
	case DataClassFinancial:
		return config.AppConfig.FinancialEncryptionKey, nil
	case DataClassHealth:
		return config.AppConfig.HealthEncryptionKey, nil
	default:
		return "", fmt.Errorf("unknown data class: %s", class)
	}
}

// Encrypt seals plaintext with AES-256-GCM under the key for the given data
// class. The key is derived with SHA-256 and the nonce is prepended to the
// ciphertext so it can be recovered during decryption.
func Encrypt(plaintext []byte, class DataClass) ([]byte, error) {
	secret, err := keyForClass(class)
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, fmt.Errorf("encryption key for class %s is not configured", class)
	}

	keyHash := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(keyHash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt with the same data class.
func Decrypt(ciphertext []byte, class DataClass) ([]byte, error) {
	secret, err := keyForClass(class)
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, fmt.Errorf("encryption key for class %s is not configured", class)
	}

	keyHash := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(keyHash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
