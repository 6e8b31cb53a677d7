package utils

import (
	"testing"

	"ptaconnect/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEncryptionKeys(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig.PIIEncryptionKey = "test-pii-key-0123456789abcdef0123"
	config.AppConfig.FinancialEncryptionKey = "test-fin-key-0123456789abcdef0123"
	config.AppConfig.HealthEncryptionKey = "test-hlt-key-0123456789abcdef0123"
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	setEncryptionKeys(t)
	plaintext := []byte(`{"member":"data"}`)

	for _, class := range []DataClass{DataClassPII, DataClassFinancial, DataClassHealth} {
		sealed, err := Encrypt(plaintext, class)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, sealed)

		opened, err := Decrypt(sealed, class)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestDecryptWithWrongClassFails(t *testing.T) {
	setEncryptionKeys(t)

	sealed, err := Encrypt([]byte("secret"), DataClassPII)
	require.NoError(t, err)

	_, err = Decrypt(sealed, DataClassFinancial)
	assert.Error(t, err, "a blob sealed under one class must not open under another")
}

func TestEncryptProducesFreshNonces(t *testing.T) {
	setEncryptionKeys(t)

	a, err := Encrypt([]byte("same input"), DataClassPII)
	require.NoError(t, err)
	b, err := Encrypt([]byte("same input"), DataClassPII)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncryptRequiresConfiguredKey(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig.PIIEncryptionKey = ""
	t.Cleanup(func() { config.AppConfig = prev })

	_, err := Encrypt([]byte("secret"), DataClassPII)
	assert.Error(t, err)
}

func TestDecryptRejectsTruncatedCiphertext(t *testing.T) {
	setEncryptionKeys(t)

	_, err := Decrypt([]byte{0x01, 0x02}, DataClassPII)
	assert.Error(t, err)
}
