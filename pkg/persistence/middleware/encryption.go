package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

const envelopePrefix = "enc:v1:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.StackStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts every record
// parameter using AES-GCM. Names and modes stay readable for inspection.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.StackStore) ports.StackStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, containerID string, records []domain.RecoveryRecord) error {
	sealed := make([]domain.RecoveryRecord, len(records))
	for i, r := range records {
		ciphertext, err := encrypt([]byte(r.Param), m.config.ActiveKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt record %d: %w", i, err)
		}
		r.Param = envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext)
		sealed[i] = r
	}
	return m.next.Save(ctx, containerID, sealed)
}

func (m *encryptionMiddleware) Load(ctx context.Context, containerID string) ([]domain.RecoveryRecord, error) {
	sealed, err := m.next.Load(ctx, containerID)
	if err != nil {
		return nil, err
	}

	records := make([]domain.RecoveryRecord, len(sealed))
	for i, r := range sealed {
		encoded, ok := strings.CutPrefix(r.Param, envelopePrefix)
		if !ok {
			// Fail secure: a plain parameter means the stack was not written by us.
			return nil, fmt.Errorf("record %d (%s) is missing encrypted data envelope", i, r.Name)
		}
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
		}
		plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt record %d: %w", i, err)
		}
		r.Param = string(plain)
		records[i] = r
	}
	return records, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, containerID string) error {
	return m.next.Delete(ctx, containerID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
