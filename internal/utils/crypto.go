package utils

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// KeyDerivationConfig holds the Argon2id parameters used to stretch the
// session secret before the cookie keys are expanded from it
type KeyDerivationConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	Salt        string
	KeyLength   uint32
}

// DefaultKeyDerivationConfig returns the default configuration for session keys
func DefaultKeyDerivationConfig() *KeyDerivationConfig {
	return &KeyDerivationConfig{
		Memory:      64 * 1024, // 64 MB
		Iterations:  1,
		Parallelism: 2,
		Salt:        "event-ticketing-storefront/session",
		KeyLength:   32,
	}
}

// SessionKeys are the keys handed to gorilla/sessions
type SessionKeys struct {
	HashKey  []byte // HMAC-SHA256 authentication
	BlockKey []byte // AES-256 encryption
}

// DeriveSessionKeys stretches secret with Argon2id and expands the result with
// HKDF-SHA256 into independent authentication and encryption keys. The same
// secret always yields the same keys so cookies survive restarts.
func DeriveSessionKeys(secret string, config *KeyDerivationConfig) (*SessionKeys, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if config == nil {
		config = DefaultKeyDerivationConfig()
	}

	master := argon2.IDKey([]byte(secret), []byte(config.Salt), config.Iterations, config.Memory, config.Parallelism, config.KeyLength)

	hashKey, err := expandKey(master, "cookie-hash", 32)
	if err != nil {
		return nil, err
	}
	blockKey, err := expandKey(master, "cookie-block", 32)
	if err != nil {
		return nil, err
	}

	return &SessionKeys{HashKey: hashKey, BlockKey: blockKey}, nil
}

func expandKey(master []byte, info string, length int) ([]byte, error) {
	key := make([]byte, length)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, master, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive %s key: %w", info, err)
	}
	return key, nil
}
