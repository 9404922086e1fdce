package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	sealVersion       = "v1"
	sealPurposePrefix = "stride.seal."
)

var ErrInvalidSealedValue = errors.New("invalid sealed value")

// Sealer encrypts small secrets (backend API tokens) before they are written
// to the local store. Values are bound to a purpose string so a token sealed
// for one slot cannot be replayed into another.
type Sealer struct {
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
		NonceSize() int
	}
}

func NewSealer(secretKey []byte) (*Sealer, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("sealer secret key is required")
	}

	derived := make([]byte, chacha20poly1305.KeySize)
	reader := hkdf.New(sha256.New, secretKey, nil, []byte("stride.seal.v1"))
	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, fmt.Errorf("derive seal key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return nil, fmt.Errorf("init seal aead: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

func (sealer *Sealer) Seal(purpose string, plaintext []byte) (string, error) {
	trimmedPurpose := strings.TrimSpace(purpose)
	if trimmedPurpose == "" {
		return "", errors.New("seal purpose is required")
	}
	if sealer == nil || sealer.aead == nil {
		return "", errors.New("sealer is not initialized")
	}

	nonce := make([]byte, sealer.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate seal nonce: %w", err)
	}

	aad := []byte(sealPurposePrefix + trimmedPurpose)
	ciphertext := sealer.aead.Seal(nil, nonce, plaintext, aad)
	payload := make([]byte, 0, len(nonce)+len(ciphertext))
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)

	return sealVersion + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

func (sealer *Sealer) Open(purpose string, rawValue string) ([]byte, error) {
	trimmedPurpose := strings.TrimSpace(purpose)
	if trimmedPurpose == "" {
		return nil, errors.New("seal purpose is required")
	}
	if sealer == nil || sealer.aead == nil {
		return nil, errors.New("sealer is not initialized")
	}

	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		return nil, ErrInvalidSealedValue
	}

	version, encodedPayload, found := strings.Cut(rawValue, ".")
	if !found || version != sealVersion || strings.TrimSpace(encodedPayload) == "" {
		return nil, ErrInvalidSealedValue
	}

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, ErrInvalidSealedValue
	}

	nonceSize := sealer.aead.NonceSize()
	if len(payload) <= nonceSize {
		return nil, ErrInvalidSealedValue
	}

	nonce := payload[:nonceSize]
	ciphertext := payload[nonceSize:]
	aad := []byte(sealPurposePrefix + trimmedPurpose)
	plaintext, err := sealer.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrInvalidSealedValue
	}
	return plaintext, nil
}
