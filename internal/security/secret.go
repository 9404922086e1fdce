package security

import (
	"crypto/rand"
	"errors"
)

const secretChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// rejection sampling bound: the largest multiple of len(secretChars)
// that fits in a byte, so every character stays equally likely.
const secretSampleLimit = byte(248)

var errSecretLength = errors.New("security: secret length must be positive")

// EphemeralSecret returns a random alphanumeric secret of the requested
// length. It backs the session signing key when SECRET_KEY is unset;
// sessions minted under such a secret do not survive a process restart.
func EphemeralSecret(length int) (string, error) {
	if length <= 0 {
		return "", errSecretLength
	}

	secret := make([]byte, 0, length)
	buffer := make([]byte, length)
	for len(secret) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}
		for _, sample := range buffer {
			if sample >= secretSampleLimit {
				continue
			}
			secret = append(secret, secretChars[int(sample)%len(secretChars)])
			if len(secret) == length {
				break
			}
		}
	}
	return string(secret), nil
}
