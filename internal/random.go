package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
)

const opaqueTokenSize = 24

// Token formats accepted by NewToken.
const (
	TokenFormatOpaque = "opaque"
	TokenFormatUUID   = "uuid"
)

var ErrUnknownTokenFormat = errors.New("unknown token format")

// NewOpaqueToken returns 24 random bytes, base64url without padding (32 chars).
func NewOpaqueToken() (string, error) {
	var raw [opaqueTokenSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// NewUUIDToken returns a random (v4) UUID string.
func NewUUIDToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewToken dispatches on format; the empty format is opaque.
func NewToken(format string) (string, error) {
	switch format {
	case "", TokenFormatOpaque:
		return NewOpaqueToken()
	case TokenFormatUUID:
		return NewUUIDToken()
	default:
		return "", ErrUnknownTokenFormat
	}
}
