package idgen

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"

// Prefixes used for public identifiers.
const (
	PrefixAgent       = "agt"
	PrefixRole        = "role"
	PrefixRoom        = "room"
	PrefixSession     = "sess"
	PrefixChatSession = "chat"
	PrefixUser        = "usr"
)

// GenerateSecureID generates a random alphanumeric ID with the given prefix and length.
func GenerateSecureID(prefix string, length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := make([]byte, length)
	for i := range bytes {
		encoded[i] = charset[int(bytes[i])%len(charset)]
	}

	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// NewSessionID returns a time-ordered session identifier, so sessions of a room sort by start time.
func NewSessionID(now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy())
	return PrefixSession + "_" + strings.ToLower(id.String())
}

// HasPrefix reports whether id was generated with prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}
