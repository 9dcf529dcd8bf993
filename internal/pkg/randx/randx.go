/*
Package randx provides cryptographically secure random identifiers.

It generates the Base62 connection IDs used to correlate WebSocket lifecycle
log lines, and wraps UUID generation for user identities.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the number of characters in the Base62 set (62).
	Base62Len = int64(len(Base62Chars))

	// ConnIDLength is the fixed length of generated connection IDs.
	ConnIDLength = 8
)

// ConnID generates a Base62 connection identifier using crypto/rand.
// The ID appears in socket connect/disconnect log lines only; it is never
// sent to clients.
func ConnID() (string, error) {
	result := make([]byte, ConnIDLength)

	for i := 0; i < ConnIDLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for connection id: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// UserID generates a UUID v4 string serving as a stable anonymous user
// identity. Clients round-trip it in the userId cookie.
func UserID() string {
	return uuid.New().String()
}

// IsValidConnID checks whether the given string is a well-formed connection ID.
func IsValidConnID(id string) bool {
	if len(id) != ConnIDLength {
		return false
	}

	for _, char := range id {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
