package id

import (
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns a random (v4) identifier as exactly 32 lowercase hex
// characters, the format every public id in the service uses.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether s is a 32-char lowercase hex id.
func Valid(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
