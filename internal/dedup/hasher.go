package dedup

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hasher derives the dedup key for a raw message from a configured set of
// envelope fields.
type Hasher struct {
	algorithm string
}

func NewHasher(algorithm string) *Hasher {
	return &Hasher{algorithm: algorithm}
}

// ComputeHash builds a deterministic digest over the selected fields.
// Missing fields contribute an empty segment so field order alone defines
// the key.
func (h *Hasher) ComputeHash(msg map[string]string, fields []string) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("no fields specified for hashing")
	}

	var builder strings.Builder
	for _, field := range fields {
		builder.WriteString(msg[field])
		builder.WriteString("|")
	}

	input := builder.String()

	switch h.algorithm {
	case "sha256":
		sum := sha256.Sum256([]byte(input))
		return hex.EncodeToString(sum[:]), nil
	case "md5":
		sum := md5.Sum([]byte(input))
		return hex.EncodeToString(sum[:]), nil
	default:
		// Fallback to md5
		sum := md5.Sum([]byte(input))
		return hex.EncodeToString(sum[:]), nil
	}
}
