// Package checksum fingerprints exported content so importers can skip unchanged pages.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Calculate returns the hex SHA-256 of the JSON encoding of v.
// Map keys are sorted by encoding/json, so equal values hash equally.
func Calculate(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode content: %w", err)
	}

	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:]), nil
}

// Sum is Calculate without the error; it returns "" when v cannot be encoded.
func Sum(v any) string {
	sum, err := Calculate(v)
	if err != nil {
		return ""
	}

	return sum
}
