package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainQuery = "universql/query/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentID computes a content-addressed ID for any canonically marshalable value.
// Equal inputs always produce equal IDs, independent of map iteration order.
func ContentID(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("ContentID: failed to marshal: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// MustContentID is like ContentID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustContentID(domain string, v any) string {
	id, err := ContentID(domain, v)
	if err != nil {
		panic(err)
	}
	return id
}
