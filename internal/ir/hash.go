package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainFormula = "formulex/formula/v1"
	DomainCatalog = "formulex/catalog/v1"
)

// Digest computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func Digest(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FormulaID computes the content-addressed ID of a tree.
// The ID is stable across processes given the same tree; node IDs do not
// participate.
func FormulaID(n Node) (string, error) {
	canonical, err := MarshalCanonical(n)
	if err != nil {
		return "", fmt.Errorf("FormulaID: failed to marshal: %w", err)
	}
	return Digest(DomainFormula, canonical), nil
}
