package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainNormalized = "stylusport/normalized/v1"
	DomainProgram    = "stylusport/program/v1"
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

// Digest computes the content digest of a normalized program.
// Two runs over the same input produce the same digest.
func Digest(np *NormalizedProgram) (string, error) {
	canonical, err := MarshalCanonical(np)
	if err != nil {
		return "", fmt.Errorf("Digest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainNormalized, canonical), nil
}

// ProgramDigest computes the content digest of a base program.
func ProgramDigest(p *Program) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("ProgramDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}
