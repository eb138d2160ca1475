package usecase

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alias alphabet: alphanumeric (a-z, A-Z, 0-9) - 62 characters, case-sensitive
	aliasAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	aliasLength   = 8
)

// AliasGenerator produces short, URL-safe aliases.
type AliasGenerator struct{}

// NewAliasGenerator creates a new AliasGenerator.
func NewAliasGenerator() *AliasGenerator {
	return &AliasGenerator{}
}

// Generate returns the requested alias verbatim when one is given, otherwise
// a random 8-character token. Uniqueness is the caller's concern: collision
// probability is non-zero and is resolved against the persistent store.
func (g *AliasGenerator) Generate(custom string) (string, error) {
	if custom != "" {
		return custom, nil
	}
	return gonanoid.Generate(aliasAlphabet, aliasLength)
}
