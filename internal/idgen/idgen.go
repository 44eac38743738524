// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the two record types.
const (
	ExperimentPrefix = "exp-"
	VersionPrefix    = "ver-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// NewExperimentID returns a new unique experiment ID.
func NewExperimentID() (string, error) {
	return GenerateWithPrefix(ExperimentPrefix)
}

// NewVersionID returns a new unique version ID.
func NewVersionID() (string, error) {
	return GenerateWithPrefix(VersionPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
