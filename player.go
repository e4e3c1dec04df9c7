package mojang

import (
	"strings"

	"github.com/google/uuid"
)

// maxPlayerNameLength is the longest name Minecraft allows; anything longer is an id.
const maxPlayerNameLength = 16

// NormalizePlayerID parses a dashed or undashed player UUID and returns the undashed
// lowercase form the APIs use.
func NormalizePlayerID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", err
	}
	return UndashedID(parsed), nil
}

// UndashedID formats id without hyphens.
func UndashedID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

// DashedID formats an undashed player id with hyphens.
func DashedID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// looksLikePlayerID reports whether s should be treated as an id rather than a name.
func looksLikePlayerID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) <= maxPlayerNameLength {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
