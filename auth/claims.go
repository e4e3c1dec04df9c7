package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the payload of a Minecraft services access token.
//
// The SDK never verifies these tokens; the services do. Claims exist for diagnostics,
// for example to report when a rejected credential had expired.
type Claims struct {
	XUID     string       `json:"xuid,omitempty"`
	Platform string       `json:"platform,omitempty"`
	Profiles []ProfileRef `json:"pfd,omitempty"`
	Roles    []string     `json:"roles,omitempty"`

	jwt.RegisteredClaims
}

// ProfileRef is one game profile the token is entitled to.
type ProfileRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ParseClaims decodes the JWT payload of token without checking its signature.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("mojang/auth: decode access token: %w", err)
	}
	return claims, nil
}

// Expiry returns the exp claim, or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c == nil || c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// Profile returns the first Minecraft profile named by the token.
func (c *Claims) Profile() (ProfileRef, bool) {
	if c == nil {
		return ProfileRef{}, false
	}
	for _, p := range c.Profiles {
		if p.Type == "mc" {
			return p, true
		}
	}
	if len(c.Profiles) > 0 {
		return c.Profiles[0], true
	}
	return ProfileRef{}, false
}
