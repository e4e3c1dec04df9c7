package auth

import (
	"fmt"
	"strings"
	"unicode"
)

// SessionCredential is the Minecraft access token produced by a complete exchange,
// optionally paired with the player's UUID. It is a value; nothing mutates it after
// construction. Its expiry is decided by the server and only becomes visible when a
// later call is rejected.
type SessionCredential struct {
	AccessToken string
	UUID        string
}

// NewSessionCredential wraps an access token obtained elsewhere.
func NewSessionCredential(accessToken string) (SessionCredential, error) {
	token := strings.TrimSpace(accessToken)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return SessionCredential{}, fmt.Errorf("mojang/auth: access token required")
	}
	return SessionCredential{AccessToken: token}, nil
}

// WithUUID returns a copy of the credential bound to the given player UUID.
func (c SessionCredential) WithUUID(uuid string) SessionCredential {
	c.UUID = strings.TrimSpace(uuid)
	return c
}

// IsZero reports whether the credential holds no token.
func (c SessionCredential) IsZero() bool {
	return c.AccessToken == ""
}

// SessionID returns the realms session identifier for this credential.
func (c SessionCredential) SessionID() SessionID {
	return SessionID{AccessToken: c.AccessToken, UUID: c.UUID}
}

// Claims decodes the credential's JWT payload without verifying it.
func (c SessionCredential) Claims() (*Claims, error) {
	return ParseClaims(c.AccessToken)
}

// String redacts the token so credentials can be logged safely.
func (c SessionCredential) String() string {
	token := redactedPlaceholder
	if c.AccessToken == "" {
		token = emptyPlaceholder
	}
	return fmt.Sprintf("SessionCredential{AccessToken: %s, UUID: %s}", token, c.UUID)
}

// SessionID is the "token:<access token>:<uuid>" form the realms service expects in
// its sid cookie.
type SessionID struct {
	AccessToken string
	UUID        string
}

func (s SessionID) String() string {
	return "token:" + s.AccessToken + ":" + s.UUID
}

// CookieSession is the realms Cookie header value. SID is usually a SessionID but any
// pre-formatted sid is accepted.
type CookieSession struct {
	SID     string
	User    string
	Version string
}

// NewCookieSession formats the realms cookie for a credential, player name and
// client version.
func NewCookieSession(cred SessionCredential, user, version string) (CookieSession, error) {
	if cred.IsZero() {
		return CookieSession{}, fmt.Errorf("mojang/auth: session credential required")
	}
	if strings.TrimSpace(cred.UUID) == "" {
		return CookieSession{}, fmt.Errorf("mojang/auth: realms cookie requires the player uuid")
	}
	if strings.TrimSpace(user) == "" {
		return CookieSession{}, fmt.Errorf("mojang/auth: realms cookie requires the player name")
	}
	if strings.TrimSpace(version) == "" {
		return CookieSession{}, fmt.Errorf("mojang/auth: realms cookie requires the client version")
	}
	for field, v := range map[string]string{"uuid": cred.UUID, "player name": user, "client version": version} {
		if !cookieSafe(v) {
			return CookieSession{}, fmt.Errorf("mojang/auth: realms cookie %s %q contains a separator or whitespace", field, v)
		}
	}
	return CookieSession{
		SID:     cred.SessionID().String(),
		User:    user,
		Version: version,
	}, nil
}

// cookieSafe rejects values that would split or extend the cookie.
func cookieSafe(v string) bool {
	return !strings.ContainsFunc(v, func(r rune) bool {
		return r == ';' || r == '=' || r == ',' || unicode.IsSpace(r) || unicode.IsControl(r)
	})
}

func (c CookieSession) String() string {
	return "sid=" + c.SID + ";user=" + c.User + ";version=" + c.Version
}
