package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieSessionFormat(t *testing.T) {
	t.Parallel()

	cookie := CookieSession{SID: "S", User: "Alice", Version: "1.20"}
	assert.Equal(t, "sid=S;user=Alice;version=1.20", cookie.String())
	assert.Equal(t, cookie.String(), cookie.String())
}

func TestNewCookieSession(t *testing.T) {
	t.Parallel()

	cred := SessionCredential{AccessToken: "tok"}.WithUUID("069a79f444e94726a5befca90e38aaf5")
	cookie, err := NewCookieSession(cred, "Notch", "1.20.4")
	require.NoError(t, err)
	assert.Equal(t,
		"sid=token:tok:069a79f444e94726a5befca90e38aaf5;user=Notch;version=1.20.4",
		cookie.String(),
	)

	_, err = NewCookieSession(SessionCredential{AccessToken: "tok"}, "Notch", "1.20.4")
	require.Error(t, err, "uuid is required for the sid")
	_, err = NewCookieSession(cred, "", "1.20.4")
	require.Error(t, err)
	_, err = NewCookieSession(cred, "Notch", " ")
	require.Error(t, err)
	_, err = NewCookieSession(SessionCredential{}, "Notch", "1.20.4")
	require.Error(t, err)
}

func TestNewCookieSession_RejectsSeparators(t *testing.T) {
	t.Parallel()

	cred := SessionCredential{AccessToken: "tok"}.WithUUID("069a79f444e94726a5befca90e38aaf5")
	tests := []struct {
		name    string
		cred    SessionCredential
		user    string
		version string
	}{
		{name: "semicolon in name", cred: cred, user: "x;sid=token:other:abc", version: "1.20.4"},
		{name: "equals in name", cred: cred, user: "x=y", version: "1.20.4"},
		{name: "space in name", cred: cred, user: "No tch", version: "1.20.4"},
		{name: "semicolon in version", cred: cred, user: "Notch", version: "1.20;user=admin"},
		{name: "newline in version", cred: cred, user: "Notch", version: "1.20\r\nX: y"},
		{name: "separator in uuid", cred: SessionCredential{AccessToken: "tok", UUID: "abc;user=x"}, user: "Notch", version: "1.20.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCookieSession(tt.cred, tt.user, tt.version)
			require.Error(t, err)
		})
	}

	_, err := NewCookieSession(cred, "Some_Player9", "1.21-pre1")
	require.NoError(t, err)
}

func TestSessionIDFormat(t *testing.T) {
	t.Parallel()

	sid := SessionID{AccessToken: "abc", UUID: "def"}
	assert.Equal(t, "token:abc:def", sid.String())
}

func TestNewSessionCredential(t *testing.T) {
	t.Parallel()

	cred, err := NewSessionCredential("  Bearer  abc.def.ghi ")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", cred.AccessToken)
	assert.Empty(t, cred.UUID)

	_, err = NewSessionCredential("bearer ")
	require.Error(t, err)
}

func TestSessionCredentialWithUUIDCopies(t *testing.T) {
	t.Parallel()

	base := SessionCredential{AccessToken: "tok"}
	bound := base.WithUUID(" id ")
	assert.Empty(t, base.UUID)
	assert.Equal(t, "id", bound.UUID)
}

func TestSessionCredentialStringRedacts(t *testing.T) {
	t.Parallel()

	cred := SessionCredential{AccessToken: "super-secret", UUID: "u"}
	assert.NotContains(t, cred.String(), "super-secret")
	assert.Contains(t, cred.String(), redactedPlaceholder)
	assert.Contains(t, SessionCredential{}.String(), emptyPlaceholder)
}

func TestParseClaims(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		XUID:     "2535400000000000",
		Platform: "PC_LAUNCHER",
		Profiles: []ProfileRef{{Type: "mc", ID: "069a79f444e94726a5befca90e38aaf5", Name: "Notch"}},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sub-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString([]byte("not-the-real-key"))
	require.NoError(t, err)

	claims, err := SessionCredential{AccessToken: signed}.Claims()
	require.NoError(t, err)
	assert.Equal(t, "2535400000000000", claims.XUID)
	assert.True(t, exp.Equal(claims.Expiry()))
	profile, ok := claims.Profile()
	require.True(t, ok)
	assert.Equal(t, "Notch", profile.Name)

	_, err = ParseClaims("opaque-token")
	require.Error(t, err)

	var nilClaims *Claims
	assert.True(t, nilClaims.Expiry().IsZero())
	_, ok = nilClaims.Profile()
	assert.False(t, ok)
}
