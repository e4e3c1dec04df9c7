package mojang

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aabss/mojang-go/headers"
	"github.com/aabss/mojang-go/routes"
	"github.com/aabss/mojang-go/testutil"
)

func TestAccount_Profile(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.Response{Body: `{
		"id": "069a79f444e94726a5befca90e38aaf5",
		"name": "Notch",
		"skins": [
			{"id": "s1", "state": "INACTIVE", "url": "https://textures.test/a", "variant": "CLASSIC"},
			{"id": "s2", "state": "ACTIVE", "url": "https://textures.test/b", "variant": "SLIM"}
		],
		"capes": []
	}`})
	client := newTestClient(t, "T3", transport)

	profile, err := client.Account.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Notch", profile.Name)
	skin, ok := profile.ActiveSkin()
	require.True(t, ok)
	assert.Equal(t, VariantSlim, skin.Variant)

	req := transport.Requests()[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, testEndpoint+routes.Profile, req.URL)
}

func TestAccount_SetPrivilegeBody(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.JSON(http.StatusOK, Attributes{}))
	client := newTestClient(t, "T3", transport)

	require.NoError(t, client.Account.SetPrivilege(context.Background(), PrivilegeOnlineChat, false))

	req := transport.Requests()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, routes.PlayerAttributes, req.Path)
	assert.JSONEq(t, `{"privileges":{"onlineChat":false}}`, req.Body)
}

func TestAccount_SetProfanityFilterBody(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.JSON(http.StatusOK, Attributes{}))
	client := newTestClient(t, "T3", transport)

	require.NoError(t, client.Account.SetProfanityFilter(context.Background(), true))
	assert.JSONEq(t, `{"profanityFilterPreferences":{"profanityFilterOn":true}}`, transport.Requests()[0].Body)
}

func TestAccount_NameAvailability(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.JSON(http.StatusOK, map[string]string{"status": "DUPLICATE"}))
	client := newTestClient(t, "T3", transport)

	status, err := client.Account.NameAvailability(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Equal(t, NameDuplicate, status)
	assert.Equal(t, routes.ProfileName+"Notch/available", transport.Requests()[0].Path)

	_, err = client.Account.NameAvailability(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 1, transport.Calls())
}

func TestAccount_ChangeSkinAndCape(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransportFunc(func(testutil.Request) testutil.Response {
		return testutil.JSON(http.StatusOK, PlayerProfile{})
	})
	client := newTestClient(t, "T3", transport)
	ctx := context.Background()

	require.NoError(t, client.Account.ChangeSkin(ctx, "https://textures.test/skin.png", VariantClassic))
	require.NoError(t, client.Account.ShowCape(ctx, "cape-1"))
	require.NoError(t, client.Account.HideCape(ctx))
	require.NoError(t, client.Account.ResetSkin(ctx))

	reqs := transport.Requests()
	require.Len(t, reqs, 4)
	assert.JSONEq(t, `{"variant":"CLASSIC","url":"https://textures.test/skin.png"}`, reqs[0].Body)
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.JSONEq(t, `{"capeId":"cape-1"}`, reqs[1].Body)
	assert.Equal(t, http.MethodDelete, reqs[2].Method)
	assert.Equal(t, routes.ProfileActiveCape, reqs[2].Path)
	assert.Equal(t, http.MethodDelete, reqs[3].Method)
	assert.Equal(t, routes.ProfileActiveSkin, reqs[3].Path)
}

func TestAccount_UploadSkinMultipart(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.JSON(http.StatusOK, PlayerProfile{}))
	client := newTestClient(t, "T3", transport)

	err := client.Account.UploadSkin(context.Background(), strings.NewReader("\x89PNG-data"), VariantSlim)
	require.NoError(t, err)

	req := transport.Requests()[0]
	assert.Equal(t, "Bearer T3", req.Header.Get(headers.Authorization))
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data; boundary="))
	assert.Contains(t, req.Body, `name="variant"`)
	assert.Contains(t, req.Body, "SLIM")
	assert.Contains(t, req.Body, `filename="skin.png"`)
	assert.Contains(t, req.Body, "\x89PNG-data")
}

func TestAccount_Certificates(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(testutil.Response{Body: `{
		"keyPair": {"privateKey": "PRIV", "publicKey": "PUB"},
		"publicKeySignatureV2": "SIG2",
		"expiresAt": "2024-01-02T00:00:00Z"
	}`})
	client := newTestClient(t, "T3", transport)

	certs, err := client.Account.Certificates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PUB", certs.KeyPair.PublicKey)
	assert.Equal(t, "SIG2", certs.PublicKeySignatureV2)
	assert.Equal(t, http.MethodPost, transport.Requests()[0].Method)
}

func TestAccount_ProductVoucher(t *testing.T) {
	t.Parallel()

	transport := testutil.NewTransport(
		testutil.Response{Status: http.StatusOK, Body: `{}`},
		testutil.Response{Status: http.StatusNotFound, Body: `{"error":"NOT_FOUND","errorMessage":"unknown code"}`},
	)
	client := newTestClient(t, "T3", transport)

	ok, err := client.Account.ProductVoucher(context.Background(), "ABCD-1234")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Account.ProductVoucher(context.Background(), "WRONG")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccount_AttributesDecode(t *testing.T) {
	t.Parallel()

	body := map[string]any{
		"privileges": map[string]any{
			"onlineChat":        map[string]bool{"enabled": true},
			"multiplayerServer": map[string]bool{"enabled": true},
			"multiplayerRealms": map[string]bool{"enabled": false},
			"telemetry":         map[string]bool{"enabled": true},
		},
		"profanityFilterPreferences": map[string]bool{"profanityFilterOn": true},
		"banStatus": map[string]any{
			"bannedScopes": map[string]any{
				"MULTIPLAYER": map[string]any{"banId": "b1", "expires": nil, "reason": "hate"},
			},
		},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	transport := testutil.NewTransport(testutil.Response{Body: string(raw)})
	client := newTestClient(t, "T3", transport)

	attrs, err := client.Account.Attributes(context.Background())
	require.NoError(t, err)
	assert.False(t, attrs.Privileges.MultiplayerRealms.Enabled)
	assert.True(t, attrs.ProfanityFilterPreferences.ProfanityFilterOn)
	ban, ok := attrs.BanStatus.BannedScopes["MULTIPLAYER"]
	require.True(t, ok)
	assert.Nil(t, ban.Expires)
	assert.Equal(t, "hate", ban.Reason)
}
