package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	xboxAuthMethod   = "RPS"
	xboxSiteName     = "user.auth.xboxlive.com"
	xboxRelyingParty = "http://auth.xboxlive.com"
	xstsSandboxID    = "RETAIL"
	tokenTypeJWT     = "JWT"

	// MinecraftRelyingParty scopes the XSTS token to the Minecraft services API.
	MinecraftRelyingParty = "rp://api.minecraftservices.com/"

	// IdentityScheme prefixes the composite identity submitted to the login hop.
	IdentityScheme = "XBL3.0"
)

var errInvalidJSON = errors.New("body is not valid JSON")

type xboxLiveProperties struct {
	AuthMethod string `json:"AuthMethod"`
	SiteName   string `json:"SiteName"`
	RpsTicket  string `json:"RpsTicket"`
}

type xboxLiveRequest struct {
	Properties   xboxLiveProperties `json:"Properties"`
	RelyingParty string             `json:"RelyingParty"`
	TokenType    string             `json:"TokenType"`
}

type xstsProperties struct {
	SandboxID  string   `json:"SandboxId"`
	UserTokens []string `json:"UserTokens"`
}

type xstsRequest struct {
	Properties   xstsProperties `json:"Properties"`
	RelyingParty string         `json:"RelyingParty"`
	TokenType    string         `json:"TokenType"`
}

type loginRequest struct {
	IdentityToken string `json:"identityToken"`
}

// xblToken is the hop 1 result. It never leaves the exchange.
type xblToken struct {
	Token    string
	UserHash string
}

func buildXboxLiveRequest(delegated string) xboxLiveRequest {
	return xboxLiveRequest{
		Properties: xboxLiveProperties{
			AuthMethod: xboxAuthMethod,
			SiteName:   xboxSiteName,
			RpsTicket:  "d=" + delegated,
		},
		RelyingParty: xboxRelyingParty,
		TokenType:    tokenTypeJWT,
	}
}

func buildXSTSRequest(userToken, relyingParty string) xstsRequest {
	return xstsRequest{
		Properties: xstsProperties{
			SandboxID:  xstsSandboxID,
			UserTokens: []string{userToken},
		},
		RelyingParty: relyingParty,
		TokenType:    tokenTypeJWT,
	}
}

func buildLoginRequest(userHash, xstsToken string) loginRequest {
	return loginRequest{IdentityToken: identityToken(userHash, xstsToken)}
}

// identityToken formats "XBL3.0 x=<user hash>;<xsts token>".
func identityToken(userHash, xstsToken string) string {
	return IdentityScheme + " x=" + userHash + ";" + xstsToken
}

// encodeJSON marshals v without HTML escaping so token bytes reach the wire verbatim.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func parseXboxLiveResponse(body []byte) (xblToken, error) {
	if !gjson.ValidBytes(body) {
		return xblToken{}, &MalformedResponseError{Field: "body", Cause: errInvalidJSON}
	}
	token, ok := stringField(body, "Token", "token")
	if !ok {
		return xblToken{}, &MalformedResponseError{Field: "Token"}
	}
	xui := gjson.GetBytes(body, "DisplayClaims.xui")
	if !xui.IsArray() || len(xui.Array()) == 0 {
		return xblToken{}, &MalformedResponseError{Field: "DisplayClaims.xui"}
	}
	uhs := xui.Get("0.uhs")
	if uhs.Type != gjson.String || uhs.Str == "" {
		return xblToken{}, &MalformedResponseError{Field: "DisplayClaims.xui[0].uhs"}
	}
	return xblToken{Token: token, UserHash: uhs.Str}, nil
}

func parseXSTSResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", &MalformedResponseError{Field: "body", Cause: errInvalidJSON}
	}
	token, ok := stringField(body, "Token", "token")
	if !ok {
		return "", &MalformedResponseError{Field: "Token"}
	}
	return token, nil
}

func parseLoginResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", &MalformedResponseError{Field: "body", Cause: errInvalidJSON}
	}
	token, ok := stringField(body, "access_token")
	if !ok {
		return "", &MalformedResponseError{Field: "access_token"}
	}
	return token, nil
}

// parseRejection builds the error for a non-success hop response.
func parseRejection(status int, body []byte) *RemoteRejectionError {
	rej := &RemoteRejectionError{Status: status, Body: string(body)}
	if !gjson.ValidBytes(body) {
		return rej
	}
	if xerr := gjson.GetBytes(body, "XErr"); xerr.Exists() {
		rej.XErr = xerr.Int()
	}
	if msg, ok := stringField(body, "Message", "errorMessage", "error_description", "error"); ok {
		rej.Message = msg
	}
	return rej
}

// stringField returns the first non-empty string at any of the given paths.
func stringField(body []byte, paths ...string) (string, bool) {
	for _, p := range paths {
		v := gjson.GetBytes(body, p)
		if v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str, true
		}
	}
	return "", false
}
