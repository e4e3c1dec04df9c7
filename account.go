package mojang

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/aabss/mojang-go/routes"
)

// AccountClient wraps the bearer-authenticated Minecraft services endpoints.
type AccountClient struct {
	client *Client
}

func (a *AccountClient) ready() error {
	if a == nil || a.client == nil {
		return fmt.Errorf("mojang: account client not initialized")
	}
	return nil
}

func (a *AccountClient) url(path string) string {
	return joinURL(a.client.endpoints.Services, path)
}

// Profile returns the authenticated player's profile.
func (a *AccountClient) Profile(ctx context.Context) (PlayerProfile, error) {
	if err := a.ready(); err != nil {
		return PlayerProfile{}, err
	}
	var out PlayerProfile
	if err := a.client.call(ctx, http.MethodGet, a.url(routes.Profile), nil, true, &out); err != nil {
		return PlayerProfile{}, err
	}
	return out, nil
}

// Attributes returns privileges, chat filter preference and ban status.
func (a *AccountClient) Attributes(ctx context.Context) (Attributes, error) {
	if err := a.ready(); err != nil {
		return Attributes{}, err
	}
	var out Attributes
	if err := a.client.call(ctx, http.MethodGet, a.url(routes.PlayerAttributes), nil, true, &out); err != nil {
		return Attributes{}, err
	}
	return out, nil
}

// SetPrivilege toggles one privilege.
func (a *AccountClient) SetPrivilege(ctx context.Context, privilege Privilege, enabled bool) error {
	if err := a.ready(); err != nil {
		return err
	}
	payload := map[string]any{
		"privileges": map[Privilege]bool{privilege: enabled},
	}
	return a.client.call(ctx, http.MethodPost, a.url(routes.PlayerAttributes), payload, true, nil)
}

// SetProfanityFilter turns the chat profanity filter on or off.
func (a *AccountClient) SetProfanityFilter(ctx context.Context, on bool) error {
	if err := a.ready(); err != nil {
		return err
	}
	payload := map[string]any{
		"profanityFilterPreferences": ProfanityFilterPreferences{ProfanityFilterOn: on},
	}
	return a.client.call(ctx, http.MethodPost, a.url(routes.PlayerAttributes), payload, true, nil)
}

// Blocklist returns the UUIDs of players the account has blocked.
func (a *AccountClient) Blocklist(ctx context.Context) ([]string, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	var out struct {
		BlockedProfiles []string `json:"blockedProfiles"`
	}
	if err := a.client.call(ctx, http.MethodGet, a.url(routes.PrivacyBlocklist), nil, true, &out); err != nil {
		return nil, err
	}
	return out.BlockedProfiles, nil
}

// Certificates fetches the chat signing key pair and certificates.
func (a *AccountClient) Certificates(ctx context.Context) (Certificates, error) {
	if err := a.ready(); err != nil {
		return Certificates{}, err
	}
	var out Certificates
	if err := a.client.call(ctx, http.MethodPost, a.url(routes.PlayerCertificates), nil, true, &out); err != nil {
		return Certificates{}, err
	}
	return out, nil
}

// NameAvailability checks whether name can be claimed.
func (a *AccountClient) NameAvailability(ctx context.Context, name string) (NameStatus, error) {
	if err := a.ready(); err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("mojang: name required")
	}
	var out struct {
		Status NameStatus `json:"status"`
	}
	endpoint := a.url(routes.ProfileName + url.PathEscape(name) + "/available")
	if err := a.client.call(ctx, http.MethodGet, endpoint, nil, true, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// ChangeName renames the profile and returns the updated profile.
func (a *AccountClient) ChangeName(ctx context.Context, name string) (PlayerProfile, error) {
	if err := a.ready(); err != nil {
		return PlayerProfile{}, err
	}
	if strings.TrimSpace(name) == "" {
		return PlayerProfile{}, fmt.Errorf("mojang: name required")
	}
	var out PlayerProfile
	if err := a.client.call(ctx, http.MethodPut, a.url(routes.ProfileName+url.PathEscape(name)), nil, true, &out); err != nil {
		return PlayerProfile{}, err
	}
	return out, nil
}

// ChangeSkin points the active skin at a publicly reachable PNG.
func (a *AccountClient) ChangeSkin(ctx context.Context, skinURL string, variant Variant) error {
	if err := a.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(skinURL) == "" {
		return fmt.Errorf("mojang: skin url required")
	}
	payload := map[string]string{"variant": string(variant), "url": skinURL}
	return a.client.call(ctx, http.MethodPost, a.url(routes.ProfileSkins), payload, true, nil)
}

// UploadSkin uploads a PNG as the active skin.
func (a *AccountClient) UploadSkin(ctx context.Context, png io.Reader, variant Variant) error {
	if err := a.ready(); err != nil {
		return err
	}
	if png == nil {
		return fmt.Errorf("mojang: skin image required")
	}
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.SetBoundary(uuid.NewString()); err != nil {
		return err
	}
	if err := w.WriteField("variant", string(variant)); err != nil {
		return err
	}
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="skin.png"`},
		"Content-Type":        {"image/png"},
	})
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, png); err != nil {
		return fmt.Errorf("mojang: read skin image: %w", err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url(routes.ProfileSkins), &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	injectTraceparent(ctx, req)
	resp, err := a.client.send(req, true)
	if err != nil {
		return err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	return nil
}

// ResetSkin restores the default skin.
func (a *AccountClient) ResetSkin(ctx context.Context) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.client.call(ctx, http.MethodDelete, a.url(routes.ProfileActiveSkin), nil, true, nil)
}

// HideCape hides the active cape.
func (a *AccountClient) HideCape(ctx context.Context) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.client.call(ctx, http.MethodDelete, a.url(routes.ProfileActiveCape), nil, true, nil)
}

// ShowCape activates an owned cape.
func (a *AccountClient) ShowCape(ctx context.Context, capeID string) error {
	if err := a.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(capeID) == "" {
		return fmt.Errorf("mojang: cape id required")
	}
	payload := map[string]string{"capeId": capeID}
	return a.client.call(ctx, http.MethodPut, a.url(routes.ProfileActiveCape), payload, true, nil)
}

// ProductVoucher reports whether a gift code is valid for redemption.
func (a *AccountClient) ProductVoucher(ctx context.Context, code string) (bool, error) {
	if err := a.ready(); err != nil {
		return false, err
	}
	if strings.TrimSpace(code) == "" {
		return false, fmt.Errorf("mojang: voucher code required")
	}
	err := a.client.call(ctx, http.MethodGet, a.url(routes.ProductVoucher+url.PathEscape(code)), nil, true, nil)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}
