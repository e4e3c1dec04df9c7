package mojang

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Variant is the arm model a skin is drawn with.
type Variant string

const (
	VariantClassic Variant = "CLASSIC"
	VariantSlim    Variant = "SLIM"
)

// Skin is one skin on the authenticated profile.
type Skin struct {
	ID         string  `json:"id"`
	State      string  `json:"state"`
	URL        string  `json:"url"`
	TextureKey string  `json:"textureKey,omitempty"`
	Variant    Variant `json:"variant"`
	Alias      string  `json:"alias,omitempty"`
}

// Cape is one cape owned by the authenticated profile.
type Cape struct {
	ID    string `json:"id"`
	State string `json:"state"`
	URL   string `json:"url"`
	Alias string `json:"alias"`
}

// PlayerProfile is the authenticated player's own profile.
type PlayerProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Skins []Skin `json:"skins"`
	Capes []Cape `json:"capes"`
}

// ActiveSkin returns the skin currently worn.
func (p PlayerProfile) ActiveSkin() (Skin, bool) {
	for _, s := range p.Skins {
		if s.State == "ACTIVE" {
			return s, true
		}
	}
	return Skin{}, false
}

// Toggle is the {"enabled": bool} shape used for privileges.
type Toggle struct {
	Enabled bool `json:"enabled"`
}

// Privileges are the account's multiplayer and telemetry permissions.
type Privileges struct {
	OnlineChat        Toggle `json:"onlineChat"`
	MultiplayerServer Toggle `json:"multiplayerServer"`
	MultiplayerRealms Toggle `json:"multiplayerRealms"`
	Telemetry         Toggle `json:"telemetry"`
}

// Privilege names a settable privilege.
type Privilege string

const (
	PrivilegeOnlineChat        Privilege = "onlineChat"
	PrivilegeMultiplayerServer Privilege = "multiplayerServer"
	PrivilegeMultiplayerRealms Privilege = "multiplayerRealms"
	PrivilegeTelemetry         Privilege = "telemetry"
)

// ProfanityFilterPreferences holds the chat filter setting.
type ProfanityFilterPreferences struct {
	ProfanityFilterOn bool `json:"profanityFilterOn"`
}

// Ban describes an active ban in one scope.
type Ban struct {
	BanID         string `json:"banId"`
	Expires       *int64 `json:"expires"`
	Reason        string `json:"reason"`
	ReasonMessage string `json:"reasonMessage"`
}

// BanStatus lists bans keyed by scope (for example "MULTIPLAYER").
type BanStatus struct {
	BannedScopes map[string]Ban `json:"bannedScopes"`
}

// Attributes are the account's player attributes.
type Attributes struct {
	Privileges                 Privileges                 `json:"privileges"`
	ProfanityFilterPreferences ProfanityFilterPreferences `json:"profanityFilterPreferences"`
	BanStatus                  BanStatus                  `json:"banStatus"`
}

// KeyPair is the PEM-encoded chat signing key pair.
type KeyPair struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
}

// Certificates are the player's chat signing certificates.
type Certificates struct {
	KeyPair              KeyPair `json:"keyPair"`
	PublicKeySignature   string  `json:"publicKeySignature"`
	PublicKeySignatureV2 string  `json:"publicKeySignatureV2"`
	ExpiresAt            string  `json:"expiresAt"`
	RefreshedAfter       string  `json:"refreshedAfter"`
}

// NameStatus is the result of a name availability check.
type NameStatus string

const (
	NameAvailable  NameStatus = "AVAILABLE"
	NameDuplicate  NameStatus = "DUPLICATE"
	NameNotAllowed NameStatus = "NOT_ALLOWED"
)

// ProfileProperty is a signed property of a public profile.
type ProfileProperty struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

// PublicProfile is the session server view of any player.
type PublicProfile struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Properties     []ProfileProperty `json:"properties"`
	ProfileActions []string          `json:"profileActions"`
	Legacy         bool              `json:"legacy,omitempty"`
}

// Texture is one entry of a textures payload.
type Texture struct {
	URL      string `json:"url"`
	Metadata *struct {
		Model string `json:"model"`
	} `json:"metadata,omitempty"`
}

// TexturesPayload is the decoded value of the "textures" profile property.
type TexturesPayload struct {
	Timestamp         int64              `json:"timestamp"`
	ProfileID         string             `json:"profileId"`
	ProfileName       string             `json:"profileName"`
	SignatureRequired bool               `json:"signatureRequired,omitempty"`
	Textures          map[string]Texture `json:"textures"`
}

// Textures decodes the base64 "textures" property.
func (p PublicProfile) Textures() (TexturesPayload, error) {
	for _, prop := range p.Properties {
		if prop.Name != "textures" {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(prop.Value)
		if err != nil {
			return TexturesPayload{}, fmt.Errorf("mojang: decode textures: %w", err)
		}
		var payload TexturesPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return TexturesPayload{}, fmt.Errorf("mojang: decode textures: %w", err)
		}
		return payload, nil
	}
	return TexturesPayload{}, fmt.Errorf("mojang: profile %s has no textures property", p.ID)
}

// PublicKeys are the services' signing keys (base64 DER).
type PublicKeys struct {
	ProfilePropertyKeys   []string
	PlayerCertificateKeys []string
}
