package mojang

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/aabss/mojang-go/auth"
	"github.com/aabss/mojang-go/routes"
)

const (
	minWorldSlot = 1
	maxWorldSlot = 4
)

// RealmsClient talks to one realms environment with the realms session cookie. It
// never sends a bearer header.
type RealmsClient struct {
	client  *Client
	baseURL string
}

// NewRealmsClient builds a realms client for a credential bound to a player UUID.
// user is the player name and version the game version reported to realms.
func NewRealmsClient(cred auth.SessionCredential, user, version string, opts ...Option) (*RealmsClient, error) {
	cookie, err := auth.NewCookieSession(cred, user, version)
	if err != nil {
		return nil, ConfigError{Reason: err.Error()}
	}
	return NewRealmsClientFromCookie(cookie, opts...)
}

// NewRealmsClientFromCookie builds a realms client from a pre-formatted cookie.
func NewRealmsClientFromCookie(cookie auth.CookieSession, opts ...Option) (*RealmsClient, error) {
	if strings.TrimSpace(cookie.SID) == "" || strings.TrimSpace(cookie.User) == "" || strings.TrimSpace(cookie.Version) == "" {
		return nil, ConfigError{Reason: "realms cookie requires sid, user and version"}
	}
	o := buildOptions(opts)
	base, err := normalizeBaseURL(o.environment.String())
	if err != nil {
		return nil, err
	}
	client, err := newClient(newCookieAuth(cookie), o)
	if err != nil {
		return nil, err
	}
	client.logger = client.logger.Named("realms")
	return &RealmsClient{client: client, baseURL: base}, nil
}

// ResolveRealmsClient builds a realms client from an access token and either the
// player's name or UUID. A name is resolved to its UUID through the public lookup and
// the canonical name is read from the account profile, so this makes up to two
// account calls before returning.
func ResolveRealmsClient(ctx context.Context, accessToken, nameOrUUID, version string, opts ...Option) (*RealmsClient, error) {
	account, err := NewClient(accessToken, opts...)
	if err != nil {
		return nil, err
	}
	var id string
	if looksLikePlayerID(nameOrUUID) {
		id, err = NormalizePlayerID(nameOrUUID)
		if err != nil {
			return nil, err
		}
	} else {
		found, err := account.Profiles.UUIDByName(ctx, nameOrUUID)
		if err != nil {
			return nil, fmt.Errorf("mojang: resolve realms player: %w", err)
		}
		id = found.ID
	}
	profile, err := account.Account.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("mojang: resolve realms player: %w", err)
	}
	if profile.ID != "" && !strings.EqualFold(profile.ID, id) {
		account.logger.Warn("realms player does not own the access token",
			zap.String("requested", id),
			zap.String("profile", profile.ID),
		)
	}
	cred, err := auth.NewSessionCredential(accessToken)
	if err != nil {
		return nil, ConfigError{Reason: "access token required"}
	}
	return NewRealmsClient(cred.WithUUID(id), profile.Name, version, opts...)
}

// Environment returns the realms base URL the client targets.
func (r *RealmsClient) Environment() string {
	if r == nil {
		return ""
	}
	return r.baseURL
}

func (r *RealmsClient) ready() error {
	if r == nil || r.client == nil {
		return errors.New("mojang: realms client not initialized")
	}
	return nil
}

func (r *RealmsClient) url(format string, args ...any) string {
	return joinURL(r.baseURL, fmt.Sprintf(format, args...))
}

func (r *RealmsClient) call(ctx context.Context, method, endpoint string, payload, out any) error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.client.call(ctx, method, endpoint, payload, true, out)
}

func (r *RealmsClient) text(ctx context.Context, method, endpoint string) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}
	body, _, err := r.client.callText(ctx, method, endpoint, true)
	return body, err
}

func validSlot(slot int) error {
	if slot < minWorldSlot || slot > maxWorldSlot {
		return fmt.Errorf("mojang: world slot %d out of range [%d, %d]", slot, minWorldSlot, maxWorldSlot)
	}
	return nil
}

// Available reports whether the player may use realms.
func (r *RealmsClient) Available(ctx context.Context) (bool, error) {
	body, err := r.text(ctx, http.MethodGet, r.url(routes.RealmsAvailable))
	if err != nil {
		return false, err
	}
	return body == "true", nil
}

// ClientCompatibility reports whether the cookie's game version can use realms.
func (r *RealmsClient) ClientCompatibility(ctx context.Context) (Compatibility, error) {
	body, err := r.text(ctx, http.MethodGet, r.url(routes.RealmsCompatible))
	if err != nil {
		return "", err
	}
	return Compatibility(strings.ToUpper(body)), nil
}

// Trial reports whether the player can start a free realms trial.
func (r *RealmsClient) Trial(ctx context.Context) (bool, error) {
	body, err := r.text(ctx, http.MethodGet, r.url(routes.RealmsTrial))
	if err != nil {
		return false, err
	}
	return body == "true", nil
}

// Worlds lists the realms the player owns or was invited to.
func (r *RealmsClient) Worlds(ctx context.Context) ([]Realm, error) {
	var out struct {
		Servers []Realm `json:"servers"`
	}
	if err := r.call(ctx, http.MethodGet, r.url(routes.RealmsWorlds), nil, &out); err != nil {
		return nil, err
	}
	return out.Servers, nil
}

// World fetches one realm by id.
func (r *RealmsClient) World(ctx context.Context, id int64) (Realm, error) {
	var out Realm
	if err := r.call(ctx, http.MethodGet, r.url(routes.RealmsWorld, id), nil, &out); err != nil {
		return Realm{}, err
	}
	return out, nil
}

// JoinAddress returns the address to connect to a realm.
func (r *RealmsClient) JoinAddress(ctx context.Context, id int64) (Server, error) {
	var out Server
	if err := r.call(ctx, http.MethodGet, r.url(routes.RealmsJoin, id), nil, &out); err != nil {
		return Server{}, err
	}
	return out, nil
}

// Backups lists a realm's stored backups.
func (r *RealmsClient) Backups(ctx context.Context, id int64) ([]Backup, error) {
	var out struct {
		Backups []Backup `json:"backups"`
	}
	if err := r.call(ctx, http.MethodGet, r.url(routes.RealmsBackups, id), nil, &out); err != nil {
		return nil, err
	}
	return out.Backups, nil
}

// RestoreBackup replaces the realm's world with a stored backup.
func (r *RealmsClient) RestoreBackup(ctx context.Context, id int64, backupID string) error {
	if strings.TrimSpace(backupID) == "" {
		return errors.New("mojang: backup id required")
	}
	endpoint := r.url(routes.RealmsBackups, id) + "?backupId=" + url.QueryEscape(backupID)
	return r.call(ctx, http.MethodPut, endpoint, nil, nil)
}

// BackupDownload returns a download link for the latest backup of a world slot (1-4).
func (r *RealmsClient) BackupDownload(ctx context.Context, id int64, slot int) (BackupDownload, error) {
	if err := validSlot(slot); err != nil {
		return BackupDownload{}, err
	}
	var out BackupDownload
	if err := r.call(ctx, http.MethodGet, r.url(routes.RealmsSlotDownload, id, slot), nil, &out); err != nil {
		return BackupDownload{}, err
	}
	return out, nil
}

// Ops lists the operator UUIDs of a realm.
func (r *RealmsClient) Ops(ctx context.Context, id int64) ([]string, error) {
	return r.ops(ctx, http.MethodGet, r.url(routes.RealmsOps, id))
}

// Op grants operator status and returns the updated operator list.
func (r *RealmsClient) Op(ctx context.Context, id int64, playerID string) ([]string, error) {
	normalized, err := NormalizePlayerID(playerID)
	if err != nil {
		return nil, err
	}
	return r.ops(ctx, http.MethodPost, r.url(routes.RealmsOp, id, normalized))
}

// Deop revokes operator status and returns the updated operator list.
func (r *RealmsClient) Deop(ctx context.Context, id int64, playerID string) ([]string, error) {
	normalized, err := NormalizePlayerID(playerID)
	if err != nil {
		return nil, err
	}
	return r.ops(ctx, http.MethodDelete, r.url(routes.RealmsOp, id, normalized))
}

func (r *RealmsClient) ops(ctx context.Context, method, endpoint string) ([]string, error) {
	var out struct {
		Ops []string `json:"ops"`
	}
	if err := r.call(ctx, method, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Ops, nil
}

// Subscription returns a realm's billing period.
func (r *RealmsClient) Subscription(ctx context.Context, id int64) (Subscription, error) {
	var out Subscription
	if err := r.call(ctx, http.MethodGet, r.url(routes.RealmsSubscription, id), nil, &out); err != nil {
		return Subscription{}, err
	}
	return out, nil
}

// PendingInviteCount returns how many invitations await the player.
func (r *RealmsClient) PendingInviteCount(ctx context.Context) (int, error) {
	body, err := r.text(ctx, http.MethodGet, r.url(routes.RealmsInvitesPendingCount))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(body)
	if err != nil {
		return 0, fmt.Errorf("mojang: decode %s: %w", routes.RealmsInvitesPendingCount, err)
	}
	return n, nil
}

// PendingInvites lists invitations awaiting the player.
func (r *RealmsClient) PendingInvites(ctx context.Context) ([]Invite, error) {
	var out struct {
		Invites []Invite `json:"invites"`
	}
	if err := r.call(ctx, http.MethodGet, r.url(routes.RealmsInvitesPending), nil, &out); err != nil {
		return nil, err
	}
	return out.Invites, nil
}

// AcceptInvite accepts a pending invitation.
func (r *RealmsClient) AcceptInvite(ctx context.Context, invitationID string) error {
	if strings.TrimSpace(invitationID) == "" {
		return errors.New("mojang: invitation id required")
	}
	return r.call(ctx, http.MethodPut, r.url(routes.RealmsInviteAccept, url.PathEscape(invitationID)), nil, nil)
}

// RejectInvite declines a pending invitation.
func (r *RealmsClient) RejectInvite(ctx context.Context, invitationID string) error {
	if strings.TrimSpace(invitationID) == "" {
		return errors.New("mojang: invitation id required")
	}
	return r.call(ctx, http.MethodPut, r.url(routes.RealmsInviteReject, url.PathEscape(invitationID)), nil, nil)
}

// Invite invites a player to a realm and returns the updated realm.
func (r *RealmsClient) Invite(ctx context.Context, id int64, player PlayerInvite) (Realm, error) {
	if strings.TrimSpace(player.Name) == "" && strings.TrimSpace(player.UUID) == "" {
		return Realm{}, errors.New("mojang: invite requires a player name or uuid")
	}
	var out Realm
	if err := r.call(ctx, http.MethodPost, r.url(routes.RealmsInvite, id), player, &out); err != nil {
		return Realm{}, err
	}
	return out, nil
}

// Uninvite removes a player from a realm.
func (r *RealmsClient) Uninvite(ctx context.Context, id int64, playerID string) error {
	normalized, err := NormalizePlayerID(playerID)
	if err != nil {
		return err
	}
	return r.call(ctx, http.MethodDelete, r.url(routes.RealmsUninvite, id, normalized), nil, nil)
}

// Open opens a realm to its members.
func (r *RealmsClient) Open(ctx context.Context, id int64) error {
	return r.call(ctx, http.MethodPut, r.url(routes.RealmsOpen, id), nil, nil)
}

// Close closes a realm.
func (r *RealmsClient) Close(ctx context.Context, id int64) error {
	return r.call(ctx, http.MethodPut, r.url(routes.RealmsClose, id), nil, nil)
}

// SetMinigame switches a realm to a minigame template.
func (r *RealmsClient) SetMinigame(ctx context.Context, id, minigameID int64) error {
	return r.call(ctx, http.MethodPut, r.url(routes.RealmsMinigame, minigameID, id), nil, nil)
}

// Templates returns one page of world templates of the given type.
func (r *RealmsClient) Templates(ctx context.Context, kind WorldType, page, pageSize int) (Templates, error) {
	if page < 1 || pageSize < 1 {
		return Templates{}, fmt.Errorf("mojang: invalid template page %d/%d", page, pageSize)
	}
	endpoint := r.url(routes.RealmsTemplates, url.PathEscape(string(kind))) +
		"?page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(pageSize)
	var out Templates
	if err := r.call(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return Templates{}, err
	}
	return out, nil
}

// AgreeToTOS records acceptance of the realms terms of service.
func (r *RealmsClient) AgreeToTOS(ctx context.Context) error {
	return r.call(ctx, http.MethodPost, r.url(routes.RealmsTOSAgreed), nil, nil)
}

// LivePlayers returns who is online in each of the player's realms.
func (r *RealmsClient) LivePlayers(ctx context.Context) ([]LivePlayers, error) {
	body, err := r.text(ctx, http.MethodGet, r.url(routes.RealmsLivePlayers))
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("mojang: decode %s: invalid JSON", routes.RealmsLivePlayers)
	}
	var out []LivePlayers
	for _, entry := range gjson.Get(body, "lists").Array() {
		lp := LivePlayers{ServerID: entry.Get("serverId").Int()}
		// playerList is a JSON document encoded as a string.
		players := entry.Get("playerList")
		if players.Type == gjson.String {
			players = gjson.Parse(players.String())
		}
		for _, p := range players.Array() {
			lp.Players = append(lp.Players, LivePlayer{
				PlayerID: p.Get("playerId").String(),
				Accepted: p.Get("accepted").Bool(),
				Online:   p.Get("online").Bool(),
			})
		}
		out = append(out, lp)
	}
	return out, nil
}
