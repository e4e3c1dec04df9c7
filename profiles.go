package mojang

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/aabss/mojang-go/routes"
)

const (
	// bulkLookupBatch is the most names the bulk endpoint accepts per request.
	bulkLookupBatch = 10
	// bulkLookupParallelism bounds concurrent bulk requests.
	bulkLookupParallelism = 4
)

// ProfilesClient wraps the public lookup endpoints. No credential is sent.
type ProfilesClient struct {
	client *Client
}

func (p *ProfilesClient) ready() error {
	if p == nil || p.client == nil {
		return fmt.Errorf("mojang: profiles client not initialized")
	}
	return nil
}

// ProfileID is a name to UUID mapping.
type ProfileID struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UUIDByName resolves a player name to its undashed UUID.
func (p *ProfilesClient) UUIDByName(ctx context.Context, name string) (ProfileID, error) {
	if err := p.ready(); err != nil {
		return ProfileID{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxPlayerNameLength {
		return ProfileID{}, fmt.Errorf("mojang: invalid player name %q", name)
	}
	endpoint := joinURL(p.client.endpoints.Mojang, routes.UsersProfileByName+url.PathEscape(name))
	body, status, err := p.client.callText(ctx, http.MethodGet, endpoint, false)
	if err != nil {
		if IsNotFound(err) {
			return ProfileID{}, ErrProfileNotFound
		}
		return ProfileID{}, err
	}
	if status == http.StatusNoContent || body == "" {
		return ProfileID{}, ErrProfileNotFound
	}
	if !gjson.Valid(body) {
		return ProfileID{}, fmt.Errorf("mojang: decode %s: invalid JSON", routes.UsersProfileByName)
	}
	parsed := gjson.Parse(body)
	id := parsed.Get("id").String()
	if id == "" {
		return ProfileID{}, ErrProfileNotFound
	}
	return ProfileID{ID: id, Name: parsed.Get("name").String()}, nil
}

// UUIDsByNames resolves many names at once. Names are sent in batches of ten with a
// bounded number of batches in flight. Unknown names are absent from the result, which
// is keyed by the lower-cased name.
func (p *ProfilesClient) UUIDsByNames(ctx context.Context, names []string) (map[string]ProfileID, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, n)
	}

	out := make(map[string]ProfileID, len(unique))
	if len(unique) == 0 {
		return out, nil
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkLookupParallelism)
	endpoint := joinURL(p.client.endpoints.Services, routes.ProfileLookupBulk)
	for start := 0; start < len(unique); start += bulkLookupBatch {
		end := min(start+bulkLookupBatch, len(unique))
		batch := unique[start:end]
		g.Go(func() error {
			var found []ProfileID
			if err := p.client.call(gctx, http.MethodPost, endpoint, batch, false, &found); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, f := range found {
				out[strings.ToLower(f.Name)] = f
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicProfile fetches a player's public profile by UUID (dashed or not). With
// unsigned false the textures property carries a signature.
func (p *ProfilesClient) PublicProfile(ctx context.Context, id string, unsigned bool) (PublicProfile, error) {
	if err := p.ready(); err != nil {
		return PublicProfile{}, err
	}
	normalized, err := NormalizePlayerID(id)
	if err != nil {
		return PublicProfile{}, err
	}
	endpoint := joinURL(p.client.endpoints.SessionServer, routes.SessionProfile+normalized)
	if !unsigned {
		endpoint += "?unsigned=false"
	}
	body, status, err := p.client.callText(ctx, http.MethodGet, endpoint, false)
	if err != nil {
		if IsNotFound(err) {
			return PublicProfile{}, ErrProfileNotFound
		}
		return PublicProfile{}, err
	}
	if status == http.StatusNoContent || body == "" {
		return PublicProfile{}, ErrProfileNotFound
	}
	var out PublicProfile
	if err := decodeJSONString(body, &out); err != nil {
		return PublicProfile{}, fmt.Errorf("mojang: decode %s: %w", routes.SessionProfile, err)
	}
	return out, nil
}

// BlockedServers returns the SHA-1 hashes of blocked server addresses.
func (p *ProfilesClient) BlockedServers(ctx context.Context) ([]string, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	body, _, err := p.client.callText(ctx, http.MethodGet, joinURL(p.client.endpoints.SessionServer, routes.SessionBlockedServers), false)
	if err != nil {
		return nil, err
	}
	var hashes []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			hashes = append(hashes, line)
		}
	}
	return hashes, nil
}

// PublicKeys returns the keys that sign profile properties and player certificates.
func (p *ProfilesClient) PublicKeys(ctx context.Context) (PublicKeys, error) {
	if err := p.ready(); err != nil {
		return PublicKeys{}, err
	}
	body, _, err := p.client.callText(ctx, http.MethodGet, joinURL(p.client.endpoints.Services, routes.PublicKeys), false)
	if err != nil {
		return PublicKeys{}, err
	}
	if !gjson.Valid(body) {
		return PublicKeys{}, fmt.Errorf("mojang: decode %s: invalid JSON", routes.PublicKeys)
	}
	parsed := gjson.Parse(body)
	var keys PublicKeys
	for _, k := range parsed.Get("profilePropertyKeys.#.publicKey").Array() {
		keys.ProfilePropertyKeys = append(keys.ProfilePropertyKeys, k.String())
	}
	for _, k := range parsed.Get("playerCertificateKeys.#.publicKey").Array() {
		keys.PlayerCertificateKeys = append(keys.PlayerCertificateKeys, k.String())
	}
	return keys, nil
}
