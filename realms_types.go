package mojang

import "strings"

// Compatibility is the realms verdict on a client version.
type Compatibility string

const (
	Compatible   Compatibility = "COMPATIBLE"
	Outdated     Compatibility = "OUTDATED"
	Incompatible Compatibility = "OTHER"
)

// RealmPlayer is a member of a realm.
type RealmPlayer struct {
	Name       string `json:"name"`
	UUID       string `json:"uuid"`
	Operator   bool   `json:"operator"`
	Accepted   bool   `json:"accepted"`
	Online     bool   `json:"online"`
	Permission string `json:"permission,omitempty"`
}

// Realm is one realm world as listed by the realms service.
type Realm struct {
	ID                   int64         `json:"id"`
	RemoteSubscriptionID string        `json:"remoteSubscriptionId"`
	Owner                string        `json:"owner"`
	OwnerUUID            string        `json:"ownerUUID"`
	Name                 string        `json:"name"`
	MOTD                 string        `json:"motd"`
	State                string        `json:"state"`
	DaysLeft             int           `json:"daysLeft"`
	Expired              bool          `json:"expired"`
	ExpiredTrial         bool          `json:"expiredTrial"`
	WorldType            string        `json:"worldType"`
	Players              []RealmPlayer `json:"players"`
	MaxPlayers           int           `json:"maxPlayers"`
	MinigameName         *string       `json:"minigameName"`
	MinigameID           *int64        `json:"minigameId"`
	ActiveSlot           int           `json:"activeSlot"`
	Member               bool          `json:"member"`
	ActiveVersion        string        `json:"activeVersion,omitempty"`
	Compatibility        string        `json:"compatibility,omitempty"`
}

// IsOpen reports whether the realm accepts players.
func (r Realm) IsOpen() bool { return strings.EqualFold(r.State, "OPEN") }

// Server is a realm's connect address.
type Server struct {
	Address          string  `json:"address"`
	ResourcePackURL  *string `json:"resourcePackUrl"`
	ResourcePackHash *string `json:"resourcePackHash"`
	PendingUpdate    bool    `json:"pendingUpdate"`
}

// Backup is one stored world backup.
type Backup struct {
	BackupID     string            `json:"backupId"`
	LastModified int64             `json:"lastModifiedDate"`
	Size         int64             `json:"size"`
	Metadata     map[string]string `json:"metadata"`
}

// BackupDownload is a time-limited link to a slot's world archive.
type BackupDownload struct {
	DownloadLink     string `json:"downloadLink"`
	ResourcePackURL  string `json:"resourcePackUrl,omitempty"`
	ResourcePackHash string `json:"resourcePackHash,omitempty"`
}

// Subscription describes a realm's billing period.
type Subscription struct {
	StartDate        int64  `json:"startDate"`
	DaysLeft         int    `json:"daysLeft"`
	SubscriptionType string `json:"subscriptionType"`
}

// Invite is a pending realm invitation addressed to the player.
type Invite struct {
	InvitationID     string `json:"invitationId"`
	WorldName        string `json:"worldName"`
	WorldDescription string `json:"worldDescription"`
	WorldOwnerName   string `json:"worldOwnerName"`
	WorldOwnerUUID   string `json:"worldOwnerUuid"`
	Date             int64  `json:"date"`
}

// PlayerInvite addresses an invitation by name or UUID. Nil fields are omitted.
type PlayerInvite struct {
	Name     string `json:"name,omitempty"`
	UUID     string `json:"uuid,omitempty"`
	Operator *bool  `json:"operator,omitempty"`
	Accepted *bool  `json:"accepted,omitempty"`
	Online   *bool  `json:"online,omitempty"`
}

// LivePlayer is one entry of a realm's live player list.
type LivePlayer struct {
	PlayerID string
	Accepted bool
	Online   bool
}

// LivePlayers lists who is currently online in one realm.
type LivePlayers struct {
	ServerID int64
	Players  []LivePlayer
}

// WorldType selects a template category.
type WorldType string

const (
	WorldTypeNormal      WorldType = "NORMAL"
	WorldTypeMinigame    WorldType = "MINIGAME"
	WorldTypeAdventure   WorldType = "ADVENTUREMAP"
	WorldTypeExperience  WorldType = "EXPERIENCE"
	WorldTypeInspiration WorldType = "INSPIRATION"
)

// Template is a world template offered by the realms service.
type Template struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Version            string `json:"version"`
	Author             string `json:"author"`
	Link               string `json:"link"`
	Image              string `json:"image"`
	Trailer            string `json:"trailer"`
	RecommendedPlayers string `json:"recommendedPlayers"`
	Type               string `json:"type"`
}

// Templates is one page of world templates.
type Templates struct {
	Templates []Template `json:"templates"`
	Page      int        `json:"page"`
	Size      int        `json:"size"`
	Total     int        `json:"total"`
}
