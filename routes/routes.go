// Package routes provides the hosts and paths of the Xbox Live, Minecraft services,
// Mojang and Realms APIs so that request construction never drifts from one call
// site to another.
package routes

// Hosts.
const (
	XboxLiveUserHost  = "https://user.auth.xboxlive.com"
	XSTSHost          = "https://xsts.auth.xboxlive.com"
	MinecraftServices = "https://api.minecraftservices.com"
	MojangAPI         = "https://api.mojang.com"
	SessionServer     = "https://sessionserver.mojang.com"
	RealmsProduction  = "https://pc.realms.minecraft.net"
	RealmsStage       = "https://pc-stage.realms.minecraft.net"
	RealmsLocal       = "http://localhost:8080"
)

// Token exchange chain.
const (
	// XboxLiveAuthenticate trades a Microsoft access token for an Xbox Live user token.
	XboxLiveAuthenticate = "/user/authenticate"

	// XSTSAuthorize trades an Xbox Live user token for an XSTS token scoped to a relying party.
	XSTSAuthorize = "/xsts/authorize"

	// LoginWithXbox trades the XSTS identity token for a Minecraft access token.
	LoginWithXbox = "/authentication/login_with_xbox" // #nosec G101 -- route path, not a credential
)

// Minecraft services (bearer authenticated unless noted).
const (
	Profile               = "/minecraft/profile"
	ProfileName           = "/minecraft/profile/name/"
	ProfileSkins          = "/minecraft/profile/skins"
	ProfileActiveSkin     = "/minecraft/profile/skins/active"
	ProfileActiveCape     = "/minecraft/profile/capes/active"
	PlayerAttributes      = "/player/attributes"
	PlayerCertificates    = "/player/certificates"
	PrivacyBlocklist      = "/privacy/blocklist"
	ProductVoucher        = "/productvoucher/"
	PublicKeys            = "/publickeys"                           // public
	ProfileLookupBulk     = "/minecraft/profile/lookup/bulk/byname" // public
	UsersProfileByName    = "/users/profiles/minecraft/"            // public, api.mojang.com
	SessionProfile        = "/session/minecraft/profile/"           // public, sessionserver
	SessionBlockedServers = "/blockedservers"                       // public, sessionserver
)

// Realms (cookie authenticated).
const (
	RealmsAvailable           = "/mco/available"
	RealmsCompatible          = "/mco/client/compatible"
	RealmsTOSAgreed           = "/mco/tos/agreed"
	RealmsWorlds              = "/worlds"
	RealmsWorld               = "/worlds/%d"
	RealmsJoin                = "/worlds/v1/%d/join/pc"
	RealmsBackups             = "/worlds/%d/backups"
	RealmsSlotDownload        = "/worlds/%d/slot/%d/download"
	RealmsOpen                = "/worlds/%d/open"
	RealmsClose               = "/worlds/%d/close"
	RealmsOps                 = "/ops/%d"
	RealmsOp                  = "/ops/%d/%s"
	RealmsSubscription        = "/subscriptions/%d"
	RealmsInvitesPendingCount = "/invites/count/pending"
	RealmsInvitesPending      = "/invites/pending"
	RealmsInviteAccept        = "/invites/accept/%s"
	RealmsInviteReject        = "/invites/reject/%s"
	RealmsInvite              = "/invites/%d"
	RealmsUninvite            = "/invites/%d/invite/%s"
	RealmsLivePlayers         = "/activities/liveplayerlist"
	RealmsTemplates           = "/worlds/templates/%s"
	RealmsMinigame            = "/worlds/minigames/%d/%d"
	RealmsTrial               = "/trial"
)
