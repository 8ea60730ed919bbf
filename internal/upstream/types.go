package upstream

// WorldInfo describes one game world as reported by the provider.
type WorldInfo struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	PlayersOnline int    `json:"players_online"`
	RecordPlayers int    `json:"record_players"`
	Location      string `json:"location"`
	PvPType       string `json:"pvp_type"`
}

// GuildInfo is the mandatory payload: without it no banner can be rendered.
type GuildInfo struct {
	Name          string `json:"name"`
	World         string `json:"world"`
	Description   string `json:"description"`
	Founded       string `json:"founded"`
	MembersTotal  int    `json:"members_total"`
	PlayersOnline int    `json:"players_online"`
	LogoURL       string `json:"logo_url"`
	Active        bool   `json:"active"`
}

// BossInfo is the daily boosted boss.
type BossInfo struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// NpcLocation is where a traveling merchant NPC is today.
type NpcLocation struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// EventChange is the structured shape of a scheduled world change.
type EventChange struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EventList carries the two shapes the provider has used over time: a flat
// list of event names and a list of structured change records. Either or
// both may be populated.
type EventList struct {
	Names   []string      `json:"events"`
	Changes []EventChange `json:"changes"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"` // RFC 3339
}
