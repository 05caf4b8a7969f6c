// Package model contains domain models passed between layers.
package model

// ScoredImage represents one externally scored image event.
// Field names mirror the upstream score gateway wire format.
type ScoredImage struct {
	ID                string  `json:"id"`
	ImageURL          string  `json:"imageURL"`
	Score             float64 `json:"score"`
	TaskName          string  `json:"taskName,omitempty"`
	TotalPoints       float64 `json:"totalPoints"`
	TotalPictureCount int64   `json:"totalPictureCount"`

	// Image holds the base64-encoded payload. Empty until enrichment
	// succeeds; stays empty on the fallback delivery path.
	Image string `json:"image,omitempty"`
}

// Player is a single leaderboard row.
type Player struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// LeaderboardSnapshot is the cached view served to pollers. It is replaced
// wholesale on every refresh.
type LeaderboardSnapshot struct {
	Top10          []Player       `json:"top10"`
	Providers      map[string]int `json:"providers"`
	CurrentPlayers int            `json:"currentPlayers"`
}

// EmptySnapshot returns a fully-formed zero snapshot so readers never see
// nil collections before the first refresh.
func EmptySnapshot() LeaderboardSnapshot {
	return LeaderboardSnapshot{
		Top10:     []Player{},
		Providers: map[string]int{},
	}
}

// StormControl is the stateless control message relayed to dashboards.
type StormControl struct {
	Storm bool `json:"storm"`
}
