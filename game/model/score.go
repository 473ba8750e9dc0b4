package model

// MatchScore is the running score of one side (one or two players) across
// the games of a match.
type MatchScore struct {
	PlayerIDs []UserID `json:"playerIds"`
	Points    int      `json:"points"`
}

// ScoreItemType tags the game-specific score breakdown lines. Briscola
// lines carry no tag: they are a card plus its point value.
type ScoreItemType string

const (
	// Scopa breakdown lines.
	ScoreCarte      ScoreItemType = "Carte"
	ScoreDenari     ScoreItemType = "Denari"
	ScorePrimiera   ScoreItemType = "Primiera"
	ScoreSettebello ScoreItemType = "Settebello"
	ScoreScope      ScoreItemType = "Scope"

	// Tressette breakdown lines.
	ScoreCarta ScoreItemType = "Carta"
	ScoreRete  ScoreItemType = "Rete"
)

// ScoreItem is one line of a game score breakdown. Which fields are set
// depends on the game: briscola items have Card and Points, scopa items have
// Type with Count (and Cards for the primiera), tressette items have Type
// with Thirds.
type ScoreItem struct {
	Type   ScoreItemType `json:"type,omitempty"`
	Card   *Card         `json:"card,omitempty"`
	Cards  []Card        `json:"cards,omitempty"`
	Points int           `json:"points,omitempty"`
	Count  int           `json:"count,omitempty"`
	Thirds int           `json:"thirds,omitempty"`
}

// GameScore is the final score of one side for a completed game, with the
// breakdown the server used to compute it.
type GameScore struct {
	PlayerIDs []UserID    `json:"playerIds"`
	Points    int         `json:"points"`
	Details   []ScoreItem `json:"details"`
}
