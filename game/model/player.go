package model

// UserID identifies a user across rooms.
type UserID string

// User is the immutable identity of a connected user.
type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// Player is a user with a running point total for the current game.
type Player struct {
	User
	Points int `json:"points"`
}

// PlayerState tags the lifecycle state of a seat occupant.
type PlayerState string

const (
	SittingOut PlayerState = "SittingOut"
	Playing    PlayerState = "Playing"
	Waiting    PlayerState = "Waiting"
	Acting     PlayerState = "Acting"
	EndOfGame  PlayerState = "EndOfGame"
	EndOfMatch PlayerState = "EndOfMatch"
)

// PlayerContext tracks one seat occupant through the lifecycle of a match.
// Fields beyond State and Player are populated only for the states that
// carry them: Action and Timeout for Acting, Points for EndOfGame, Winner
// for EndOfGame and EndOfMatch.
type PlayerContext struct {
	State   PlayerState `json:"state"`
	Player  Player      `json:"player"`
	Action  *Action     `json:"action,omitempty"`
	Timeout int         `json:"timeout,omitempty"`
	Points  int         `json:"points,omitempty"`
	Winner  bool        `json:"winner,omitempty"`
}

// IsActing reports whether the occupant is the one required to act.
func (pc *PlayerContext) IsActing() bool {
	return pc != nil && pc.State == Acting
}
