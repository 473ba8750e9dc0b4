package model

// RoomID identifies a table on the server.
type RoomID string

// Seat is a positional slot at the table. Hand order is decided by the
// server; Occupant is nil for an empty seat.
type Seat struct {
	Index    int            `json:"index"`
	Hand     []Card         `json:"hand"`
	Pile     []Card         `json:"pile"`
	Occupant *PlayerContext `json:"occupant,omitempty"`
}

// BoardCard is a card lying on the board, with the player that put it there
// when it was played rather than dealt.
type BoardCard struct {
	Card     Card    `json:"card"`
	PlayedBy *UserID `json:"playedBy,omitempty"`
}

// MatchInfo describes the match in progress: the game being played, the
// running match scores, and the scores of the current game once it has
// completed.
type MatchInfo struct {
	GameType   GameType     `json:"gameType"`
	MatchScore []MatchScore `json:"matchScore"`
	GameScore  []GameScore  `json:"gameScore,omitempty"`
}

// Room is the reconstructed client-side view of one table. Board is ordered
// most recent play first; Deck is ordered by the visible reveal order, not
// draw order. Players indexes occupants by user id and keeps entries after a
// player leaves their seat.
type Room struct {
	Me          UserID                    `json:"me"`
	Seats       []Seat                    `json:"seats"`
	Deck        []Card                    `json:"deck"`
	Board       []BoardCard               `json:"board"`
	MatchInfo   *MatchInfo                `json:"matchInfo,omitempty"`
	DealerIndex *int                      `json:"dealerIndex,omitempty"`
	Players     map[UserID]*PlayerContext `json:"players"`
}

// Seat returns the seat with the given index, or nil.
func (r *Room) Seat(index int) *Seat {
	for i := range r.Seats {
		if r.Seats[i].Index == index {
			return &r.Seats[i]
		}
	}
	return nil
}

// SeatOf returns the seat occupied by the given user, or nil.
func (r *Room) SeatOf(id UserID) *Seat {
	for i := range r.Seats {
		occ := r.Seats[i].Occupant
		if occ != nil && occ.Player.ID == id {
			return &r.Seats[i]
		}
	}
	return nil
}

// MySeat returns the local player's seat, or nil when not seated.
func (r *Room) MySeat() *Seat {
	return r.SeatOf(r.Me)
}

// ActingSeat returns the seat whose occupant must act, or nil.
func (r *Room) ActingSeat() *Seat {
	for i := range r.Seats {
		if r.Seats[i].Occupant.IsActing() {
			return &r.Seats[i]
		}
	}
	return nil
}
