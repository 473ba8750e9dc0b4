package table

import (
	"github.com/denarigame/denari-go/game/model"
	"github.com/denarigame/denari-go/protocol"
)

// Reducer folds game events into a Room snapshot, one case per event kind.
// It never fails: an event referencing a card, seat, or user the room does
// not know is applied as far as it can be and otherwise ignored, on the
// grounds that the server is authoritative and the next snapshot heals any
// divergence.
//
// The reducer also tracks the active deal target, which the CardsDealt
// event does not carry: deals rotate over occupied seats starting after the
// dealer, and visible cards always land in the local player's hand.
type Reducer struct {
	dealTarget    int
	dealTargetSet bool
}

// NewReducer returns a reducer with no deal in progress.
func NewReducer() *Reducer {
	return &Reducer{}
}

// Apply folds one event into the room, mutating it in place. Events must be
// applied in the exact order the server delivered them; the fold is not
// commutative.
func (r *Reducer) Apply(room *model.Room, event protocol.Event) {
	switch ev := event.(type) {
	case protocol.PlayerJoinedTable:
		r.applyPlayerJoined(room, ev)
	case protocol.PlayerLeftTable:
		r.applyPlayerLeft(room, ev)
	case protocol.MatchStarted:
		r.applyMatchStarted(room, ev)
	case protocol.TrumpRevealed:
		r.applyTrumpRevealed(room, ev)
	case protocol.BoardCardsDealt:
		r.applyBoardCardsDealt(room, ev)
	case protocol.CardPlayed:
		r.applyCardPlayed(room, ev)
	case protocol.CardsTaken:
		r.applyCardsTaken(room, ev)
	case protocol.PlayerConfirmed:
		demoteActing(room, ev.PlayerID)
	case protocol.TimedOut:
		// Informational: the forced resolution arrives as its own event.
	case protocol.TrickCompleted:
		// Informational: board clearing comes from later deal/take events.
	case protocol.GameCompleted:
		r.applyGameCompleted(room, ev)
	case protocol.MatchCompleted:
		r.applyMatchCompleted(room, ev)
	case protocol.GameAborted, protocol.MatchAborted:
		// Surfaced to handlers; the last known standings stay visible.
	case protocol.CardsDealt:
		r.applyCardsDealt(room, ev)
	case protocol.DeckShuffled:
		r.applyDeckShuffled(room, ev)
	}
}

func (r *Reducer) applyPlayerJoined(room *model.Room, ev protocol.PlayerJoinedTable) {
	seat := room.Seat(ev.Seat)
	if seat == nil {
		return
	}
	ctx := &model.PlayerContext{
		State:  model.SittingOut,
		Player: model.Player{User: ev.User},
	}
	setContext(room, seat, ctx)
}

func (r *Reducer) applyPlayerLeft(room *model.Room, ev protocol.PlayerLeftTable) {
	// Historical score records in the players map stay untouched.
	if seat := room.Seat(ev.Seat); seat != nil {
		seat.Occupant = nil
	}
}

func (r *Reducer) applyMatchStarted(room *model.Room, ev protocol.MatchStarted) {
	participants := make(map[model.UserID]bool)
	for _, score := range ev.MatchScores {
		for _, id := range score.PlayerIDs {
			participants[id] = true
		}
	}

	for i := range room.Seats {
		seat := &room.Seats[i]
		seat.Hand = nil
		seat.Pile = nil
		if seat.Occupant == nil {
			continue
		}
		player := model.Player{User: seat.Occupant.Player.User}
		state := model.SittingOut
		if participants[player.ID] {
			state = model.Playing
		}
		setContext(room, seat, &model.PlayerContext{State: state, Player: player})
	}

	room.MatchInfo = &model.MatchInfo{
		GameType:   ev.GameType,
		MatchScore: ev.MatchScores,
	}
	r.resetDeal(room)
}

func (r *Reducer) applyTrumpRevealed(room *model.Room, ev protocol.TrumpRevealed) {
	deck := make([]model.Card, 0, len(room.Deck)+1)
	for _, card := range room.Deck {
		if card.Ref != ev.Card.Ref {
			deck = append(deck, card)
		}
	}
	room.Deck = append(deck, ev.Card)
}

func (r *Reducer) applyBoardCardsDealt(room *model.Room, ev protocol.BoardCardsDealt) {
	for _, card := range ev.Cards {
		room.Board = append(room.Board, model.BoardCard{Card: card})
	}
}

func (r *Reducer) applyCardPlayed(room *model.Room, ev protocol.CardPlayed) {
	demoteActing(room, ev.PlayerID)
	if seat := room.SeatOf(ev.PlayerID); seat != nil {
		seat.Hand = removeCard(seat.Hand, ev.Card.Ref)
	}
	playedBy := ev.PlayerID
	room.Board = append([]model.BoardCard{{Card: ev.Card, PlayedBy: &playedBy}}, room.Board...)
}

func (r *Reducer) applyCardsTaken(room *model.Room, ev protocol.CardsTaken) {
	demoteActing(room, ev.PlayerID)
	if seat := room.SeatOf(ev.PlayerID); seat != nil {
		seat.Hand = removeCard(seat.Hand, ev.Card.Ref)
		for _, card := range ev.Taken {
			// Pile cards are tracked by reference only.
			seat.Pile = append(seat.Pile, card.Hide())
		}
	}

	taken := make(map[model.CardID]bool, len(ev.Taken))
	for _, card := range ev.Taken {
		taken[card.Ref] = true
	}
	board := room.Board[:0]
	for _, bc := range room.Board {
		if !taken[bc.Card.Ref] {
			board = append(board, bc)
		}
	}
	room.Board = board
}

func (r *Reducer) applyGameCompleted(room *model.Room, ev protocol.GameCompleted) {
	if room.MatchInfo != nil {
		room.MatchInfo.GameScore = ev.Scores
		room.MatchInfo.MatchScore = ev.MatchScores
	}

	// Winners are the sides with the most points. A tie, a scoreless game
	// included, marks every tied side a winner.
	if len(ev.Scores) == 0 {
		return
	}
	best := ev.Scores[0].Points
	for _, score := range ev.Scores[1:] {
		if score.Points > best {
			best = score.Points
		}
	}
	for _, score := range ev.Scores {
		winner := score.Points == best
		for _, id := range score.PlayerIDs {
			seat := room.SeatOf(id)
			if seat == nil {
				continue
			}
			setContext(room, seat, &model.PlayerContext{
				State:  model.EndOfGame,
				Player: seat.Occupant.Player,
				Points: score.Points,
				Winner: winner,
			})
		}
	}
}

func (r *Reducer) applyMatchCompleted(room *model.Room, ev protocol.MatchCompleted) {
	winners := make(map[model.UserID]bool, len(ev.WinnerIDs))
	for _, id := range ev.WinnerIDs {
		winners[id] = true
	}
	for i := range room.Seats {
		seat := &room.Seats[i]
		if seat.Occupant == nil {
			continue
		}
		setContext(room, seat, &model.PlayerContext{
			State:  model.EndOfMatch,
			Player: seat.Occupant.Player,
			Winner: winners[seat.Occupant.Player.ID],
		})
	}
}

func (r *Reducer) applyCardsDealt(room *model.Room, ev protocol.CardsDealt) {
	seat := r.dealSeat(room)
	if allVisible(ev.Cards) {
		// The server only reveals cards dealt to this client's seat. Resync
		// the cursor to it so the following deals rotate from the right seat.
		if mine := room.MySeat(); mine != nil {
			seat = mine
			r.dealTarget = mine.Index
		}
	}
	if seat != nil {
		seat.Hand = append(seat.Hand, ev.Cards...)
	}
	r.advanceDeal(room)
}

func (r *Reducer) applyDeckShuffled(room *model.Room, ev protocol.DeckShuffled) {
	// Face-down cards have no known identities, so the deck holds none of
	// them; ev.NumberOfCards only tells the consumer how tall to draw it.
	room.Deck = []model.Card{}
	r.resetDeal(room)
}

// resetDeal points the deal cursor at the first occupied seat after the
// dealer, or seat zero when no dealer is known.
func (r *Reducer) resetDeal(room *model.Room) {
	start := 0
	if room.DealerIndex != nil {
		start = *room.DealerIndex + 1
	}
	r.dealTarget = start
	r.dealTargetSet = true
	if len(room.Seats) > 0 {
		r.dealTarget = start % len(room.Seats)
		if seat := room.Seat(r.dealTarget); seat == nil || seat.Occupant == nil {
			r.advanceDeal(room)
		}
	}
}

// dealSeat resolves the seat the next CardsDealt lands on.
func (r *Reducer) dealSeat(room *model.Room) *model.Seat {
	if !r.dealTargetSet {
		r.resetDeal(room)
	}
	return room.Seat(r.dealTarget)
}

// advanceDeal moves the cursor to the next occupied seat, wrapping around.
func (r *Reducer) advanceDeal(room *model.Room) {
	if len(room.Seats) == 0 {
		return
	}
	next := r.dealTarget
	for i := 0; i < len(room.Seats); i++ {
		next = (next + 1) % len(room.Seats)
		if seat := room.Seat(next); seat != nil && seat.Occupant != nil {
			break
		}
	}
	r.dealTarget = next
}

// demoteActing demotes the acting occupant to Waiting when the action-
// consuming event came from that occupant. This keeps at most one seat
// Acting within a trick.
func demoteActing(room *model.Room, id model.UserID) {
	seat := room.ActingSeat()
	if seat == nil || seat.Occupant.Player.ID != id {
		return
	}
	setContext(room, seat, &model.PlayerContext{
		State:  model.Waiting,
		Player: seat.Occupant.Player,
	})
}

// setContext installs a fresh occupant context on both the seat and the
// players index so lookups by user id stay in sync with the seat.
func setContext(room *model.Room, seat *model.Seat, ctx *model.PlayerContext) {
	seat.Occupant = ctx
	if room.Players == nil {
		room.Players = make(map[model.UserID]*model.PlayerContext)
	}
	room.Players[ctx.Player.ID] = ctx
}

// removeCard filters one reference out of a hand.
func removeCard(hand []model.Card, ref model.CardID) []model.Card {
	out := hand[:0]
	for _, card := range hand {
		if card.Ref != ref {
			out = append(out, card)
		}
	}
	return out
}

func allVisible(cards []model.Card) bool {
	for _, card := range cards {
		if !card.Visible() {
			return false
		}
	}
	return len(cards) > 0
}
