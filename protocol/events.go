package protocol

import "github.com/denarigame/denari-go/game/model"

// EventType tags the closed set of game events a GameEvent message can carry.
type EventType string

const (
	EventPlayerJoinedTable EventType = "PlayerJoinedTable"
	EventPlayerLeftTable   EventType = "PlayerLeftTable"
	EventMatchStarted      EventType = "MatchStarted"
	EventTrumpRevealed     EventType = "TrumpRevealed"
	EventBoardCardsDealt   EventType = "BoardCardsDealt"
	EventCardPlayed        EventType = "CardPlayed"
	EventCardsTaken        EventType = "CardsTaken"
	EventPlayerConfirmed   EventType = "PlayerConfirmed"
	EventTimedOut          EventType = "TimedOut"
	EventTrickCompleted    EventType = "TrickCompleted"
	EventGameCompleted     EventType = "GameCompleted"
	EventMatchCompleted    EventType = "MatchCompleted"
	EventGameAborted       EventType = "GameAborted"
	EventMatchAborted      EventType = "MatchAborted"
	EventCardsDealt        EventType = "CardsDealt"
	EventDeckShuffled      EventType = "DeckShuffled"
)

// Event is one decoded game event. The set of implementations is closed;
// the reducer and dispatcher handle it with exhaustive type switches.
type Event interface {
	eventType() EventType
}

// PlayerJoinedTable seats a user at the given seat index.
type PlayerJoinedTable struct {
	User model.User `json:"user"`
	Seat int        `json:"seat"`
}

// PlayerLeftTable vacates the given seat.
type PlayerLeftTable struct {
	User model.User `json:"user"`
	Seat int        `json:"seat"`
}

// MatchStarted opens a match; the sides are named by the initial match
// scores.
type MatchStarted struct {
	GameType    model.GameType     `json:"gameType"`
	MatchScores []model.MatchScore `json:"matchScores"`
}

// TrumpRevealed shows the trump card at the bottom of the deck.
type TrumpRevealed struct {
	Card model.Card `json:"card"`
}

// BoardCardsDealt places cards face up on the board without an owner.
type BoardCardsDealt struct {
	Cards []model.Card `json:"cards"`
}

// CardPlayed moves a card from the player's hand to the board.
type CardPlayed struct {
	PlayerID model.UserID `json:"playerId"`
	Card     model.Card   `json:"card"`
}

// CardsTaken plays a card and captures cards from the board into the
// player's pile. Scopa is set when the capture swept the board.
type CardsTaken struct {
	PlayerID model.UserID `json:"playerId"`
	Card     model.Card   `json:"card"`
	Taken    []model.Card `json:"taken"`
	Scopa    *model.Card  `json:"scopa,omitempty"`
}

// PlayerConfirmed resolves a pending Confirm action.
type PlayerConfirmed struct {
	PlayerID model.UserID `json:"playerId"`
}

// TimedOut reports that a player failed to resolve an action before its
// deadline. The forced resolution arrives as its own event.
type TimedOut struct {
	PlayerID model.UserID `json:"playerId"`
	Action   model.Action `json:"action"`
}

// TrickCompleted marks the end of a trick.
type TrickCompleted struct {
	WinnerID model.UserID `json:"winnerId"`
}

// GameCompleted closes the current game with final scores.
type GameCompleted struct {
	Scores      []model.GameScore  `json:"scores"`
	MatchScores []model.MatchScore `json:"matchScores"`
}

// MatchCompleted closes the match and names the winners.
type MatchCompleted struct {
	WinnerIDs []model.UserID `json:"winnerIds"`
}

// GameAborted cancels the current game.
type GameAborted struct {
	Reason string `json:"reason"`
}

// MatchAborted cancels the whole match.
type MatchAborted struct {
	Reason string `json:"reason"`
}

// CardsDealt hands cards to the current deal target. Cards are visible when
// this client owns the receiving seat, hidden otherwise.
type CardsDealt struct {
	Cards []model.Card `json:"cards"`
}

// DeckShuffled resets the deck to the given number of face-down cards.
type DeckShuffled struct {
	NumberOfCards int `json:"numberOfCards"`
}

func (PlayerJoinedTable) eventType() EventType { return EventPlayerJoinedTable }
func (PlayerLeftTable) eventType() EventType   { return EventPlayerLeftTable }
func (MatchStarted) eventType() EventType      { return EventMatchStarted }
func (TrumpRevealed) eventType() EventType     { return EventTrumpRevealed }
func (BoardCardsDealt) eventType() EventType   { return EventBoardCardsDealt }
func (CardPlayed) eventType() EventType        { return EventCardPlayed }
func (CardsTaken) eventType() EventType        { return EventCardsTaken }
func (PlayerConfirmed) eventType() EventType   { return EventPlayerConfirmed }
func (TimedOut) eventType() EventType          { return EventTimedOut }
func (TrickCompleted) eventType() EventType    { return EventTrickCompleted }
func (GameCompleted) eventType() EventType     { return EventGameCompleted }
func (MatchCompleted) eventType() EventType    { return EventMatchCompleted }
func (GameAborted) eventType() EventType       { return EventGameAborted }
func (MatchAborted) eventType() EventType      { return EventMatchAborted }
func (CardsDealt) eventType() EventType        { return EventCardsDealt }
func (DeckShuffled) eventType() EventType      { return EventDeckShuffled }
