package protocol

import (
	"encoding/json"

	"github.com/denarigame/denari-go/game/model"
)

// OutboundType tags the closed set of client-to-server intent messages.
type OutboundType string

const (
	OutAuthenticate OutboundType = "Authenticate"
	OutConnect      OutboundType = "Connect"
	OutJoinTable    OutboundType = "JoinTable"
	OutLeaveTable   OutboundType = "LeaveTable"
	OutStartMatch   OutboundType = "StartMatch"
	OutShuffleDeck  OutboundType = "ShuffleDeck"
	OutOk           OutboundType = "Ok"
	OutPlayCard     OutboundType = "PlayCard"
	OutTakeCards    OutboundType = "TakeCards"
	OutPong         OutboundType = "Pong"
)

// Outbound is a client-to-server intent. Construction is type-correct by
// design and nothing more: the server is the authority on legality and
// answers invalid intents with corrective events.
type Outbound interface {
	outboundType() OutboundType
}

// Authenticate presents a bearer token obtained from the auth handshake.
type Authenticate struct {
	MessageType OutboundType `json:"messageType"`
	AuthToken   string       `json:"authToken"`
}

// Connect requests the room snapshot after authenticating.
type Connect struct {
	MessageType OutboundType `json:"messageType"`
}

// JoinTable asks for a seat at the table.
type JoinTable struct {
	MessageType OutboundType `json:"messageType"`
}

// LeaveTable gives up the seat.
type LeaveTable struct {
	MessageType OutboundType `json:"messageType"`
}

// StartMatch asks to start a match at the given game.
type StartMatch struct {
	MessageType OutboundType   `json:"messageType"`
	GameType    model.GameType `json:"gameType"`
}

// ShuffleDeck resolves a ShuffleDeck action.
type ShuffleDeck struct {
	MessageType OutboundType `json:"messageType"`
}

// Ok resolves a Confirm action.
type Ok struct {
	MessageType OutboundType `json:"messageType"`
}

// PlayCard plays a card from the local hand.
type PlayCard struct {
	MessageType OutboundType `json:"messageType"`
	Card        model.Card   `json:"card"`
}

// TakeCards plays a card and captures cards from the board.
type TakeCards struct {
	MessageType OutboundType `json:"messageType"`
	Card        model.Card   `json:"card"`
	Take        []model.Card `json:"take"`
}

// Pong answers a keep-alive Ping.
type Pong struct {
	MessageType OutboundType `json:"messageType"`
}

func (Authenticate) outboundType() OutboundType { return OutAuthenticate }
func (Connect) outboundType() OutboundType      { return OutConnect }
func (JoinTable) outboundType() OutboundType    { return OutJoinTable }
func (LeaveTable) outboundType() OutboundType   { return OutLeaveTable }
func (StartMatch) outboundType() OutboundType   { return OutStartMatch }
func (ShuffleDeck) outboundType() OutboundType  { return OutShuffleDeck }
func (Ok) outboundType() OutboundType           { return OutOk }
func (PlayCard) outboundType() OutboundType     { return OutPlayCard }
func (TakeCards) outboundType() OutboundType    { return OutTakeCards }
func (Pong) outboundType() OutboundType         { return OutPong }

// AuthenticateMessage builds an Authenticate intent.
func AuthenticateMessage(authToken string) Authenticate {
	return Authenticate{MessageType: OutAuthenticate, AuthToken: authToken}
}

// ConnectMessage builds a Connect intent.
func ConnectMessage() Connect {
	return Connect{MessageType: OutConnect}
}

// JoinTableMessage builds a JoinTable intent.
func JoinTableMessage() JoinTable {
	return JoinTable{MessageType: OutJoinTable}
}

// LeaveTableMessage builds a LeaveTable intent.
func LeaveTableMessage() LeaveTable {
	return LeaveTable{MessageType: OutLeaveTable}
}

// StartMatchMessage builds a StartMatch intent for the given game.
func StartMatchMessage(gameType model.GameType) StartMatch {
	return StartMatch{MessageType: OutStartMatch, GameType: gameType}
}

// ShuffleDeckMessage builds a ShuffleDeck intent.
func ShuffleDeckMessage() ShuffleDeck {
	return ShuffleDeck{MessageType: OutShuffleDeck}
}

// OkMessage builds an Ok intent.
func OkMessage() Ok {
	return Ok{MessageType: OutOk}
}

// PlayCardMessage builds a PlayCard intent.
func PlayCardMessage(card model.Card) PlayCard {
	return PlayCard{MessageType: OutPlayCard, Card: card}
}

// TakeCardsMessage builds a TakeCards intent.
func TakeCardsMessage(card model.Card, take []model.Card) TakeCards {
	return TakeCards{MessageType: OutTakeCards, Card: card, Take: take}
}

// PongMessage builds a Pong intent.
func PongMessage() Pong {
	return Pong{MessageType: OutPong}
}

// Encode serializes an outbound intent to its wire form.
func Encode(msg Outbound) ([]byte, error) {
	return json.Marshal(msg)
}
