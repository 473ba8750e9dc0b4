package protocol

import "github.com/denarigame/denari-go/game/model"

// MessageType tags the closed set of inbound server messages.
type MessageType string

const (
	MessageAuthenticated MessageType = "Authenticated"
	MessageConnected     MessageType = "Connected"
	MessageDisconnected  MessageType = "Disconnected"
	MessageGameEvent     MessageType = "GameEvent"
	MessagePing          MessageType = "Ping"
)

// Message is one decoded inbound message. The set of implementations is
// closed; consumers dispatch with an exhaustive type switch.
type Message interface {
	messageType() MessageType
}

// Authenticated confirms the token sent with an Authenticate intent and
// names the user it belongs to.
type Authenticated struct {
	User model.User `json:"user"`
}

// Connected carries the initial room snapshot. Receiving it is the point
// where the client-side Room is created.
type Connected struct {
	Room model.Room `json:"room"`
}

// Disconnected announces that the server is about to drop the connection.
type Disconnected struct {
	Reason string `json:"reason"`
}

// Ping is a keep-alive probe. The transport answers it with a Pong intent
// before anything else happens; it is never surfaced to consumers.
type Ping struct{}

// GameEventMessage wraps one game event.
type GameEventMessage struct {
	Event Event
}

func (Authenticated) messageType() MessageType    { return MessageAuthenticated }
func (Connected) messageType() MessageType        { return MessageConnected }
func (Disconnected) messageType() MessageType     { return MessageDisconnected }
func (Ping) messageType() MessageType             { return MessagePing }
func (GameEventMessage) messageType() MessageType { return MessageGameEvent }
