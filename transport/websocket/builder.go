package websocket

import (
	"log"

	"github.com/denarigame/denari-go/game/model"
	"github.com/denarigame/denari-go/protocol"
)

// handlers holds one callback per message and event kind. A copy is frozen
// into the Client when it is built, so registration after Build has no
// effect on a live connection.
type handlers struct {
	ready             func(*Client)
	authenticated     func(model.User, *Client)
	connected         func(model.Room, *Client)
	disconnected      func(string, *Client)
	playerJoinedTable func(protocol.PlayerJoinedTable, *Client)
	playerLeftTable   func(protocol.PlayerLeftTable, *Client)
	matchStarted      func(protocol.MatchStarted, *Client)
	trumpRevealed     func(protocol.TrumpRevealed, *Client)
	boardCardsDealt   func(protocol.BoardCardsDealt, *Client)
	cardPlayed        func(protocol.CardPlayed, *Client)
	cardsTaken        func(protocol.CardsTaken, *Client)
	playerConfirmed   func(protocol.PlayerConfirmed, *Client)
	timedOut          func(protocol.TimedOut, *Client)
	trickCompleted    func(protocol.TrickCompleted, *Client)
	gameCompleted     func(protocol.GameCompleted, *Client)
	matchCompleted    func(protocol.MatchCompleted, *Client)
	gameAborted       func(protocol.GameAborted, *Client)
	matchAborted      func(protocol.MatchAborted, *Client)
	cardsDealt        func(protocol.CardsDealt, *Client)
	deckShuffled      func(protocol.DeckShuffled, *Client)
}

// logDefault is the fallback for unregistered handlers. It must never panic:
// an unhandled message is the consumer's choice, not an error.
func logDefault[T any](value T, _ *Client) {
	log.Printf("unhandled %T: %+v", value, value)
}

// Builder accumulates handler registrations and produces Clients. All On*
// methods return the builder for chaining.
type Builder struct {
	handlers handlers
}

// NewBuilder returns a builder with log-only defaults for every handler.
func NewBuilder() *Builder {
	return &Builder{handlers: handlers{
		ready:             func(*Client) { log.Println("connected to the remote server") },
		authenticated:     logDefault[model.User],
		connected:         logDefault[model.Room],
		disconnected:      func(reason string, _ *Client) { log.Printf("disconnected: %s", reason) },
		playerJoinedTable: logDefault[protocol.PlayerJoinedTable],
		playerLeftTable:   logDefault[protocol.PlayerLeftTable],
		matchStarted:      logDefault[protocol.MatchStarted],
		trumpRevealed:     logDefault[protocol.TrumpRevealed],
		boardCardsDealt:   logDefault[protocol.BoardCardsDealt],
		cardPlayed:        logDefault[protocol.CardPlayed],
		cardsTaken:        logDefault[protocol.CardsTaken],
		playerConfirmed:   logDefault[protocol.PlayerConfirmed],
		timedOut:          logDefault[protocol.TimedOut],
		trickCompleted:    logDefault[protocol.TrickCompleted],
		gameCompleted:     logDefault[protocol.GameCompleted],
		matchCompleted:    logDefault[protocol.MatchCompleted],
		gameAborted:       logDefault[protocol.GameAborted],
		matchAborted:      logDefault[protocol.MatchAborted],
		cardsDealt:        logDefault[protocol.CardsDealt],
		deckShuffled:      logDefault[protocol.DeckShuffled],
	}}
}

// OnReady registers the handler fired when the transport handshake completes.
// The usual reaction is to send an Authenticate intent.
func (b *Builder) OnReady(fn func(*Client)) *Builder {
	b.handlers.ready = fn
	return b
}

// OnAuthenticated registers the handler for the Authenticated message.
func (b *Builder) OnAuthenticated(fn func(model.User, *Client)) *Builder {
	b.handlers.authenticated = fn
	return b
}

// OnConnected registers the handler for the Connected message carrying the
// initial room snapshot.
func (b *Builder) OnConnected(fn func(model.Room, *Client)) *Builder {
	b.handlers.connected = fn
	return b
}

// OnDisconnected registers the handler fired once when the connection
// closes. The reason comes from a Disconnected message when the server sent
// one first, otherwise a generic placeholder.
func (b *Builder) OnDisconnected(fn func(string, *Client)) *Builder {
	b.handlers.disconnected = fn
	return b
}

// OnPlayerJoinedTable registers the handler for PlayerJoinedTable events.
func (b *Builder) OnPlayerJoinedTable(fn func(protocol.PlayerJoinedTable, *Client)) *Builder {
	b.handlers.playerJoinedTable = fn
	return b
}

// OnPlayerLeftTable registers the handler for PlayerLeftTable events.
func (b *Builder) OnPlayerLeftTable(fn func(protocol.PlayerLeftTable, *Client)) *Builder {
	b.handlers.playerLeftTable = fn
	return b
}

// OnMatchStarted registers the handler for MatchStarted events.
func (b *Builder) OnMatchStarted(fn func(protocol.MatchStarted, *Client)) *Builder {
	b.handlers.matchStarted = fn
	return b
}

// OnTrumpRevealed registers the handler for TrumpRevealed events.
func (b *Builder) OnTrumpRevealed(fn func(protocol.TrumpRevealed, *Client)) *Builder {
	b.handlers.trumpRevealed = fn
	return b
}

// OnBoardCardsDealt registers the handler for BoardCardsDealt events.
func (b *Builder) OnBoardCardsDealt(fn func(protocol.BoardCardsDealt, *Client)) *Builder {
	b.handlers.boardCardsDealt = fn
	return b
}

// OnCardPlayed registers the handler for CardPlayed events.
func (b *Builder) OnCardPlayed(fn func(protocol.CardPlayed, *Client)) *Builder {
	b.handlers.cardPlayed = fn
	return b
}

// OnCardsTaken registers the handler for CardsTaken events.
func (b *Builder) OnCardsTaken(fn func(protocol.CardsTaken, *Client)) *Builder {
	b.handlers.cardsTaken = fn
	return b
}

// OnPlayerConfirmed registers the handler for PlayerConfirmed events.
func (b *Builder) OnPlayerConfirmed(fn func(protocol.PlayerConfirmed, *Client)) *Builder {
	b.handlers.playerConfirmed = fn
	return b
}

// OnTimedOut registers the handler for TimedOut events.
func (b *Builder) OnTimedOut(fn func(protocol.TimedOut, *Client)) *Builder {
	b.handlers.timedOut = fn
	return b
}

// OnTrickCompleted registers the handler for TrickCompleted events.
func (b *Builder) OnTrickCompleted(fn func(protocol.TrickCompleted, *Client)) *Builder {
	b.handlers.trickCompleted = fn
	return b
}

// OnGameCompleted registers the handler for GameCompleted events.
func (b *Builder) OnGameCompleted(fn func(protocol.GameCompleted, *Client)) *Builder {
	b.handlers.gameCompleted = fn
	return b
}

// OnMatchCompleted registers the handler for MatchCompleted events.
func (b *Builder) OnMatchCompleted(fn func(protocol.MatchCompleted, *Client)) *Builder {
	b.handlers.matchCompleted = fn
	return b
}

// OnGameAborted registers the handler for GameAborted events.
func (b *Builder) OnGameAborted(fn func(protocol.GameAborted, *Client)) *Builder {
	b.handlers.gameAborted = fn
	return b
}

// OnMatchAborted registers the handler for MatchAborted events.
func (b *Builder) OnMatchAborted(fn func(protocol.MatchAborted, *Client)) *Builder {
	b.handlers.matchAborted = fn
	return b
}

// OnCardsDealt registers the handler for CardsDealt events.
func (b *Builder) OnCardsDealt(fn func(protocol.CardsDealt, *Client)) *Builder {
	b.handlers.cardsDealt = fn
	return b
}

// OnDeckShuffled registers the handler for DeckShuffled events.
func (b *Builder) OnDeckShuffled(fn func(protocol.DeckShuffled, *Client)) *Builder {
	b.handlers.deckShuffled = fn
	return b
}

// Build returns an idle client holding a frozen copy of the registered
// handlers. Call Dial on it to open the connection.
func (b *Builder) Build() *Client {
	return &Client{handlers: b.handlers, state: StateIdle}
}

// Dial builds the client and opens the connection to the given room in one
// step.
func (b *Builder) Dial(roomID model.RoomID, host string, secure bool) (*Client, error) {
	client := b.Build()
	if err := client.Dial(roomID, host, secure); err != nil {
		return nil, err
	}
	return client, nil
}
