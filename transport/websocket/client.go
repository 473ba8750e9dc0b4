package websocket

import (
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/denarigame/denari-go/game/model"
	"github.com/denarigame/denari-go/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed for the peer to answer a close handshake before the
	// transport is torn down anyway.
	closeWait = time.Second

	// Maximum inbound frame size. Room snapshots are the largest frames and
	// stay well under this.
	maxMessageSize = 64 * 1024
)

// State is the lifecycle state of a table connection.
type State string

const (
	StateIdle          State = "Idle"
	StateOpen          State = "Open"
	StateAuthenticated State = "Authenticated"
	StateRoomConnected State = "RoomConnected"
	StateJoined        State = "Joined"
	StateClosed        State = "Closed"
)

// NotConnectedError reports a send attempted while the transport is not
// open. It carries the lifecycle state at the time of the attempt.
type NotConnectedError struct {
	State State
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("not connected, status is: %s", e.State)
}

// Client is one table connection. It owns the transport, drives the
// lifecycle state machine, and dispatches every validated inbound message to
// the handler registered for its kind. All handlers run on the connection's
// single dispatch goroutine.
type Client struct {
	handlers handlers

	mu          sync.Mutex
	conn        *websocket.Conn
	state       State
	user        *model.User
	closeReason string
}

// Dial opens the connection to the given room. The transport endpoint is
// ws(s)://host/play/{roomID}. On success the lifecycle moves to Open and the
// OnReady handler fires from the dispatch goroutine.
func (c *Client) Dial(roomID model.RoomID, host string, secure bool) error {
	scheme := "ws"
	if secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: host, Path: "/play/" + string(roomID)}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	conn.SetReadLimit(maxMessageSize)

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		conn.Close()
		return fmt.Errorf("dial: client already in state %s", c.state)
	}
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	go c.run()
	return nil
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the authenticated local user, or nil before authentication.
func (c *Client) User() *model.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Send serializes and writes one outbound intent. It fails with
// NotConnectedError unless the transport is open.
func (c *Client) Send(msg protocol.Outbound) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %T: %w", msg, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle || c.state == StateClosed {
		return &NotConnectedError{State: c.state}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close tears down the transport. The OnDisconnected handler fires from the
// dispatch goroutine once the read loop drains. Closing is terminal: the
// client never reconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == StateIdle || c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	c.mu.Unlock()

	deadline := time.Now().Add(closeWait)
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		return conn.Close()
	}
	// The peer may never answer the handshake; bound the read loop so the
	// terminal state is reached either way.
	return conn.SetReadDeadline(deadline)
}

// Authenticate sends an Authenticate intent carrying the bearer token.
func (c *Client) Authenticate(authToken string) error {
	return c.Send(protocol.AuthenticateMessage(authToken))
}

// Connect requests the room snapshot.
func (c *Client) Connect() error {
	return c.Send(protocol.ConnectMessage())
}

// JoinTable asks for a seat at the table.
func (c *Client) JoinTable() error {
	return c.Send(protocol.JoinTableMessage())
}

// LeaveTable gives up the seat.
func (c *Client) LeaveTable() error {
	return c.Send(protocol.LeaveTableMessage())
}

// StartMatch asks to start a match at the given game.
func (c *Client) StartMatch(gameType model.GameType) error {
	return c.Send(protocol.StartMatchMessage(gameType))
}

// ShuffleDeck resolves a ShuffleDeck action.
func (c *Client) ShuffleDeck() error {
	return c.Send(protocol.ShuffleDeckMessage())
}

// Ok resolves a Confirm action.
func (c *Client) Ok() error {
	return c.Send(protocol.OkMessage())
}

// PlayCard plays a card from the local hand.
func (c *Client) PlayCard(card model.Card) error {
	return c.Send(protocol.PlayCardMessage(card))
}

// TakeCards plays a card and captures cards from the board.
func (c *Client) TakeCards(card model.Card, take []model.Card) error {
	return c.Send(protocol.TakeCardsMessage(card, take))
}

// Pong answers a keep-alive Ping. The read loop does this automatically;
// the method exists for completeness of the intent surface.
func (c *Client) Pong() error {
	return c.Send(protocol.PongMessage())
}

// run is the dispatch goroutine: it fires OnReady, then reads, validates,
// and dispatches frames one at a time until the transport closes.
func (c *Client) run() {
	c.handlers.ready(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read error: %v", err)
			}
			break
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			// Trust boundary: invalid frames never reach dispatch.
			log.Printf("discarding inbound message: %v", err)
			continue
		}
		c.dispatch(msg)
	}

	c.shutdown()
}

// shutdown marks the terminal state and reports the closure exactly once.
func (c *Client) shutdown() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	reason := c.closeReason
	conn := c.conn
	c.mu.Unlock()

	conn.Close()
	if reason == "" {
		reason = "connection closed"
	}
	c.handlers.disconnected(reason, c)
}

// dispatch routes one validated message to its handler. A Ping is answered
// before anything else can run, so keep-alive never queues behind consumer
// work.
func (c *Client) dispatch(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.Authenticated:
		c.mu.Lock()
		c.user = &m.User
		c.state = StateAuthenticated
		c.mu.Unlock()
		c.handlers.authenticated(m.User, c)

	case protocol.Connected:
		c.mu.Lock()
		c.state = StateRoomConnected
		c.mu.Unlock()
		c.handlers.connected(m.Room, c)

	case protocol.Disconnected:
		c.mu.Lock()
		c.closeReason = m.Reason
		c.mu.Unlock()

	case protocol.Ping:
		if err := c.Send(protocol.PongMessage()); err != nil {
			log.Printf("pong failed: %v", err)
		}

	case protocol.GameEventMessage:
		c.dispatchEvent(m.Event)
	}
}

// dispatchEvent routes one game event to its handler.
func (c *Client) dispatchEvent(event protocol.Event) {
	switch ev := event.(type) {
	case protocol.PlayerJoinedTable:
		c.mu.Lock()
		if c.state == StateRoomConnected && c.user != nil && ev.User.ID == c.user.ID {
			c.state = StateJoined
		}
		c.mu.Unlock()
		c.handlers.playerJoinedTable(ev, c)
	case protocol.PlayerLeftTable:
		c.handlers.playerLeftTable(ev, c)
	case protocol.MatchStarted:
		c.handlers.matchStarted(ev, c)
	case protocol.TrumpRevealed:
		c.handlers.trumpRevealed(ev, c)
	case protocol.BoardCardsDealt:
		c.handlers.boardCardsDealt(ev, c)
	case protocol.CardPlayed:
		c.handlers.cardPlayed(ev, c)
	case protocol.CardsTaken:
		c.handlers.cardsTaken(ev, c)
	case protocol.PlayerConfirmed:
		c.handlers.playerConfirmed(ev, c)
	case protocol.TimedOut:
		c.handlers.timedOut(ev, c)
	case protocol.TrickCompleted:
		c.handlers.trickCompleted(ev, c)
	case protocol.GameCompleted:
		c.handlers.gameCompleted(ev, c)
	case protocol.MatchCompleted:
		c.handlers.matchCompleted(ev, c)
	case protocol.GameAborted:
		c.handlers.gameAborted(ev, c)
	case protocol.MatchAborted:
		c.handlers.matchAborted(ev, c)
	case protocol.CardsDealt:
		c.handlers.cardsDealt(ev, c)
	case protocol.DeckShuffled:
		c.handlers.deckShuffled(ev, c)
	}
}
