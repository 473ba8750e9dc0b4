package table

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/denarigame/denari-go/game/model"
	"github.com/denarigame/denari-go/protocol"
	"github.com/denarigame/denari-go/transport/websocket"
)

// Config describes one table connection.
type Config struct {
	RoomID    model.RoomID
	Host      string
	Secure    bool
	AuthToken string

	// AutoJoin asks for a seat as soon as the room snapshot arrives.
	AutoJoin bool

	// OnRoomUpdate is called after the snapshot arrives and after every
	// event folded into it. The room must be treated as read-only.
	OnRoomUpdate func(room *model.Room, client *Client)

	// OnDisconnected is called once when the connection closes.
	OnDisconnected func(reason string)
}

// Client maintains the Room snapshot for one table. It drives the
// authenticate, connect, and join handshake itself and folds every game
// event through the reducer, so consumers only ever see a consistent room.
type Client struct {
	cfg     Config
	ws      *websocket.Client
	reducer *Reducer

	mu   sync.RWMutex
	room *model.Room
}

// Connect opens the connection and starts the handshake. The returned
// client has no room until the Connected snapshot arrives; watch
// OnRoomUpdate for it.
func Connect(cfg Config) (*Client, error) {
	if cfg.RoomID == "" {
		return nil, fmt.Errorf("table: room id is required")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost:9090"
	}

	t := &Client{cfg: cfg, reducer: NewReducer()}

	builder := websocket.NewBuilder().
		OnReady(func(c *websocket.Client) {
			if err := c.Authenticate(cfg.AuthToken); err != nil {
				log.Printf("authenticate failed: %v", err)
			}
		}).
		OnAuthenticated(func(user model.User, c *websocket.Client) {
			if err := c.Connect(); err != nil {
				log.Printf("connect failed: %v", err)
			}
		}).
		OnConnected(func(room model.Room, c *websocket.Client) {
			t.mu.Lock()
			t.room = &room
			t.mu.Unlock()
			if cfg.AutoJoin {
				if err := c.JoinTable(); err != nil {
					log.Printf("join table failed: %v", err)
				}
			}
			t.notify()
		}).
		OnDisconnected(func(reason string, _ *websocket.Client) {
			if cfg.OnDisconnected != nil {
				cfg.OnDisconnected(reason)
			}
		}).
		OnPlayerJoinedTable(func(ev protocol.PlayerJoinedTable, _ *websocket.Client) { t.fold(ev) }).
		OnPlayerLeftTable(func(ev protocol.PlayerLeftTable, _ *websocket.Client) { t.fold(ev) }).
		OnMatchStarted(func(ev protocol.MatchStarted, _ *websocket.Client) { t.fold(ev) }).
		OnTrumpRevealed(func(ev protocol.TrumpRevealed, _ *websocket.Client) { t.fold(ev) }).
		OnBoardCardsDealt(func(ev protocol.BoardCardsDealt, _ *websocket.Client) { t.fold(ev) }).
		OnCardPlayed(func(ev protocol.CardPlayed, _ *websocket.Client) { t.fold(ev) }).
		OnCardsTaken(func(ev protocol.CardsTaken, _ *websocket.Client) { t.fold(ev) }).
		OnPlayerConfirmed(func(ev protocol.PlayerConfirmed, _ *websocket.Client) { t.fold(ev) }).
		OnTimedOut(func(ev protocol.TimedOut, _ *websocket.Client) { t.fold(ev) }).
		OnTrickCompleted(func(ev protocol.TrickCompleted, _ *websocket.Client) { t.fold(ev) }).
		OnGameCompleted(func(ev protocol.GameCompleted, _ *websocket.Client) { t.fold(ev) }).
		OnMatchCompleted(func(ev protocol.MatchCompleted, _ *websocket.Client) { t.fold(ev) }).
		OnGameAborted(func(ev protocol.GameAborted, _ *websocket.Client) { t.fold(ev) }).
		OnMatchAborted(func(ev protocol.MatchAborted, _ *websocket.Client) { t.fold(ev) }).
		OnCardsDealt(func(ev protocol.CardsDealt, _ *websocket.Client) { t.fold(ev) }).
		OnDeckShuffled(func(ev protocol.DeckShuffled, _ *websocket.Client) { t.fold(ev) })

	ws, err := builder.Dial(cfg.RoomID, cfg.Host, cfg.Secure)
	if err != nil {
		return nil, err
	}
	t.ws = ws
	return t, nil
}

// fold applies one event to the room and notifies the consumer. Events
// arriving before the snapshot are dropped; the snapshot that follows
// already includes their effect.
func (t *Client) fold(event protocol.Event) {
	t.mu.Lock()
	if t.room == nil {
		t.mu.Unlock()
		return
	}
	t.reducer.Apply(t.room, event)
	t.mu.Unlock()
	t.notify()
}

func (t *Client) notify() {
	if t.cfg.OnRoomUpdate == nil {
		return
	}
	t.mu.RLock()
	room := t.room
	t.mu.RUnlock()
	if room != nil {
		t.cfg.OnRoomUpdate(room, t)
	}
}

// Room returns the current snapshot, or nil before Connected arrives. The
// returned value is shared with the dispatch goroutine and must not be
// mutated.
func (t *Client) Room() *model.Room {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.room
}

// RoomJSON serializes the current snapshot under the lock, for callers on
// other goroutines that want a stable copy.
func (t *Client) RoomJSON() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.room == nil {
		return nil, fmt.Errorf("table: no room snapshot yet")
	}
	return json.MarshalIndent(t.room, "", "  ")
}

// FindHandCard looks up a card in the local player's hand by reference.
func (t *Client) FindHandCard(ref model.CardID) (model.Card, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.room == nil {
		return model.Card{}, false
	}
	seat := t.room.MySeat()
	if seat == nil {
		return model.Card{}, false
	}
	for _, card := range seat.Hand {
		if card.Ref == ref {
			return card, true
		}
	}
	return model.Card{}, false
}

// FindBoardCard looks up a card on the board by reference.
func (t *Client) FindBoardCard(ref model.CardID) (model.Card, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.room == nil {
		return model.Card{}, false
	}
	for _, bc := range t.room.Board {
		if bc.Card.Ref == ref {
			return bc.Card, true
		}
	}
	return model.Card{}, false
}

// State returns the lifecycle state of the underlying connection.
func (t *Client) State() websocket.State {
	return t.ws.State()
}

// Me returns the authenticated local user, or nil before authentication.
func (t *Client) Me() *model.User {
	return t.ws.User()
}

// Close tears down the connection.
func (t *Client) Close() error {
	return t.ws.Close()
}

// JoinTable asks for a seat at the table.
func (t *Client) JoinTable() error {
	return t.ws.JoinTable()
}

// LeaveTable gives up the seat.
func (t *Client) LeaveTable() error {
	return t.ws.LeaveTable()
}

// StartMatch asks to start a match at the given game.
func (t *Client) StartMatch(gameType model.GameType) error {
	return t.ws.StartMatch(gameType)
}

// ShuffleDeck resolves a ShuffleDeck action.
func (t *Client) ShuffleDeck() error {
	return t.ws.ShuffleDeck()
}

// Ok resolves a Confirm action.
func (t *Client) Ok() error {
	return t.ws.Ok()
}

// PlayCard plays a card from the local hand.
func (t *Client) PlayCard(card model.Card) error {
	return t.ws.PlayCard(card)
}

// TakeCards plays a card and captures cards from the board.
func (t *Client) TakeCards(card model.Card, take []model.Card) error {
	return t.ws.TakeCards(card, take)
}
