package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/denarigame/denari-go/game/model"
	"github.com/denarigame/denari-go/protocol"
)

const testTimeout = 2 * time.Second

// newGameServer starts a websocket double on /play/{roomID} and runs the
// given script against each accepted connection.
func newGameServer(t *testing.T, script func(*websocket.Conn)) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	router := mux.NewRouter()
	router.HandleFunc("/play/{roomID}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["roomID"] == "" {
			http.Error(w, "missing room", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		script(conn)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

// expectKind reads one frame from the server side and asserts its
// messageType.
func expectKind(t *testing.T, conn *websocket.Conn, want string) map[string]interface{} {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(testTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	var frame map[string]interface{}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("server decode %s: %v", data, err)
	}
	if got, _ := frame["messageType"].(string); got != want {
		t.Fatalf("server got %q frame, want %q", got, want)
	}
	return frame
}

func serverSend(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Errorf("server write: %v", err)
	}
}

func awaitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestSendWhileIdle(t *testing.T) {
	client := NewBuilder().Build()

	err := client.Send(protocol.JoinTableMessage())
	var notConnected *NotConnectedError
	if !errors.As(err, &notConnected) {
		t.Fatalf("got %v, want NotConnectedError", err)
	}
	if notConnected.State != StateIdle {
		t.Errorf("error state = %s, want Idle", notConnected.State)
	}
	if got := err.Error(); got != "not connected, status is: Idle" {
		t.Errorf("error message = %q", got)
	}
}

func TestLifecycleToJoined(t *testing.T) {
	host := newGameServer(t, func(conn *websocket.Conn) {
		frame := expectKind(t, conn, "Authenticate")
		if token, _ := frame["authToken"].(string); token != "tok-1" {
			t.Errorf("authToken = %q, want tok-1", token)
		}
		serverSend(t, conn, `{"messageType":"Authenticated","user":{"id":"u1","name":"Ada"}}`)

		expectKind(t, conn, "Connect")
		serverSend(t, conn, `{"messageType":"Connected","room":{"me":"u1","seats":[{"index":0,"hand":[],"pile":[]}],"deck":[],"board":[],"players":{}}}`)

		expectKind(t, conn, "JoinTable")
		serverSend(t, conn, `{"messageType":"GameEvent","event":{"eventType":"PlayerJoinedTable","user":{"id":"u1","name":"Ada"},"seat":0}}`)

		// Hold the connection open until the client is done asserting.
		conn.SetReadDeadline(time.Now().Add(testTimeout))
		conn.ReadMessage()
	})

	states := make(chan State, 4)
	joined := make(chan struct{})

	client, err := NewBuilder().
		OnReady(func(c *Client) {
			states <- c.State()
			c.Authenticate("tok-1")
		}).
		OnAuthenticated(func(user model.User, c *Client) {
			if user.Name != "Ada" {
				t.Errorf("authenticated as %q, want Ada", user.Name)
			}
			states <- c.State()
			c.Connect()
		}).
		OnConnected(func(room model.Room, c *Client) {
			if room.Me != "u1" {
				t.Errorf("room.me = %q, want u1", room.Me)
			}
			states <- c.State()
			c.JoinTable()
		}).
		OnPlayerJoinedTable(func(ev protocol.PlayerJoinedTable, c *Client) {
			states <- c.State()
			close(joined)
		}).
		Dial("room-1", host, false)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	awaitSignal(t, joined, "join")

	want := []State{StateOpen, StateAuthenticated, StateRoomConnected, StateJoined}
	for i, s := range want {
		if got := <-states; got != s {
			t.Errorf("state %d = %s, want %s", i, got, s)
		}
	}
	if user := client.User(); user == nil || user.ID != "u1" {
		t.Errorf("User() = %v, want u1", user)
	}
}

func TestOtherPlayerJoinDoesNotPromote(t *testing.T) {
	host := newGameServer(t, func(conn *websocket.Conn) {
		expectKind(t, conn, "Authenticate")
		serverSend(t, conn, `{"messageType":"Authenticated","user":{"id":"u1","name":"Ada"}}`)
		expectKind(t, conn, "Connect")
		serverSend(t, conn, `{"messageType":"Connected","room":{"me":"u1","seats":[],"deck":[],"board":[],"players":{}}}`)
		serverSend(t, conn, `{"messageType":"GameEvent","event":{"eventType":"PlayerJoinedTable","user":{"id":"u2","name":"Bea"},"seat":1}}`)

		conn.SetReadDeadline(time.Now().Add(testTimeout))
		conn.ReadMessage()
	})

	sawJoin := make(chan struct{})
	client, err := NewBuilder().
		OnReady(func(c *Client) { c.Authenticate("tok") }).
		OnAuthenticated(func(_ model.User, c *Client) { c.Connect() }).
		OnPlayerJoinedTable(func(ev protocol.PlayerJoinedTable, c *Client) {
			if got := c.State(); got != StateRoomConnected {
				t.Errorf("state after foreign join = %s, want RoomConnected", got)
			}
			close(sawJoin)
		}).
		Dial("room-1", host, false)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	awaitSignal(t, sawJoin, "foreign join event")
}

func TestPingAnsweredWithPong(t *testing.T) {
	pong := make(chan struct{})
	host := newGameServer(t, func(conn *websocket.Conn) {
		serverSend(t, conn, `{"messageType":"Ping"}`)
		expectKind(t, conn, "Pong")
		close(pong)

		conn.SetReadDeadline(time.Now().Add(testTimeout))
		conn.ReadMessage()
	})

	client, err := NewBuilder().Dial("room-1", host, false)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	awaitSignal(t, pong, "pong")
}

func TestMalformedFramesAreDiscarded(t *testing.T) {
	host := newGameServer(t, func(conn *websocket.Conn) {
		serverSend(t, conn, `not even json`)
		serverSend(t, conn, `{"messageType":"Teleport"}`)
		serverSend(t, conn, `{"messageType":"GameEvent","event":{"eventType":"TrumpRevealed","card":{"ref":3}}}`)
		serverSend(t, conn, `{"messageType":"GameEvent","event":{"eventType":"DeckShuffled","numberOfCards":40}}`)

		conn.SetReadDeadline(time.Now().Add(testTimeout))
		conn.ReadMessage()
	})

	shuffled := make(chan struct{})
	client, err := NewBuilder().
		OnTrumpRevealed(func(protocol.TrumpRevealed, *Client) {
			t.Error("hidden trump card reached dispatch")
		}).
		OnDeckShuffled(func(ev protocol.DeckShuffled, _ *Client) {
			if ev.NumberOfCards != 40 {
				t.Errorf("numberOfCards = %d, want 40", ev.NumberOfCards)
			}
			close(shuffled)
		}).
		Dial("room-1", host, false)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	// The connection survives the bad frames and delivers the valid one.
	awaitSignal(t, shuffled, "deck shuffle event")
}

func TestDisconnectedReasonReachesHandler(t *testing.T) {
	host := newGameServer(t, func(conn *websocket.Conn) {
		serverSend(t, conn, `{"messageType":"Disconnected","reason":"room closed"}`)
		deadline := time.Now().Add(time.Second)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	})

	reasons := make(chan string, 2)
	client, err := NewBuilder().
		OnDisconnected(func(reason string, _ *Client) { reasons <- reason }).
		Dial("room-1", host, false)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	select {
	case reason := <-reasons:
		if reason != "room closed" {
			t.Errorf("reason = %q, want \"room closed\"", reason)
		}
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for disconnect")
	}

	if got := client.State(); got != StateClosed {
		t.Errorf("state = %s, want Closed", got)
	}

	// Closed is terminal; sends fail and the handler never fires twice.
	var notConnected *NotConnectedError
	if err := client.Ok(); !errors.As(err, &notConnected) {
		t.Errorf("send after close: got %v, want NotConnectedError", err)
	}
	select {
	case <-reasons:
		t.Error("disconnected handler fired more than once")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseWithSilentPeer(t *testing.T) {
	done := make(chan struct{})
	host := newGameServer(t, func(conn *websocket.Conn) {
		// Never read: the close frame goes unanswered.
		<-done
	})
	t.Cleanup(func() { close(done) })

	reasons := make(chan string, 1)
	client, err := NewBuilder().
		OnDisconnected(func(reason string, _ *Client) { reasons <- reason }).
		Dial("room-1", host, false)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case <-reasons:
	case <-time.After(testTimeout):
		t.Fatal("read loop never drained after close")
	}
	if got := client.State(); got != StateClosed {
		t.Errorf("state = %s, want Closed", got)
	}
	var notConnected *NotConnectedError
	if err := client.Ok(); !errors.As(err, &notConnected) {
		t.Errorf("send after close: got %v, want NotConnectedError", err)
	}
}

func TestDialRejectsReuse(t *testing.T) {
	host := newGameServer(t, func(conn *websocket.Conn) {
		conn.SetReadDeadline(time.Now().Add(testTimeout))
		conn.ReadMessage()
	})

	client, err := NewBuilder().Dial("room-1", host, false)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if err := client.Dial("room-1", host, false); err == nil {
		t.Error("second dial on a live client succeeded")
	}
}
