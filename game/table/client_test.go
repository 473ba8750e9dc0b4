package table

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	gws "github.com/gorilla/websocket"

	"github.com/denarigame/denari-go/game/model"
	"github.com/denarigame/denari-go/transport/websocket"
)

const testTimeout = 2 * time.Second

// newTableServer runs a websocket double that performs the server side of
// the full handshake and then hands the connection to the script.
func newTableServer(t *testing.T, autoJoin bool, script func(*gws.Conn)) string {
	t.Helper()

	upgrader := gws.Upgrader{}
	router := mux.NewRouter()
	router.HandleFunc("/play/{roomID}", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		readIntent(t, conn, "Authenticate")
		send(t, conn, `{"messageType":"Authenticated","user":{"id":"u1","name":"Ada"}}`)
		readIntent(t, conn, "Connect")
		send(t, conn, `{"messageType":"Connected","room":{"me":"u1","seats":[{"index":0,"hand":[],"pile":[]},{"index":1,"hand":[],"pile":[]}],"deck":[],"board":[],"players":{}}}`)
		if autoJoin {
			readIntent(t, conn, "JoinTable")
			send(t, conn, `{"messageType":"GameEvent","event":{"eventType":"PlayerJoinedTable","user":{"id":"u1","name":"Ada"},"seat":0}}`)
		}
		script(conn)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func readIntent(t *testing.T, conn *gws.Conn, want string) map[string]interface{} {
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
		t.Fatalf("server got %q intent, want %q", got, want)
	}
	return frame
}

func send(t *testing.T, conn *gws.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(gws.TextMessage, []byte(frame)); err != nil {
		t.Errorf("server write: %v", err)
	}
}

func hold(conn *gws.Conn) {
	conn.SetReadDeadline(time.Now().Add(testTimeout))
	conn.ReadMessage()
}

func TestConnectRequiresRoomID(t *testing.T) {
	if _, err := Connect(Config{Host: "localhost:9090"}); err == nil {
		t.Error("Connect without a room id succeeded")
	}
}

func TestConnectAutoJoinFlow(t *testing.T) {
	host := newTableServer(t, true, func(conn *gws.Conn) {
		send(t, conn, `{"messageType":"GameEvent","event":{"eventType":"MatchStarted","gameType":"Briscola","matchScores":[{"playerIds":["u1"],"points":0}]}}`)
		hold(conn)
	})

	updates := make(chan *model.Room, 8)
	client, err := Connect(Config{
		RoomID:    "room-1",
		Host:      host,
		AuthToken: "tok-1",
		AutoJoin:  true,
		OnRoomUpdate: func(room *model.Room, _ *Client) {
			updates <- room
		},
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	// First update is the snapshot itself.
	room := awaitUpdate(t, updates)
	if room.Me != "u1" {
		t.Fatalf("room.me = %q, want u1", room.Me)
	}

	// Second update folds the join, third the match start.
	room = awaitUpdate(t, updates)
	if occ := room.Seat(0).Occupant; occ == nil || occ.Player.ID != "u1" {
		t.Fatalf("seat 0 after join = %+v, want u1", occ)
	}
	room = awaitUpdate(t, updates)
	if occ := room.Seat(0).Occupant; occ.State != model.Playing {
		t.Errorf("seat 0 state = %s, want Playing", occ.State)
	}
	if room.MatchInfo == nil || room.MatchInfo.GameType != model.Briscola {
		t.Errorf("matchInfo = %+v, want Briscola", room.MatchInfo)
	}

	if me := client.Me(); me == nil || me.ID != "u1" {
		t.Errorf("Me() = %v, want u1", me)
	}
	if got := client.State(); got != websocket.StateJoined {
		t.Errorf("state = %s, want Joined", got)
	}
}

func awaitUpdate(t *testing.T, updates <-chan *model.Room) *model.Room {
	t.Helper()
	select {
	case room := <-updates:
		return room
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for room update")
		return nil
	}
}

func TestFindCards(t *testing.T) {
	host := newTableServer(t, true, func(conn *gws.Conn) {
		send(t, conn, `{"messageType":"GameEvent","event":{"eventType":"DeckShuffled","numberOfCards":40}}`)
		send(t, conn, `{"messageType":"GameEvent","event":{"eventType":"CardsDealt","cards":[{"ref":1,"rank":"Asso","suit":"Denari"},{"ref":2,"rank":"Re","suit":"Coppe"}]}}`)
		send(t, conn, `{"messageType":"GameEvent","event":{"eventType":"BoardCardsDealt","cards":[{"ref":3,"rank":"Tre","suit":"Spade"}]}}`)
		hold(conn)
	})

	dealt := make(chan struct{}, 8)
	client, err := Connect(Config{
		RoomID:    "room-1",
		Host:      host,
		AuthToken: "tok-1",
		AutoJoin:  true,
		OnRoomUpdate: func(room *model.Room, _ *Client) {
			if len(room.Board) == 1 {
				dealt <- struct{}{}
			}
		},
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	select {
	case <-dealt:
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for deal")
	}

	if card, ok := client.FindHandCard(2); !ok || card.Rank != model.Re {
		t.Errorf("FindHandCard(2) = %v %v, want Re di Coppe", card, ok)
	}
	if _, ok := client.FindHandCard(99); ok {
		t.Error("FindHandCard(99) found a card")
	}
	if card, ok := client.FindBoardCard(3); !ok || card.Rank != model.Tre {
		t.Errorf("FindBoardCard(3) = %v %v, want Tre di Spade", card, ok)
	}

	data, err := client.RoomJSON()
	if err != nil {
		t.Fatalf("RoomJSON: %v", err)
	}
	var decoded model.Room
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("RoomJSON produced invalid JSON: %v", err)
	}
	if len(decoded.Seats) != 2 {
		t.Errorf("decoded seats = %d, want 2", len(decoded.Seats))
	}
}

func TestIntentsReachServer(t *testing.T) {
	host := newTableServer(t, false, func(conn *gws.Conn) {
		frame := readIntent(t, conn, "StartMatch")
		if got, _ := frame["gameType"].(string); got != "Scopa" {
			t.Errorf("gameType = %q, want Scopa", got)
		}
		readIntent(t, conn, "Ok")
		readIntent(t, conn, "LeaveTable")
		hold(conn)
	})

	connected := make(chan struct{})
	var once bool
	client, err := Connect(Config{
		RoomID:    "room-1",
		Host:      host,
		AuthToken: "tok-1",
		OnRoomUpdate: func(*model.Room, *Client) {
			if !once {
				once = true
				close(connected)
			}
		},
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	select {
	case <-connected:
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for snapshot")
	}

	if err := client.StartMatch(model.Scopa); err != nil {
		t.Fatalf("StartMatch: %v", err)
	}
	if err := client.Ok(); err != nil {
		t.Fatalf("Ok: %v", err)
	}
	if err := client.LeaveTable(); err != nil {
		t.Fatalf("LeaveTable: %v", err)
	}
}

func TestDisconnectReasonPassthrough(t *testing.T) {
	host := newTableServer(t, false, func(conn *gws.Conn) {
		send(t, conn, `{"messageType":"Disconnected","reason":"room closed"}`)
		deadline := time.Now().Add(time.Second)
		conn.WriteControl(gws.CloseMessage,
			gws.FormatCloseMessage(gws.CloseNormalClosure, ""), deadline)
	})

	reasons := make(chan string, 1)
	_, err := Connect(Config{
		RoomID:         "room-1",
		Host:           host,
		AuthToken:      "tok-1",
		OnDisconnected: func(reason string) { reasons <- reason },
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	select {
	case reason := <-reasons:
		if reason != "room closed" {
			t.Errorf("reason = %q, want \"room closed\"", reason)
		}
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for disconnect")
	}
}
