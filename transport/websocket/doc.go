// Package websocket provides the WebSocket transport for a table connection.
//
// The package implements:
//   - Connection lifecycle: Idle → Open → Authenticated → RoomConnected →
//     Joined → Closed
//   - Synchronous dispatch of validated inbound messages to registered
//     handlers
//   - Keep-alive: inbound Ping frames are answered with Pong before anything
//     else runs
//   - Typed send helpers for the ten outbound intents
//
// Dispatch model:
//
// One goroutine per connection reads frames, validates them through the
// protocol package, and runs the matching handler to completion before the
// next frame is processed. Handlers therefore never race each other, but a
// handler that blocks stalls all further inbound processing for that
// connection, including Pong replies. Schedule long work elsewhere.
//
// Usage:
//
//	client, err := websocket.NewBuilder().
//		OnReady(func(c *websocket.Client) { c.Authenticate(token) }).
//		OnAuthenticated(func(user model.User, c *websocket.Client) { c.Connect() }).
//		OnConnected(func(room model.Room, c *websocket.Client) { c.JoinTable() }).
//		Dial("room-1", "localhost:9090", false)
//
// Handlers left unregistered default to logging the message. Closed is a
// terminal state: the client never reconnects, resequences, or buffers.
// Consumers that want back in open a fresh client and receive a new
// Connected snapshot.
package websocket
