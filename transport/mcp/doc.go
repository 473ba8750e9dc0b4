// Package mcp exposes a table connection as a set of MCP tools so an agent
// can sit at a table and play.
//
// The tools map one-to-one onto the outbound intents plus a room_state
// inspection tool:
//   - room_state: current room snapshot as JSON
//   - join_table / leave_table: seat management
//   - start_match: begin a match at Briscola, Scopa, or Tressette
//   - play_card / take_cards: card play by reference id
//   - confirm / shuffle_deck: resolve pending actions
//
// The server never checks move legality; the remote game server is the
// authority and answers illegal intents with corrective events, which show
// up in the next room_state call.
package mcp
