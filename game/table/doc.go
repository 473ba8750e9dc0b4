// Package table reconstructs the state of one game table from the server's
// event stream.
//
// The Reducer folds each game event into a Room snapshot and owns every
// invariant of the room data model: seat indices are stable, a user occupies
// at most one seat, at most one occupant is Acting at a time, and a card
// reference never appears in two places at once. The reducer never computes
// game legality; it only reflects what the server said happened.
//
// The Client wires a websocket connection to the reducer: it authenticates,
// requests the room snapshot, optionally joins the table, applies every
// event, and notifies the consumer after each fold. Consumers read the Room
// through callback arguments and accessors and must not mutate it; only the
// reducer produces updated snapshots.
package table
