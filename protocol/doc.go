// Package protocol defines the wire protocol spoken over a table connection.
//
// The protocol is JSON text frames in both directions:
//   - Inbound: {messageType: ..., ...} with five message kinds; GameEvent
//     messages wrap one of sixteen event shapes under "event".
//   - Outbound: {messageType: ..., ...} with ten intent kinds built by the
//     *Message constructors and serialized by Encode.
//
// ParseMessage and Decode form the single trust boundary of the SDK: every
// inbound frame is validated against the closed shape catalogue before any
// other package sees it. Validation failures are SchemaViolationError;
// kinds missing from the catalogue are ErrUnknownKind. Everything a decoder
// returns is fully typed and needs no further runtime checks.
package protocol
