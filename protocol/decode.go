package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind reports a message or event kind that is not part of the
// catalogue. Asking Decode for an unregistered kind is a programming error;
// receiving one from the wire means the server speaks a newer protocol.
var ErrUnknownKind = errors.New("unknown message kind")

// SchemaViolationError reports inbound data that does not match the shape
// registered for its kind. Messages failing this way are discarded at the
// trust boundary and never reach dispatch or the reducer.
type SchemaViolationError struct {
	Kind   string
	Detail string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation in %s: %s", e.Kind, e.Detail)
}

// violation is a shorthand for building SchemaViolationError values.
func violation(kind, detail string) *SchemaViolationError {
	return &SchemaViolationError{Kind: kind, Detail: detail}
}

// decodeStrict validates that raw is a JSON object carrying every required
// field with a non-null value, then unmarshals it into T. Field type
// mismatches surface as SchemaViolationError; extra fields are tolerated so
// older clients keep working against newer servers.
func decodeStrict[T any](kind string, raw json.RawMessage, required ...string) (T, error) {
	var zero T

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, violation(kind, "not a JSON object")
	}
	for _, name := range required {
		if v, ok := fields[name]; !ok || string(v) == "null" {
			return zero, violation(kind, "missing required field "+name)
		}
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, violation(kind, err.Error())
	}
	return value, nil
}

// registry maps every message and event kind to its validating decoder.
// GameEvent is absent: it is a composite handled by ParseMessage.
var registry = map[string]func(json.RawMessage) (any, error){
	string(MessageAuthenticated): func(raw json.RawMessage) (any, error) {
		return decodeStrict[Authenticated](string(MessageAuthenticated), raw, "user")
	},
	string(MessageConnected): func(raw json.RawMessage) (any, error) {
		return decodeStrict[Connected](string(MessageConnected), raw, "room")
	},
	string(MessageDisconnected): func(raw json.RawMessage) (any, error) {
		return decodeStrict[Disconnected](string(MessageDisconnected), raw, "reason")
	},
	string(MessagePing): func(raw json.RawMessage) (any, error) {
		return decodeStrict[Ping](string(MessagePing), raw)
	},

	string(EventPlayerJoinedTable): func(raw json.RawMessage) (any, error) {
		return decodeStrict[PlayerJoinedTable](string(EventPlayerJoinedTable), raw, "user", "seat")
	},
	string(EventPlayerLeftTable): func(raw json.RawMessage) (any, error) {
		return decodeStrict[PlayerLeftTable](string(EventPlayerLeftTable), raw, "user", "seat")
	},
	string(EventMatchStarted): func(raw json.RawMessage) (any, error) {
		return decodeStrict[MatchStarted](string(EventMatchStarted), raw, "gameType", "matchScores")
	},
	string(EventTrumpRevealed): func(raw json.RawMessage) (any, error) {
		ev, err := decodeStrict[TrumpRevealed](string(EventTrumpRevealed), raw, "card")
		if err != nil {
			return nil, err
		}
		if !ev.Card.Visible() {
			return nil, violation(string(EventTrumpRevealed), "card must carry rank and suit")
		}
		return ev, nil
	},
	string(EventBoardCardsDealt): func(raw json.RawMessage) (any, error) {
		ev, err := decodeStrict[BoardCardsDealt](string(EventBoardCardsDealt), raw, "cards")
		if err != nil {
			return nil, err
		}
		for _, card := range ev.Cards {
			if !card.Visible() {
				return nil, violation(string(EventBoardCardsDealt), "board cards must carry rank and suit")
			}
		}
		return ev, nil
	},
	string(EventCardPlayed): func(raw json.RawMessage) (any, error) {
		ev, err := decodeStrict[CardPlayed](string(EventCardPlayed), raw, "playerId", "card")
		if err != nil {
			return nil, err
		}
		if !ev.Card.Visible() {
			return nil, violation(string(EventCardPlayed), "card must carry rank and suit")
		}
		return ev, nil
	},
	string(EventCardsTaken): func(raw json.RawMessage) (any, error) {
		ev, err := decodeStrict[CardsTaken](string(EventCardsTaken), raw, "playerId", "card", "taken")
		if err != nil {
			return nil, err
		}
		if !ev.Card.Visible() {
			return nil, violation(string(EventCardsTaken), "card must carry rank and suit")
		}
		return ev, nil
	},
	string(EventPlayerConfirmed): func(raw json.RawMessage) (any, error) {
		return decodeStrict[PlayerConfirmed](string(EventPlayerConfirmed), raw, "playerId")
	},
	string(EventTimedOut): func(raw json.RawMessage) (any, error) {
		return decodeStrict[TimedOut](string(EventTimedOut), raw, "playerId", "action")
	},
	string(EventTrickCompleted): func(raw json.RawMessage) (any, error) {
		return decodeStrict[TrickCompleted](string(EventTrickCompleted), raw, "winnerId")
	},
	string(EventGameCompleted): func(raw json.RawMessage) (any, error) {
		return decodeStrict[GameCompleted](string(EventGameCompleted), raw, "scores", "matchScores")
	},
	string(EventMatchCompleted): func(raw json.RawMessage) (any, error) {
		return decodeStrict[MatchCompleted](string(EventMatchCompleted), raw, "winnerIds")
	},
	string(EventGameAborted): func(raw json.RawMessage) (any, error) {
		return decodeStrict[GameAborted](string(EventGameAborted), raw, "reason")
	},
	string(EventMatchAborted): func(raw json.RawMessage) (any, error) {
		return decodeStrict[MatchAborted](string(EventMatchAborted), raw, "reason")
	},
	string(EventCardsDealt): func(raw json.RawMessage) (any, error) {
		return decodeStrict[CardsDealt](string(EventCardsDealt), raw, "cards")
	},
	string(EventDeckShuffled): func(raw json.RawMessage) (any, error) {
		return decodeStrict[DeckShuffled](string(EventDeckShuffled), raw, "numberOfCards")
	},
}

// Decode validates raw against the shape registered for kind and returns the
// typed value. The value is the input reinterpreted, not a transformation of
// it. Unregistered kinds fail with ErrUnknownKind.
func Decode(kind string, raw json.RawMessage) (any, error) {
	dec, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return dec(raw)
}

// envelopeDetail names what went wrong with an envelope unmarshal: a type
// mismatch on a tag field reads differently from a frame that is not an
// object at all.
func envelopeDetail(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return "field " + typeErr.Field + " has the wrong type"
	}
	return "not a JSON object"
}

// ParseMessage decodes one inbound frame into its typed message. GameEvent
// frames are unwrapped and their event decoded in the same step, so callers
// only ever see fully validated values.
func ParseMessage(data []byte) (Message, error) {
	var envelope struct {
		MessageType *MessageType    `json:"messageType"`
		Event       json.RawMessage `json:"event"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, violation("InboxMessage", envelopeDetail(err))
	}
	if envelope.MessageType == nil {
		return nil, violation("InboxMessage", "missing required field messageType")
	}

	if *envelope.MessageType == MessageGameEvent {
		if len(envelope.Event) == 0 || string(envelope.Event) == "null" {
			return nil, violation(string(MessageGameEvent), "missing required field event")
		}
		event, err := ParseEvent(envelope.Event)
		if err != nil {
			return nil, err
		}
		return GameEventMessage{Event: event}, nil
	}

	value, err := Decode(string(*envelope.MessageType), data)
	if err != nil {
		return nil, err
	}
	return value.(Message), nil
}

// ParseEvent decodes the payload of a GameEvent message.
func ParseEvent(data []byte) (Event, error) {
	var envelope struct {
		EventType *EventType `json:"eventType"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, violation("GameEvent", envelopeDetail(err))
	}
	if envelope.EventType == nil {
		return nil, violation("GameEvent", "missing required field eventType")
	}

	value, err := Decode(string(*envelope.EventType), data)
	if err != nil {
		return nil, err
	}
	return value.(Event), nil
}
