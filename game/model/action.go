package model

// ActionType tags the action a player is required to resolve.
type ActionType string

const (
	ActionPlayCard    ActionType = "PlayCard"
	ActionShuffleDeck ActionType = "ShuffleDeck"
	ActionConfirm     ActionType = "Confirm"
)

// PlayContext qualifies a PlayCard action with the game being played and,
// for trump games, the trump suit. Scopa has no trump; tressette may or may
// not declare one.
type PlayContext struct {
	GameType GameType `json:"type"`
	Trump    CardSuit `json:"trump,omitempty"`
}

// Action is the server-assigned action an Acting occupant must resolve.
// Context is present only for PlayCard actions.
type Action struct {
	Type    ActionType   `json:"type"`
	Context *PlayContext `json:"context,omitempty"`
}
