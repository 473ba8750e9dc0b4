package model

// GameType enumerates the games a match can be played at.
type GameType string

const (
	Briscola  GameType = "Briscola"
	Scopa     GameType = "Scopa"
	Tressette GameType = "Tressette"
)
