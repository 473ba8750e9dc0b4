package model

import "fmt"

// CardRank enumerates the ten ranks of an Italian 40-card deck.
type CardRank string

const (
	Asso     CardRank = "Asso"
	Due      CardRank = "Due"
	Tre      CardRank = "Tre"
	Quattro  CardRank = "Quattro"
	Cinque   CardRank = "Cinque"
	Sei      CardRank = "Sei"
	Sette    CardRank = "Sette"
	Fante    CardRank = "Fante"
	Cavallo  CardRank = "Cavallo"
	Re       CardRank = "Re"
)

// CardSuit enumerates the four Italian suits.
type CardSuit string

const (
	Denari  CardSuit = "Denari"
	Coppe   CardSuit = "Coppe"
	Spade   CardSuit = "Spade"
	Bastoni CardSuit = "Bastoni"
)

// CardID identifies a physical card for the lifetime of a room. Two Card
// values with the same ID denote the same card even when one side is hidden
// from this client.
type CardID int

// Card is either visible (rank and suit known) or hidden (reference only).
// A hidden card serializes as {"ref":n} with no rank or suit.
type Card struct {
	Ref  CardID   `json:"ref"`
	Rank CardRank `json:"rank,omitempty"`
	Suit CardSuit `json:"suit,omitempty"`
}

// VisibleCard builds a card whose face is known to this client.
func VisibleCard(rank CardRank, suit CardSuit, ref CardID) Card {
	return Card{Ref: ref, Rank: rank, Suit: suit}
}

// HiddenCard builds a card known only by its reference.
func HiddenCard(ref CardID) Card {
	return Card{Ref: ref}
}

// Visible reports whether the card's face is known.
func (c Card) Visible() bool {
	return c.Rank != "" && c.Suit != ""
}

// Hide strips the face of the card, keeping only its reference.
func (c Card) Hide() Card {
	return Card{Ref: c.Ref}
}

func (c Card) String() string {
	if !c.Visible() {
		return fmt.Sprintf("card#%d", c.Ref)
	}
	return fmt.Sprintf("%s di %s (#%d)", c.Rank, c.Suit, c.Ref)
}
