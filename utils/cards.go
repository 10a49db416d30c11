package utils

import (
	"math/rand"
	"strings"
	"time"
)

// Rank is a playing card rank: "2".."10", "J", "Q", "K" or "A"
type Rank string

// Value returns the blackjack value of the rank, counting an Ace as 11
func (r Rank) Value() int {
	if value, exists := CardRanks[r]; exists {
		return value
	}
	return 0
}

// IsAce checks if the rank is an Ace
func (r Rank) IsAce() bool {
	return r == "A"
}

// Valid reports whether r is one of the 13 known ranks
func (r Rank) Valid() bool {
	_, exists := CardRanks[r]
	return exists
}

// Deck is a source of cards.
type Deck interface {
	Draw() Rank
}

// RandomDeck draws uniformly from the 13 ranks with replacement.
// There is no shoe to deplete, so it never needs reshuffling.
type RandomDeck struct {
	rng *rand.Rand
}

// NewRandomDeck creates a deck with its own random source
func NewRandomDeck() *RandomDeck {
	return &RandomDeck{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Draw returns one rank, independent of every previous draw
func (d *RandomDeck) Draw() Rank {
	return CardRankOrder[d.rng.Intn(len(CardRankOrder))]
}

// StackedDeck deals a fixed sequence of ranks and then falls back to a
// random deck. Used to replay or script rounds.
type StackedDeck struct {
	cards    []Rank
	next     int
	fallback Deck
}

// NewStackedDeck creates a deck that deals cards in the given order
func NewStackedDeck(cards ...Rank) *StackedDeck {
	return &StackedDeck{cards: cards, fallback: NewRandomDeck()}
}

// Draw deals the next stacked card
func (d *StackedDeck) Draw() Rank {
	if d.next >= len(d.cards) {
		return d.fallback.Draw()
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// Remaining returns how many stacked cards have not been dealt
func (d *StackedDeck) Remaining() int {
	return len(d.cards) - d.next
}

// Hand is an ordered sequence of cards. Order only matters for display.
type Hand []Rank

// ScoreHand calculates the blackjack value of a hand. Every Ace starts at 11
// and is dropped to 1, one at a time, while the hand would otherwise bust.
func ScoreHand(hand Hand) int {
	total := 0
	aces := 0

	for _, card := range hand {
		if card.IsAce() {
			aces++
		}
		total += card.Value()
	}

	for aces > 0 && total > BlackjackTarget {
		total -= 10
		aces--
	}

	return total
}

// FormatHand renders a hand as comma-separated ranks
func FormatHand(hand Hand) string {
	cards := make([]string, len(hand))
	for i, card := range hand {
		cards[i] = string(card)
	}
	return strings.Join(cards, ", ")
}

// Value returns the blackjack value of the hand
func (h Hand) Value() int {
	return ScoreHand(h)
}

// String returns string representation of the hand
func (h Hand) String() string {
	return FormatHand(h)
}

// IsBlackjack checks if the hand is a natural blackjack (21 with 2 cards)
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == BlackjackTarget
}

// IsBusted checks if the hand is over 21
func (h Hand) IsBusted() bool {
	return h.Value() > BlackjackTarget
}

// IsSoft checks if the hand still counts an Ace as 11
func (h Hand) IsSoft() bool {
	hard := 0
	hasAce := false
	for _, card := range h {
		if card.IsAce() {
			hasAce = true
			hard++
		} else {
			hard += card.Value()
		}
	}
	return hasAce && hard+10 <= BlackjackTarget
}
