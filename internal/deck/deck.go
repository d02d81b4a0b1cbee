// Package deck models the standard 78-card tarot deck and card draws.
package deck

import (
	"fmt"
	"math/rand"
	"strings"
)

var majorArcana = []string{
	"The Fool", "The Magician", "The High Priestess", "The Empress",
	"The Emperor", "The Hierophant", "The Lovers", "The Chariot",
	"Strength", "The Hermit", "Wheel of Fortune", "Justice",
	"The Hanged Man", "Death", "Temperance", "The Devil",
	"The Tower", "The Star", "The Moon", "The Sun",
	"Judgement", "The World",
}

var suits = []string{"Wands", "Cups", "Swords", "Pentacles"}

var ranks = []string{
	"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Page", "Knight", "Queen", "King",
}

// Deck is a fixed set of card names and a source of randomness for draws.
type Deck struct {
	cards []string
	index map[string]int
	rng   *rand.Rand
}

// New returns the full 78-card deck seeded from the given source. A fixed
// seed yields reproducible draws.
func New(seed int64) *Deck {
	cards := make([]string, 0, 78)
	cards = append(cards, majorArcana...)
	for _, suit := range suits {
		for _, rank := range ranks {
			cards = append(cards, fmt.Sprintf("%s of %s", rank, suit))
		}
	}

	index := make(map[string]int, len(cards))
	for i, c := range cards {
		index[strings.ToLower(c)] = i
	}

	return &Deck{
		cards: cards,
		index: index,
		rng:   rand.New(rand.NewSource(seed)), // #nosec G404 -- not used for secrets
	}
}

// Size returns the number of cards in the deck.
func (d *Deck) Size() int {
	return len(d.cards)
}

// Cards returns a copy of every card name in canonical order.
func (d *Deck) Cards() []string {
	out := make([]string, len(d.cards))
	copy(out, d.cards)
	return out
}

// Draw returns n distinct cards, drawn without replacement. n is clamped to
// the deck size; n <= 0 returns nil.
func (d *Deck) Draw(n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(d.cards) {
		n = len(d.cards)
	}
	perm := d.rng.Perm(len(d.cards))
	drawn := make([]string, n)
	for i := 0; i < n; i++ {
		drawn[i] = d.cards[perm[i]]
	}
	return drawn
}

// Canonical resolves a case-insensitive card name to its canonical form.
func (d *Deck) Canonical(name string) (string, bool) {
	i, ok := d.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return d.cards[i], true
}

// IsCard reports whether name refers to a card in the deck.
func (d *Deck) IsCard(name string) bool {
	_, ok := d.Canonical(name)
	return ok
}
