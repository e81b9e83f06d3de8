package deck

import rand "math/rand/v2"

// Fixed composition of the liar's deck.
const (
	NumAces   = 6
	NumKings  = 6
	NumQueens = 6
	NumJokers = 2

	// Size is the total card count; the multiset union of all hands, the
	// remaining deck and any pending play must always add up to it.
	Size = NumAces + NumKings + NumQueens + NumJokers
)

// Deck is a mutable multiset of ranks. The zero value is not usable; create
// one with New so it carries its random source.
type Deck struct {
	cards []Rank
	rng   *rand.Rand
}

// Build returns the fixed 20-card composition in canonical order
func Build() []Rank {
	cards := make([]Rank, 0, Size)
	for i := 0; i < NumAces; i++ {
		cards = append(cards, Ace)
	}
	for i := 0; i < NumKings; i++ {
		cards = append(cards, King)
	}
	for i := 0; i < NumQueens; i++ {
		cards = append(cards, Queen)
	}
	for i := 0; i < NumJokers; i++ {
		cards = append(cards, Joker)
	}
	return cards
}

// New creates a full deck backed by the given random source. The source is
// owned by the session; clients never influence it.
func New(rng *rand.Rand) *Deck {
	return &Deck{cards: Build(), rng: rng}
}

// Shuffle applies a Fisher-Yates permutation, uniform given a uniform source
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// DealN removes and returns the first n cards, mutating the deck in place.
// Callers must ensure enough cards remain; n is clamped to the deck size.
func (d *Deck) DealN(n int) []Rank {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	dealt := make([]Rank, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt
}

// Add returns cards to the deck (reclaiming hands between rounds)
func (d *Deck) Add(cards ...Rank) {
	d.cards = append(d.cards, cards...)
}

// Len returns the number of cards remaining
func (d *Deck) Len() int {
	return len(d.cards)
}

// Reset discards the current contents and rebuilds the fixed composition.
// Used as the documented fallback when reclaimed cards can no longer cover a
// full deal.
func (d *Deck) Reset() {
	d.cards = append(d.cards[:0], Build()...)
}
