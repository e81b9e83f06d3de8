package game

import (
	"sort"

	"liarsbar/internal/deck"
)

// Player is one seat in a session. Seats are created at join time and the
// rotation order never changes afterwards; elimination and disconnection
// only clear the Alive flag so that turn order and card accounting stay
// stable for the rest of the game.
type Player struct {
	ID            string
	Name          string
	Hand          []deck.Rank
	RouletteCount int
	Alive         bool
}

// holdsIndices reports whether every index points at a distinct card in the
// player's current hand.
func (p *Player) holdsIndices(indices []int) bool {
	if len(indices) == 0 {
		return false
	}
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(p.Hand) || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// removeCards extracts the cards at the given indices from the hand. Indices
// must already be validated; removal walks them highest-first so earlier
// removals cannot shift later positions.
func (p *Player) removeCards(indices []int) []deck.Rank {
	cards := make([]deck.Rank, len(indices))
	for i, idx := range indices {
		cards[i] = p.Hand[idx]
	}

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, idx := range sorted {
		p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	}

	return cards
}
