package game

import "liarsbar/internal/deck"

// wasTruthful reports whether a challenged play was honest: every card must
// be either a Joker or exactly the table rank.
func wasTruthful(cards []deck.Rank, tableRank deck.Rank) bool {
	for _, c := range cards {
		if !c.IsWild() && c != tableRank {
			return false
		}
	}
	return true
}
