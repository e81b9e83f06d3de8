package deck

import "fmt"

// Rank represents a card rank in the liar's deck. There are no suits: only
// the rank matters for truthfulness, and Jokers are wild.
type Rank int

const (
	Ace Rank = iota
	King
	Queen
	Joker
)

// TableRanks are the ranks a round's table card may take. Jokers are never
// the table card.
var TableRanks = []Rank{Ace, King, Queen}

// String returns the wire representation of a rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "Ace"
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Joker:
		return "Joker"
	default:
		return "?"
	}
}

// IsWild returns true if the rank counts as any table card
func (r Rank) IsWild() bool {
	return r == Joker
}

// ParseRank parses a wire representation back into a Rank
func ParseRank(s string) (Rank, error) {
	switch s {
	case "Ace":
		return Ace, nil
	case "King":
		return King, nil
	case "Queen":
		return Queen, nil
	case "Joker":
		return Joker, nil
	default:
		return 0, fmt.Errorf("unknown rank: %q", s)
	}
}

// MarshalJSON encodes the rank as its wire string (e.g. "Ace")
func (r Rank) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON decodes a rank from its wire string
func (r *Rank) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("rank must be a JSON string, got %s", data)
	}
	parsed, err := ParseRank(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
