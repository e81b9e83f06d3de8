package deck

import (
	"testing"

	"liarsbar/internal/randutil"
)

func countRanks(cards []Rank) map[Rank]int {
	counts := make(map[Rank]int)
	for _, c := range cards {
		counts[c]++
	}
	return counts
}

func TestBuildComposition(t *testing.T) {
	cards := Build()

	if len(cards) != Size {
		t.Fatalf("Build() returned %d cards, want %d", len(cards), Size)
	}

	counts := countRanks(cards)
	expected := map[Rank]int{
		Ace:   NumAces,
		King:  NumKings,
		Queen: NumQueens,
		Joker: NumJokers,
	}
	for rank, want := range expected {
		if counts[rank] != want {
			t.Errorf("Build() has %d %s cards, want %d", counts[rank], rank, want)
		}
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	d := New(randutil.New(42))
	d.Shuffle()

	if d.Len() != Size {
		t.Fatalf("deck has %d cards after shuffle, want %d", d.Len(), Size)
	}

	counts := countRanks(d.cards)
	if counts[Ace] != NumAces || counts[King] != NumKings ||
		counts[Queen] != NumQueens || counts[Joker] != NumJokers {
		t.Errorf("shuffle changed the composition: %v", counts)
	}
}

func TestShuffleDeterministicForSeed(t *testing.T) {
	a := New(randutil.New(7))
	b := New(randutil.New(7))
	a.Shuffle()
	b.Shuffle()

	for i := range a.cards {
		if a.cards[i] != b.cards[i] {
			t.Fatalf("same seed produced different orders at index %d", i)
		}
	}
}

func TestDealN(t *testing.T) {
	d := New(randutil.New(1))

	hand := d.DealN(5)
	if len(hand) != 5 {
		t.Errorf("DealN(5) returned %d cards", len(hand))
	}
	if d.Len() != Size-5 {
		t.Errorf("deck has %d cards after deal, want %d", d.Len(), Size-5)
	}

	// Clamped when the deck runs short
	rest := d.DealN(100)
	if len(rest) != Size-5 {
		t.Errorf("DealN(100) returned %d cards, want %d", len(rest), Size-5)
	}
	if d.Len() != 0 {
		t.Errorf("deck should be empty, has %d", d.Len())
	}
}

func TestAddAndReset(t *testing.T) {
	d := New(randutil.New(1))
	hand := d.DealN(5)

	d.Add(hand...)
	if d.Len() != Size {
		t.Errorf("deck has %d cards after reclaiming, want %d", d.Len(), Size)
	}

	d.DealN(13)
	d.Reset()
	if d.Len() != Size {
		t.Errorf("deck has %d cards after Reset, want %d", d.Len(), Size)
	}
	counts := countRanks(d.cards)
	if counts[Joker] != NumJokers {
		t.Errorf("Reset() lost jokers: %v", counts)
	}
}
