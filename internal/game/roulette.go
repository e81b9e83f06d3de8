package game

import rand "math/rand/v2"

// Chambers in the revolver. A player's sixth pull is always fatal.
const Chambers = 6

// pullTrigger advances the player's attempt counter and draws survival from
// the session's random source. The counter increments before anything else,
// so it is monotone even on the fatal pull. Survival probability uses the
// pre-increment counter c: 1 - 1/(Chambers-c+1), shrinking each attempt
// until the sixth, which never survives.
func pullTrigger(rng *rand.Rand, p *Player) (survived bool, chamber int) {
	pre := p.RouletteCount
	p.RouletteCount++
	chamber = p.RouletteCount

	if pre >= Chambers-1 {
		return false, chamber
	}
	return rng.Float64() >= 1.0/float64(Chambers-pre+1), chamber
}
