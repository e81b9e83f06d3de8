package game

import "errors"

// errNoAliveCandidate indicates the rotation walk found nobody to hand the
// turn to. Callers guarantee at least one other alive player before asking,
// so surfacing this means an engine bug rather than a client mistake.
var errNoAliveCandidate = errors.New("no alive player to take the turn")

// nextAlive walks the fixed rotation order cyclically starting after
// fromIndex and returns the ID of the first alive player that is not
// excludeID.
func nextAlive(players []*Player, fromIndex int, excludeID string) (string, error) {
	n := len(players)
	for step := 1; step <= n; step++ {
		candidate := players[(fromIndex+step)%n]
		if candidate.Alive && candidate.ID != excludeID {
			return candidate.ID, nil
		}
	}
	return "", errNoAliveCandidate
}
