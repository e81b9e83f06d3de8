package game

import "liarsbar/internal/deck"

// reshuffleAndDeal starts a fresh round: every alive hand and any leftover
// play folds back into the deck, the deck reshuffles, alive players receive
// new hands and a new table rank is drawn. firstTurnID leads the round; if
// that player is gone the lead falls to a random alive seat.
func (s *Session) reshuffleAndDeal(firstTurnID string) []Event {
	for _, p := range s.players {
		if p.Alive {
			s.foldHand(p)
		}
	}
	if s.lastPlay != nil {
		s.deck.Add(s.lastPlay.Cards...)
		s.lastPlay = nil
	}

	alive := s.aliveCount()
	if s.deck.Len() < alive*HandSize {
		// Cards escaped the closed system somehow; rebuild the fixed
		// composition rather than dealing short hands.
		s.logger.Warn("Deck short at reshuffle, rebuilding", "have", s.deck.Len(), "need", alive*HandSize)
		s.deck.Reset()
	}
	s.deck.Shuffle()

	for _, p := range s.players {
		if p.Alive {
			p.Hand = s.deck.DealN(HandSize)
		}
	}

	s.tableRank = s.randomTableRank()
	s.challengeOpen = false

	if lead := s.playerByID(firstTurnID); lead != nil && lead.Alive {
		s.currentTurn = firstTurnID
	} else {
		s.currentTurn = s.randomAliveID()
	}

	s.logger.Info("New round", "tableCard", s.tableRank, "firstTurn", s.currentTurn, "alive", alive)

	events := make([]Event, 0, alive)
	for _, p := range s.players {
		if !p.Alive {
			continue
		}
		events = append(events, NewRoundEvent{
			To:          p.ID,
			TableCard:   s.tableRank,
			Players:     s.statuses(),
			CurrentTurn: s.currentTurn,
			YourHand:    append([]deck.Rank(nil), p.Hand...),
		})
	}
	return events
}

func (s *Session) randomAliveID() string {
	alive := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	if len(alive) == 0 {
		return ""
	}
	return alive[s.rng.IntN(len(alive))].ID
}

// cardTotal counts every card the session tracks: the deck, all hands and
// any pending play. In every reachable state this equals deck.Size.
func (s *Session) cardTotal() int {
	total := s.deck.Len()
	for _, p := range s.players {
		total += len(p.Hand)
	}
	if s.lastPlay != nil {
		total += len(s.lastPlay.Cards)
	}
	return total
}
