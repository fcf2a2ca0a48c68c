package bracket

// GenerateElimination builds the first round of a single-elimination bracket.
// The entrants are shuffled, an odd one out receives a bye, and the rest are
// paired in shuffled order.
func (e *Engine) GenerateElimination(entrants []Entrant) (Ledger, error) {
	if len(entrants) < 2 {
		return nil, &InsufficientEntrantsError{Count: len(entrants)}
	}

	shuffled := append([]Entrant(nil), entrants...)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return e.pairRound(1, shuffled), nil
}

// pairRound pairs entrants consecutively. With an odd count one entrant,
// picked at random, is removed first and given a completed bye matchup that
// is appended after the real pairings.
func (e *Engine) pairRound(round int, entrants []Entrant) Ledger {
	var bye *Entrant
	if len(entrants)%2 != 0 {
		idx := e.rng.IntN(len(entrants))
		b := entrants[idx]
		bye = &b
		rest := make([]Entrant, 0, len(entrants)-1)
		rest = append(rest, entrants[:idx]...)
		entrants = append(rest, entrants[idx+1:]...)
	}

	matchups := make(Ledger, 0, len(entrants)/2+1)
	for i := 0; i+1 < len(entrants); i += 2 {
		matchups = append(matchups, Matchup{
			Round:       round,
			MatchNumber: len(matchups) + 1,
			Side1ID:     entrants[i].ID,
			Side2ID:     entrants[i+1].ID,
			Side1Name:   entrants[i].DisplayName,
			Side2Name:   entrants[i+1].DisplayName,
		})
	}

	if bye != nil {
		winner := bye.ID
		matchups = append(matchups, Matchup{
			Round:       round,
			MatchNumber: len(matchups) + 1,
			Side1ID:     bye.ID,
			Side2ID:     e.byeID(),
			Side1Name:   bye.DisplayName,
			Side2Name:   ByeName,
			Completed:   true,
			WinnerID:    &winner,
			IsBye:       true,
		})
	}

	return matchups
}

// StartElimination generates round one from the tournament's roster and moves
// it to InProgress.
func (e *Engine) StartElimination(t Tournament) (Tournament, error) {
	if t.Kind != Elimination {
		return t, Validationf("tournament %s is not an elimination tournament", t.ID)
	}
	if t.Status != TournamentUnstarted {
		return t, Validationf("tournament %s has already started", t.ID)
	}

	ledger, err := e.GenerateElimination(t.Players)
	if err != nil {
		return t, err
	}

	next := t.Clone()
	next.Matchups = ledger
	next.CurrentRound = 1
	next.Status = TournamentInProgress
	return next, nil
}
