package bracket

// Advance checks whether the current elimination round is fully decided and,
// if so, either crowns the single remaining winner or appends the next round.
// It does nothing when the round is still open or a later round already
// exists, so calling it twice is harmless.
func (e *Engine) Advance(t Tournament) (Tournament, Outcome, error) {
	var out Outcome
	if t.Kind != Elimination || t.Status != TournamentInProgress {
		return t, out, nil
	}

	round := t.Matchups.InRound(t.CurrentRound)
	if len(round) == 0 {
		return t, out, nil
	}
	for _, m := range round {
		if !m.Completed {
			return t, out, nil
		}
		if err := checkMatchup(m); err != nil {
			return t, out, err
		}
	}
	if t.Matchups.HasRoundAfter(t.CurrentRound) {
		return t, out, nil
	}

	winners := make([]Entrant, 0, len(round))
	for _, m := range round {
		id := m.Winner()
		winners = append(winners, Entrant{ID: id, DisplayName: m.SideName(id)})
	}

	next := t.Clone()
	if len(winners) == 1 {
		next.crown(winners[0].ID, winners[0].DisplayName)
		out.ChampionID = winners[0].ID
		out.ChampionName = winners[0].DisplayName
		return next, out, nil
	}

	next.CurrentRound++
	next.Matchups = append(next.Matchups, e.pairRound(next.CurrentRound, winners)...)
	out.NextRound = next.CurrentRound
	return next, out, nil
}

// RecordResult sets the winner of an elimination matchup and then runs the
// round advancer. A correction that reopens nothing, such as a changed final,
// is advanced too, so the new winner is crowned straight away.
func (e *Engine) RecordResult(t Tournament, key MatchKey, winnerID string) (Tournament, Outcome, error) {
	next, out, err := SetWinner(t, key, winnerID)
	if err != nil || !out.Changed() || next.Kind != Elimination {
		return next, out, err
	}

	advanced, adv, err := e.Advance(next)
	if err != nil {
		return t, Outcome{}, err
	}
	out.NextRound = adv.NextRound
	out.ChampionID = adv.ChampionID
	out.ChampionName = adv.ChampionName
	return advanced, out, nil
}
