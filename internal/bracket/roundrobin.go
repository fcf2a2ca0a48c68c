package bracket

// byeTeamID pads an odd team list for the circle method. It never reaches
// the ledger.
const byeTeamID = "__bye__"

// ValidateTeams returns the teams eligible for a round-robin, or an error
// naming every team without exactly TeamSize members.
func ValidateTeams(teams []Team) ([]Team, error) {
	var invalid []string
	for _, t := range teams {
		if len(t.MemberIDs) != TeamSize {
			invalid = append(invalid, t.Name)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidTeamSizeError{Teams: invalid}
	}
	if len(teams) < 2 {
		return nil, &InsufficientTeamsError{Count: len(teams)}
	}
	return teams, nil
}

// GenerateRoundRobin schedules every pairing of teams with the circle method.
// Each pairing expands to TeamSize player games, member k against member k.
func GenerateRoundRobin(teams []Team) (Ledger, error) {
	teams, err := ValidateTeams(teams)
	if err != nil {
		return nil, err
	}

	slots := append([]Team(nil), teams...)
	if len(slots)%2 != 0 {
		slots = append(slots, Team{ID: byeTeamID, Name: ByeName})
	}
	n := len(slots)
	rounds := n - 1

	matchups := make(Ledger, 0, TeamSize*len(teams)*(len(teams)-1)/2)
	for round := 1; round <= rounds; round++ {
		matchNumber := 1
		for i := 0; i < n/2; i++ {
			home, away := slots[i], slots[n-1-i]
			if home.ID == byeTeamID || away.ID == byeTeamID {
				continue
			}
			for k := 0; k < TeamSize; k++ {
				matchups = append(matchups, Matchup{
					Round:             round,
					MatchNumber:       matchNumber,
					Side1ID:           home.ID,
					Side2ID:           away.ID,
					Side1Name:         home.Name,
					Side2Name:         away.Name,
					PlayerMatchNumber: k + 1,
					Player1ID:         home.MemberIDs[k],
					Player2ID:         away.MemberIDs[k],
					Player1Name:       home.MemberName(k),
					Player2Name:       away.MemberName(k),
				})
				matchNumber++
			}
		}

		if round < rounds {
			// Position 0 is fixed, the last slot moves to position 1
			last := slots[n-1]
			copy(slots[2:], slots[1:n-1])
			slots[1] = last
		}
	}

	return matchups, nil
}

// StartRoundRobin generates the full schedule up front and moves the
// tournament to InProgress.
func (e *Engine) StartRoundRobin(t Tournament) (Tournament, error) {
	if t.Kind != RoundRobin {
		return t, Validationf("tournament %s is not a round-robin tournament", t.ID)
	}
	if t.Status != TournamentUnstarted {
		return t, Validationf("tournament %s has already started", t.ID)
	}

	ledger, err := GenerateRoundRobin(t.Teams)
	if err != nil {
		return t, err
	}

	next := t.Clone()
	next.Matchups = ledger
	next.CurrentRound = 1
	next.Status = TournamentInProgress
	return next, nil
}

// Start dispatches to the generator matching the tournament kind.
func (e *Engine) Start(t Tournament) (Tournament, error) {
	switch t.Kind {
	case Elimination:
		return e.StartElimination(t)
	case RoundRobin:
		return e.StartRoundRobin(t)
	}
	return t, Validationf("unknown tournament kind %q", t.Kind)
}

// CompleteRoundRobin closes a round-robin once every game is decided and
// crowns the team at the top of the standings.
func CompleteRoundRobin(t Tournament) (Tournament, error) {
	if t.Kind != RoundRobin {
		return t, Validationf("tournament %s is not a round-robin tournament", t.ID)
	}
	if t.Status != TournamentInProgress {
		return t, Validationf("tournament %s is not in progress", t.ID)
	}
	if !t.Matchups.AllCompleted() {
		return t, Validationf("%d of %d games are still undecided",
			len(t.Matchups)-t.Matchups.CompletedCount(), len(t.Matchups))
	}

	standings := ComputeRoundRobinStandings(t.Teams, t.Matchups)
	if standings.Champion == nil {
		return t, &InvariantViolationError{Detail: "completed round-robin has no standings"}
	}

	next := t.Clone()
	next.crown(standings.Champion.TeamID, standings.Champion.Name)
	return next, nil
}
