package service

import (
	"context"
	"log/slog"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/AdamBeresnev/tourney/internal/utils"
	"github.com/google/uuid"
)

// StartTournament closes registration and generates the schedule for the
// tournament kind.
func (s *TournamentService) StartTournament(ctx context.Context, id uuid.UUID, expectedVersion int) (*bracket.Tournament, error) {
	return s.generate(ctx, id, expectedVersion, s.engine.Start)
}

// GenerateEliminationSchedule builds round one of an elimination bracket from
// the approved players.
func (s *TournamentService) GenerateEliminationSchedule(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return s.generate(ctx, id, AnyVersion, s.engine.StartElimination)
}

// GenerateRoundRobinSchedule builds the whole round-robin schedule from the
// approved teams.
func (s *TournamentService) GenerateRoundRobinSchedule(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return s.generate(ctx, id, AnyVersion, s.engine.StartRoundRobin)
}

func (s *TournamentService) generate(ctx context.Context, id uuid.UUID, expectedVersion int,
	start func(bracket.Tournament) (bracket.Tournament, error)) (*bracket.Tournament, error) {
	t, err := mutateTournament(ctx, s.db, s.store, s.metrics, id, expectedVersion, always(start))
	if err != nil {
		return nil, err
	}

	if pending := t.Registrations.Pending(); len(pending) > 0 {
		slog.Warn("registrations left undecided at start", "tournament_id", id, "pending", len(pending))
	}

	s.metrics.scheduleGenerated(string(t.Kind))
	slog.Info("schedule generated", "tournament_id", id, "kind", t.Kind, "matchups", len(t.Matchups), "rounds", t.Matchups.MaxRound())
	return t, nil
}

// CompleteRoundRobin closes a fully played round-robin and crowns the leader.
func (s *TournamentService) CompleteRoundRobin(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	t, err := mutateTournament(ctx, s.db, s.store, s.metrics, id, AnyVersion, always(bracket.CompleteRoundRobin))
	if err != nil {
		return nil, err
	}

	s.metrics.championCrowned(string(t.Kind))
	slog.Info("champion crowned", "tournament_id", id, "champion_id", utils.OrZero(t.ChampionID))
	return t, nil
}
