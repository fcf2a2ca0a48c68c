package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/AdamBeresnev/tourney/internal/store"
	"github.com/AdamBeresnev/tourney/internal/timeparse"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	engine  *bracket.Engine
	metrics *Metrics
	times   *timeparse.Parser
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, engine *bracket.Engine, metrics *Metrics, times *timeparse.Parser) *MatchService {
	if times == nil {
		times = timeparse.New(nil, nil)
	}
	return &MatchService{db: db, store: store, engine: engine, metrics: metrics, times: times}
}

// RecordMatchResult records the winner of a matchup and advances the bracket
// when the result completes a round. Recording a result the ledger already
// holds is a no-op and does not bump the version.
func (s *MatchService) RecordMatchResult(ctx context.Context, id uuid.UUID, key bracket.MatchKey, winnerID string, expectedVersion int) (*bracket.Tournament, bracket.Outcome, error) {
	var out bracket.Outcome
	t, err := mutateTournament(ctx, s.db, s.store, s.metrics, id, expectedVersion, func(current bracket.Tournament) (bracket.Tournament, bool, error) {
		next, o, err := s.engine.RecordResult(current, key, strings.TrimSpace(winnerID))
		out = o
		return next, o.Changed(), err
	})
	if err != nil {
		return nil, bracket.Outcome{}, err
	}

	kind := string(t.Kind)
	switch {
	case out.Corrected:
		s.metrics.resultRecorded(kind, "corrected")
		slog.Info("match result corrected", "tournament_id", id, "round", key.Round, "match", key.MatchNumber,
			"previous_winner", out.PreviousWinnerID, "winner", winnerID, "cascaded", out.Cascaded)
	case out.NewlyCompleted:
		s.metrics.resultRecorded(kind, "recorded")
		slog.Info("match result recorded", "tournament_id", id, "round", key.Round, "match", key.MatchNumber, "winner", winnerID)
	default:
		s.metrics.resultRecorded(kind, "unchanged")
	}
	if out.NextRound > 0 {
		s.metrics.roundAdvanced()
		slog.Info("round advanced", "tournament_id", id, "round", out.NextRound)
	}
	if out.ChampionID != "" {
		s.metrics.championCrowned(kind)
		slog.Info("champion crowned", "tournament_id", id, "champion_id", out.ChampionID)
	}
	return t, out, nil
}

// SetMatchupTime stores a free-form time for a matchup. Text that does not
// parse as a time is kept as a label without an instant.
func (s *MatchService) SetMatchupTime(ctx context.Context, id uuid.UUID, key bracket.MatchKey, text string) (*bracket.Matchup, error) {
	text = strings.TrimSpace(text)
	at, err := s.times.Parse(text)
	if err != nil {
		slog.Warn("keeping matchup time as text", "tournament_id", id, "input", text, "error", err)
		at = nil
	}

	t, err := mutateTournament(ctx, s.db, s.store, s.metrics, id, AnyVersion, always(func(current bracket.Tournament) (bracket.Tournament, error) {
		return bracket.SetScheduledTime(current, key, text, at)
	}))
	if err != nil {
		return nil, err
	}

	m := t.Matchups[t.Matchups.Index(key)]
	return &m, nil
}

// NextMatchup returns the first undecided matchup in ledger order, or nil
// when there is nothing left to play.
func (s *MatchService) NextMatchup(ctx context.Context, id uuid.UUID) (*bracket.Matchup, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, storeError("get tournament", err)
	}
	if t.Status != bracket.TournamentInProgress {
		return nil, nil
	}
	for _, m := range t.Matchups {
		if t.Kind == bracket.Elimination && m.Round != t.CurrentRound {
			continue
		}
		if !m.Completed && !m.IsBye {
			return &m, nil
		}
	}
	return nil, nil
}
