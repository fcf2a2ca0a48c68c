package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/AdamBeresnev/tourney/internal/middleware"
	"github.com/AdamBeresnev/tourney/internal/report"
	"github.com/AdamBeresnev/tourney/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	engine  *bracket.Engine
	metrics *Metrics
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, engine *bracket.Engine, metrics *Metrics) *TournamentService {
	return &TournamentService{db: db, store: store, engine: engine, metrics: metrics}
}

type CreateTournamentInput struct {
	Name string                 `json:"name"`
	Kind bracket.TournamentKind `json:"kind"`
}

// CreateTournament stores a new unstarted tournament owned by the user in ctx.
func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*bracket.Tournament, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("user ID not found in the context")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, bracket.Validationf("tournament name is required")
	}
	if !input.Kind.Valid() {
		return nil, bracket.Validationf("unknown tournament kind %q", input.Kind)
	}

	tournament := &bracket.Tournament{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
		Kind:    input.Kind,
		Status:  bracket.TournamentUnstarted,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, tournament); err != nil {
		return nil, storeError("create tournament", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	slog.Info("tournament created", "tournament_id", tournament.ID, "kind", tournament.Kind, "owner_id", ownerID)
	return tournament, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, storeError("get tournament", err)
	}
	return t, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context, filter store.TournamentFilter) ([]bracket.Tournament, error) {
	ts, err := s.store.QueryTournaments(ctx, filter)
	if err != nil {
		return nil, storeError("query tournaments", err)
	}
	return ts, nil
}

// GetTournamentsForUser lists the tournaments owned by the organizer in ctx.
// A visitor without an organizer owns nothing.
func (s *TournamentService) GetTournamentsForUser(ctx context.Context, filter store.TournamentFilter) ([]bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return []bracket.Tournament{}, nil
	}
	filter.OwnerID = &userID
	return s.ListTournaments(ctx, filter)
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := s.store.DeleteTournament(ctx, tx, id); err != nil {
		return storeError("delete tournament", err)
	}
	if err := tx.Commit(); err != nil {
		return storeError("commit transaction", err)
	}

	slog.Info("tournament deleted", "tournament_id", id)
	return nil
}

type RegistrationInput struct {
	EntrantID string `json:"entrantId"`
	Name      string `json:"name"`
	Email     string `json:"email"`

	TeamID      string   `json:"teamId"`
	TeamName    string   `json:"teamName"`
	MemberIDs   []string `json:"memberIds"`
	MemberNames []string `json:"memberNames"`
}

// Register files a pending registration. The registration type follows the
// tournament kind.
func (s *TournamentService) Register(ctx context.Context, id uuid.UUID, input RegistrationInput) (*bracket.Registration, error) {
	reg := bracket.Registration{
		ID:          uuid.New(),
		EntrantID:   input.EntrantID,
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		TeamID:      input.TeamID,
		TeamName:    strings.TrimSpace(input.TeamName),
		MemberIDs:   input.MemberIDs,
		MemberNames: input.MemberNames,
		CreatedAt:   time.Now().UTC(),
	}

	t, err := mutateTournament(ctx, s.db, s.store, s.metrics, id, AnyVersion, always(func(current bracket.Tournament) (bracket.Tournament, error) {
		reg.Type = bracket.IndividualRegistration
		if current.Kind == bracket.RoundRobin {
			reg.Type = bracket.TeamRegistration
		}
		return bracket.Register(current, reg)
	}))
	if err != nil {
		return nil, err
	}

	stored := t.Registrations[t.Registrations.Index(reg.ID)]
	slog.Info("registration received", "tournament_id", id, "registration_id", reg.ID, "type", stored.Type)
	return &stored, nil
}

func (s *TournamentService) ApproveRegistration(ctx context.Context, id, regID uuid.UUID) (*bracket.Tournament, error) {
	return s.decide(ctx, id, regID, true)
}

func (s *TournamentService) RejectRegistration(ctx context.Context, id, regID uuid.UUID) (*bracket.Tournament, error) {
	return s.decide(ctx, id, regID, false)
}

func (s *TournamentService) decide(ctx context.Context, id, regID uuid.UUID, approve bool) (*bracket.Tournament, error) {
	t, err := mutateTournament(ctx, s.db, s.store, s.metrics, id, AnyVersion, always(func(current bracket.Tournament) (bracket.Tournament, error) {
		return bracket.Decide(current, regID, approve)
	}))
	if err != nil {
		return nil, err
	}
	slog.Info("registration decided", "tournament_id", id, "registration_id", regID, "approved", approve)
	return t, nil
}

// Standings is the results view of a tournament. Exactly one of the two
// tables is set, matching Kind.
type Standings struct {
	TournamentID uuid.UUID                     `json:"tournamentId"`
	Kind         bracket.TournamentKind        `json:"kind"`
	Status       bracket.TournamentStatus      `json:"status"`
	Elimination  *bracket.EliminationStandings `json:"elimination,omitempty"`
	RoundRobin   *bracket.RoundRobinStandings  `json:"roundRobin,omitempty"`
}

func ComputeStandings(t bracket.Tournament) Standings {
	st := Standings{TournamentID: t.ID, Kind: t.Kind, Status: t.Status}
	switch t.Kind {
	case bracket.Elimination:
		e := bracket.ComputeEliminationStandings(t.Players, t.Matchups)
		st.Elimination = &e
	case bracket.RoundRobin:
		r := bracket.ComputeRoundRobinStandings(t.Teams, t.Matchups)
		st.RoundRobin = &r
	}
	return st
}

func (s *TournamentService) Standings(ctx context.Context, id uuid.UUID) (*Standings, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	st := ComputeStandings(*t)
	return &st, nil
}

func (s *TournamentService) StandingsChart(ctx context.Context, id uuid.UUID) ([]byte, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.StandingsChart(*t)
}

func (s *TournamentService) StandingsWorkbook(ctx context.Context, id uuid.UUID) ([]byte, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.StandingsWorkbook(*t)
}
