package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

const (
	createTournamentQuery = `
		INSERT INTO tournaments (id, owner_id, name, kind, status, current_round, champion_id, champion_name,
			players, teams, registrations, matchups, version, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :kind, :status, :current_round, :champion_id, :champion_name,
			:players, :teams, :registrations, :matchups, :version, :created_at, :updated_at)
	`
	// The version in the WHERE clause is the one the caller read
	updateTournamentQuery = `
		UPDATE tournaments SET
		name = :name,
		status = :status,
		current_round = :current_round,
		champion_id = :champion_id,
		champion_name = :champion_name,
		players = :players,
		teams = :teams,
		registrations = :registrations,
		matchups = :matchups,
		version = version + 1,
		updated_at = :updated_at
		WHERE id = :id AND version = :version
	`
	getTournamentQuery    = "SELECT * FROM tournaments WHERE id = ?"
	existsTournamentQuery = "SELECT COUNT(*) FROM tournaments WHERE id = ?"
	deleteTournamentQuery = "DELETE FROM tournaments WHERE id = ?"
)

// TournamentFilter narrows QueryTournaments. Zero fields match everything.
type TournamentFilter struct {
	OwnerID *uuid.UUID
	Status  bracket.TournamentStatus
	Kind    bracket.TournamentKind
	Limit   int
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	now := time.Now().UTC()
	if tournament.CreatedAt.IsZero() {
		tournament.CreatedAt = now
	}
	tournament.UpdatedAt = now
	if tournament.Version == 0 {
		tournament.Version = 1
	}
	_, err := tx.NamedExecContext(ctx, createTournamentQuery, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return getTournament(ctx, s.db, id)
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Tournament, error) {
	return getTournament(ctx, tx, id)
}

func getTournament(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := sqlx.GetContext(ctx, q, &tournament, q.Rebind(getTournamentQuery), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &bracket.TournamentNotFoundError{ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

// UpdateTournament writes the whole document if nobody else has written it
// since it was read. On success tournament.Version holds the new revision.
func (s *TournamentStore) UpdateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	tournament.UpdatedAt = time.Now().UTC()
	res, err := tx.NamedExecContext(ctx, updateTournamentQuery, tournament)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var count int
		if err := tx.GetContext(ctx, &count, tx.Rebind(existsTournamentQuery), tournament.ID); err != nil {
			return err
		}
		if count == 0 {
			return &bracket.TournamentNotFoundError{ID: tournament.ID.String()}
		}
		return fmt.Errorf("tournament %s changed since version %d: %w", tournament.ID, tournament.Version, bracket.ErrConflict)
	}

	tournament.Version++
	return nil
}

func (s *TournamentStore) DeleteTournament(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(deleteTournamentQuery), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &bracket.TournamentNotFoundError{ID: id.String()}
	}
	return nil
}

// QueryTournaments returns the matching tournaments, newest first.
func (s *TournamentStore) QueryTournaments(ctx context.Context, filter TournamentFilter) ([]bracket.Tournament, error) {
	var (
		where []string
		args  []any
	)
	if filter.OwnerID != nil {
		where = append(where, "owner_id = ?")
		args = append(args, *filter.OwnerID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}

	query := "SELECT * FROM tournaments"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	tournaments := []bracket.Tournament{}
	err := s.db.SelectContext(ctx, &tournaments, s.db.Rebind(query), args...)
	return tournaments, err
}
