package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/AdamBeresnev/tourney/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AnyVersion skips the caller-side version check of a mutation.
const AnyVersion = 0

// A mutation computes the next state of a tournament. Returning the input
// unchanged with changed=false skips the write.
type mutation func(current bracket.Tournament) (next bracket.Tournament, changed bool, err error)

// storeError keeps not-found and conflict errors as they are and reports
// everything else as a persistence failure.
func storeError(op string, err error) error {
	if errors.Is(err, bracket.ErrNotFound) || errors.Is(err, bracket.ErrConflict) {
		return err
	}
	return &bracket.PersistenceError{Op: op, Err: err}
}

// mutateTournament runs one read-modify-write cycle inside a transaction.
// When expectedVersion is set the tournament must still be at that version.
func mutateTournament(ctx context.Context, db *sqlx.DB, tournaments *store.TournamentStore, metrics *Metrics,
	id uuid.UUID, expectedVersion int, fn mutation) (*bracket.Tournament, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer tx.Rollback()

	current, err := tournaments.GetTournamentTx(ctx, tx, id)
	if err != nil {
		return nil, storeError("load tournament", err)
	}
	if expectedVersion != AnyVersion && current.Version != expectedVersion {
		metrics.conflict()
		slog.Warn("stale tournament version", "tournament_id", id, "expected", expectedVersion, "actual", current.Version)
		return nil, fmt.Errorf("tournament %s is at version %d, not %d: %w", id, current.Version, expectedVersion, bracket.ErrConflict)
	}

	next, changed, err := fn(*current)
	if err != nil {
		if errors.Is(err, bracket.ErrInvariant) {
			slog.Error("tournament invariant violated", "tournament_id", id, "error", err)
		}
		return nil, err
	}
	if !changed {
		return current, nil
	}

	if err := tournaments.UpdateTournament(ctx, tx, &next); err != nil {
		if errors.Is(err, bracket.ErrConflict) {
			metrics.conflict()
			slog.Warn("tournament changed during update", "tournament_id", id)
		}
		return nil, storeError("save tournament", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}
	return &next, nil
}

// always wraps a pure state transition that changes the tournament whenever
// it succeeds.
func always(fn func(bracket.Tournament) (bracket.Tournament, error)) mutation {
	return func(current bracket.Tournament) (bracket.Tournament, bool, error) {
		next, err := fn(current)
		return next, err == nil, err
	}
}
