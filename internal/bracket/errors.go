package bracket

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package and by the services
// built on it matches exactly one of these through errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")
	ErrInvariant   = errors.New("invariant violation")
	ErrConflict    = errors.New("version conflict")
)

type InsufficientEntrantsError struct {
	Count int
}

func (e *InsufficientEntrantsError) Error() string {
	return fmt.Sprintf("at least 2 entrants are required, got %d", e.Count)
}

func (e *InsufficientEntrantsError) Unwrap() error { return ErrValidation }

type InsufficientTeamsError struct {
	Count int
}

func (e *InsufficientTeamsError) Error() string {
	return fmt.Sprintf("at least 2 valid teams are required, got %d", e.Count)
}

func (e *InsufficientTeamsError) Unwrap() error { return ErrValidation }

// InvalidTeamSizeError lists every team that does not have exactly TeamSize
// members.
type InvalidTeamSizeError struct {
	Teams []string
}

func (e *InvalidTeamSizeError) Error() string {
	return fmt.Sprintf("teams must have exactly %d members: %s", TeamSize, strings.Join(e.Teams, ", "))
}

func (e *InvalidTeamSizeError) Unwrap() error { return ErrValidation }

type MatchNotFoundError struct {
	Key MatchKey
}

func (e *MatchNotFoundError) Error() string {
	return fmt.Sprintf("matchup %s vs %s (round %d, match %d) not found",
		e.Key.Side1ID, e.Key.Side2ID, e.Key.Round, e.Key.MatchNumber)
}

func (e *MatchNotFoundError) Unwrap() error { return ErrNotFound }

type WinnerNotInMatchError struct {
	Key      MatchKey
	WinnerID string
}

func (e *WinnerNotInMatchError) Error() string {
	return fmt.Sprintf("winner %q is not part of matchup %s vs %s", e.WinnerID, e.Key.Side1ID, e.Key.Side2ID)
}

func (e *WinnerNotInMatchError) Unwrap() error { return ErrValidation }

type TournamentNotFoundError struct {
	ID string
}

func (e *TournamentNotFoundError) Error() string {
	return fmt.Sprintf("tournament %s not found", e.ID)
}

func (e *TournamentNotFoundError) Unwrap() error { return ErrNotFound }

type InvariantViolationError struct {
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return "invariant violated: " + e.Detail
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariant }

// PersistenceError wraps a failed store call. Both ErrPersistence and the
// underlying error are reachable through errors.Is.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// Validationf builds an ad hoc validation error.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
