package bracket

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind error
	}{
		{"insufficient entrants", &InsufficientEntrantsError{Count: 1}, ErrValidation},
		{"insufficient teams", &InsufficientTeamsError{}, ErrValidation},
		{"team size", &InvalidTeamSizeError{Teams: []string{"x"}}, ErrValidation},
		{"winner", &WinnerNotInMatchError{WinnerID: "z"}, ErrValidation},
		{"match", &MatchNotFoundError{}, ErrNotFound},
		{"tournament", &TournamentNotFoundError{ID: "t"}, ErrNotFound},
		{"invariant", &InvariantViolationError{Detail: "x"}, ErrInvariant},
		{"persistence", &PersistenceError{Op: "save", Err: sql.ErrConnDone}, ErrPersistence},
		{"ad hoc", Validationf("bad %s", "input"), ErrValidation},
	}

	kinds := []error{ErrValidation, ErrNotFound, ErrPersistence, ErrInvariant, ErrConflict}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("failed to do thing: %w", tc.err)
			for _, k := range kinds {
				assert.Equal(t, k == tc.kind, errors.Is(wrapped, k), k.Error())
			}
		})
	}

	assert.ErrorIs(t, &PersistenceError{Op: "save", Err: sql.ErrConnDone}, sql.ErrConnDone)
	assert.Contains(t, (&InvalidTeamSizeError{Teams: []string{"Reds", "Blues"}}).Error(), "Reds, Blues")
}
