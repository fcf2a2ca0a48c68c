package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/AdamBeresnev/tourney/internal/middleware"
	"github.com/AdamBeresnev/tourney/internal/store"
	"github.com/AdamBeresnev/tourney/internal/timeparse"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	t.Cleanup(func() { database.Close() })
	return database
}

type testEnv struct {
	db          *sqlx.DB
	ctx         context.Context
	metrics     *Metrics
	users       *UserService
	tournaments *TournamentService
	matches     *MatchService
	entries     *EntryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	tournamentStore := store.NewTournamentStore(db)
	engine := bracket.NewEngine(bracket.NewRandomizer(7), bracket.WithClock(func() time.Time { return fixedNow }))
	metrics := NewMetrics(prometheus.NewRegistry())

	env := &testEnv{
		db:          db,
		metrics:     metrics,
		users:       NewUserService(db, store.NewUserStore(db)),
		tournaments: NewTournamentService(db, tournamentStore, engine, metrics),
		matches:     NewMatchService(db, tournamentStore, engine, metrics, timeparse.New(time.UTC, func() time.Time { return fixedNow })),
		entries:     NewEntryService(db, tournamentStore, metrics),
	}

	owner, err := env.users.EnsureUser(context.Background(), uuid.Nil)
	require.NoError(t, err)
	env.ctx = context.WithValue(context.Background(), middleware.UserIDKey, owner.ID)
	return env
}

func (env *testEnv) createTournament(t *testing.T, kind bracket.TournamentKind) *bracket.Tournament {
	t.Helper()
	tournament, err := env.tournaments.CreateTournament(env.ctx, CreateTournamentInput{Name: "Spring " + string(kind), Kind: kind})
	require.NoError(t, err)
	return tournament
}

// startElimination creates an elimination with players p1..pn and starts it.
func (env *testEnv) startElimination(t *testing.T, n int) *bracket.Tournament {
	t.Helper()
	tournament := env.createTournament(t, bracket.Elimination)

	var lines []string
	for i := 1; i <= n; i++ {
		lines = append(lines, fmt.Sprintf("p%d, Player %d", i, i))
	}
	res, err := env.entries.ImportRoster(env.ctx, tournament.ID, strings.Join(lines, "\n"))
	require.NoError(t, err)
	require.Equal(t, n, res.Admitted)

	started, err := env.tournaments.StartTournament(env.ctx, tournament.ID, AnyVersion)
	require.NoError(t, err)
	return started
}

func teamLine(id string) string {
	members := make([]string, bracket.TeamSize)
	for k := range members {
		members[k] = fmt.Sprintf("%s-%d=%s player %d", id, k+1, id, k+1)
	}
	return fmt.Sprintf("%s, Team %s, %s", id, strings.ToUpper(id), strings.Join(members, "|"))
}

// playRound records side 1 as the winner of every open matchup in the
// current round.
func (env *testEnv) playRound(t *testing.T, id uuid.UUID) *bracket.Tournament {
	t.Helper()
	current, err := env.tournaments.GetTournament(env.ctx, id)
	require.NoError(t, err)

	latest := current
	for _, m := range current.Matchups.InRound(current.CurrentRound) {
		if m.Completed {
			continue
		}
		latest, _, err = env.matches.RecordMatchResult(env.ctx, id, m.Key(), m.Side1ID, AnyVersion)
		require.NoError(t, err)
	}
	return latest
}
