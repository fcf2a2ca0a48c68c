package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/AdamBeresnev/tourney/internal/store"
	"github.com/AdamBeresnev/tourney/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type EntryService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	metrics *Metrics
}

func NewEntryService(db *sqlx.DB, store *store.TournamentStore, metrics *Metrics) *EntryService {
	return &EntryService{db: db, store: store, metrics: metrics}
}

// ImportResult reports how many lines of a roster import were admitted.
type ImportResult struct {
	Tournament *bracket.Tournament `json:"tournament"`
	Admitted   int                 `json:"admitted"`
	Skipped    []string            `json:"skipped"`
}

// ImportRoster registers and approves one entrant per line in a single write.
//
// Elimination lines are "id[, name[, email]]". Round-robin lines are
// "teamId, team name, member1|member2|member3|member4|member5", where a member
// may be written "id=name". Blank lines are ignored; lines that fail to
// register are skipped and reported.
func (s *EntryService) ImportRoster(ctx context.Context, tournamentID uuid.UUID, input string) (*ImportResult, error) {
	result := &ImportResult{Skipped: []string{}}

	t, err := mutateTournament(ctx, s.db, s.store, s.metrics, tournamentID, AnyVersion, func(current bracket.Tournament) (bracket.Tournament, bool, error) {
		if current.Status != bracket.TournamentUnstarted {
			return current, false, bracket.Validationf("registration for tournament %s is closed", current.ID)
		}

		next := current
		result.Admitted = 0
		result.Skipped = result.Skipped[:0]
		for _, raw := range strings.Split(input, "\n") {
			line := utils.StringOrNil(raw)
			if line == nil {
				continue
			}

			reg := registrationFromLine(current.Kind, *line)
			registered, err := bracket.Register(next, reg)
			if err != nil {
				slog.Debug("skipping roster line", "tournament_id", tournamentID, "line", *line, "error", err)
				result.Skipped = append(result.Skipped, *line)
				continue
			}
			approved, err := bracket.Decide(registered, reg.ID, true)
			if err != nil {
				return current, false, err
			}
			next = approved
			result.Admitted++
		}
		return next, result.Admitted > 0, nil
	})
	if err != nil {
		return nil, err
	}

	result.Tournament = t
	slog.Info("roster imported", "tournament_id", tournamentID, "admitted", result.Admitted, "skipped", len(result.Skipped))
	return result, nil
}

func registrationFromLine(kind bracket.TournamentKind, line string) bracket.Registration {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	reg := bracket.Registration{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	if kind == bracket.RoundRobin {
		reg.Type = bracket.TeamRegistration
		reg.TeamID = field(0)
		reg.TeamName = field(1)
		for _, member := range strings.Split(field(2), "|") {
			id, name, _ := strings.Cut(strings.TrimSpace(member), "=")
			reg.MemberIDs = append(reg.MemberIDs, strings.TrimSpace(id))
			reg.MemberNames = append(reg.MemberNames, strings.TrimSpace(name))
		}
		return reg
	}

	reg.Type = bracket.IndividualRegistration
	reg.EntrantID = field(0)
	reg.Name = field(1)
	reg.Email = field(2)
	return reg
}
