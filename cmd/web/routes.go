package main

import (
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/AdamBeresnev/tourney/internal/config"
	"github.com/AdamBeresnev/tourney/internal/httputil"
	"github.com/AdamBeresnev/tourney/internal/middleware"
	"github.com/AdamBeresnev/tourney/internal/service"
	"github.com/AdamBeresnev/tourney/internal/store"
	"github.com/AdamBeresnev/tourney/internal/utils"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type app struct {
	db             *sqlx.DB
	cfg            *config.Config
	sessionManager *scs.SessionManager
	registry       *prometheus.Registry

	users       *service.UserService
	tournaments *service.TournamentService
	matches     *service.MatchService
	entries     *service.EntryService
}

func urlUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.BadRequest(w, "Invalid "+param, err)
		return uuid.Nil, false
	}
	return id, true
}

// queryVersion reads the optional ?version= precondition.
func queryVersion(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("version")
	if v == "" {
		return service.AnyVersion, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		httputil.BadRequest(w, "Invalid version", err)
		return 0, false
	}
	return n, true
}

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	// cors treats an empty origin list as "*", so no list means no CORS at
	// all. Session cookies only go to origins that are named explicitly.
	if origins := a.cfg.Server.CORSOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: !slices.Contains(origins, "*"),
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.db.PingContext(r.Context()); err != nil {
			httputil.InternalServerError(w, "Database ping failed", err)
			return
		}
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))

	r.Group(func(r chi.Router) {
		r.Use(a.sessionManager.LoadAndSave)
		r.Use(middleware.Organizer(a.sessionManager, a.users))
		r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(rate.Limit(a.cfg.Server.RateLimit), a.cfg.Server.RateBurst)))

		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			user := middleware.GetAuthenticatedUser(r.Context())
			if user == nil {
				httputil.NotFound(w, "No organizer for this session", nil)
				return
			}
			httputil.JSON(w, http.StatusOK, user)
		})

		r.Put("/me", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Username string `json:"username"`
			}
			if !httputil.DecodeJSON(w, r, &body) {
				return
			}
			userID, _ := middleware.GetUserIDFromContext(r.Context())
			user, err := a.users.Rename(r.Context(), userID, body.Username)
			if err != nil {
				httputil.Error(w, "Failed to rename user", err)
				return
			}
			httputil.JSON(w, http.StatusOK, user)
		})

		r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
			var input service.CreateTournamentInput
			if !httputil.DecodeJSON(w, r, &input) {
				return
			}
			t, err := a.tournaments.CreateTournament(r.Context(), input)
			if err != nil {
				httputil.Error(w, "Failed to create tournament", err)
				return
			}
			httputil.JSON(w, http.StatusCreated, t)
		})

		r.Get("/tournaments", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			filter := store.TournamentFilter{
				Status: bracket.TournamentStatus(q.Get("status")),
				Kind:   bracket.TournamentKind(q.Get("kind")),
			}
			if owner := utils.StringOrNil(q.Get("owner")); owner != nil {
				id, err := uuid.Parse(*owner)
				if err != nil {
					httputil.BadRequest(w, "Invalid owner", err)
					return
				}
				filter.OwnerID = utils.Ptr(id)
			}
			if limit := q.Get("limit"); limit != "" {
				n, err := strconv.Atoi(limit)
				if err != nil || n < 0 {
					httputil.BadRequest(w, "Invalid limit", err)
					return
				}
				filter.Limit = n
			}

			list := a.tournaments.ListTournaments
			if q.Get("mine") == "true" {
				list = a.tournaments.GetTournamentsForUser
			}
			ts, err := list(r.Context(), filter)
			if err != nil {
				httputil.Error(w, "Failed to list tournaments", err)
				return
			}
			httputil.JSON(w, http.StatusOK, ts)
		})

		r.Route("/tournaments/{id}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				t, err := a.tournaments.GetTournament(r.Context(), id)
				if err != nil {
					httputil.Error(w, "Failed to get tournament", err)
					return
				}
				httputil.JSON(w, http.StatusOK, t)
			})

			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				if err := a.tournaments.DeleteTournament(r.Context(), id); err != nil {
					httputil.Error(w, "Failed to delete tournament", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Post("/registrations", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				var input service.RegistrationInput
				if !httputil.DecodeJSON(w, r, &input) {
					return
				}
				reg, err := a.tournaments.Register(r.Context(), id, input)
				if err != nil {
					httputil.Error(w, "Failed to register", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, reg)
			})

			decide := func(approve bool) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					id, ok := urlUUID(w, r, "id")
					if !ok {
						return
					}
					regID, ok := urlUUID(w, r, "regID")
					if !ok {
						return
					}
					var (
						t   *bracket.Tournament
						err error
					)
					if approve {
						t, err = a.tournaments.ApproveRegistration(r.Context(), id, regID)
					} else {
						t, err = a.tournaments.RejectRegistration(r.Context(), id, regID)
					}
					if err != nil {
						httputil.Error(w, "Failed to decide registration", err)
						return
					}
					httputil.JSON(w, http.StatusOK, t)
				}
			}
			r.Post("/registrations/{regID}/approve", decide(true))
			r.Post("/registrations/{regID}/reject", decide(false))

			r.Post("/roster", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
				if err != nil {
					httputil.BadRequest(w, "Invalid roster", err)
					return
				}
				res, err := a.entries.ImportRoster(r.Context(), id, string(body))
				if err != nil {
					httputil.Error(w, "Failed to import roster", err)
					return
				}
				httputil.JSON(w, http.StatusOK, res)
			})

			r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				version, ok := queryVersion(w, r)
				if !ok {
					return
				}
				t, err := a.tournaments.StartTournament(r.Context(), id, version)
				if err != nil {
					httputil.Error(w, "Failed to start tournament", err)
					return
				}
				httputil.JSON(w, http.StatusOK, t)
			})

			r.Post("/results", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				var body struct {
					Key      bracket.MatchKey `json:"key"`
					WinnerID string           `json:"winnerId"`
					Version  int              `json:"version"`
				}
				if !httputil.DecodeJSON(w, r, &body) {
					return
				}
				t, out, err := a.matches.RecordMatchResult(r.Context(), id, body.Key, body.WinnerID, body.Version)
				if err != nil {
					httputil.Error(w, "Failed to record result", err)
					return
				}
				httputil.JSON(w, http.StatusOK, map[string]any{"tournament": t, "outcome": out})
			})

			r.Put("/schedule", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				var body struct {
					Key  bracket.MatchKey `json:"key"`
					Time string           `json:"time"`
				}
				if !httputil.DecodeJSON(w, r, &body) {
					return
				}
				m, err := a.matches.SetMatchupTime(r.Context(), id, body.Key, body.Time)
				if err != nil {
					httputil.Error(w, "Failed to set matchup time", err)
					return
				}
				httputil.JSON(w, http.StatusOK, m)
			})

			r.Get("/next", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				m, err := a.matches.NextMatchup(r.Context(), id)
				if err != nil {
					httputil.Error(w, "Failed to get next matchup", err)
					return
				}
				if m == nil {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				httputil.JSON(w, http.StatusOK, m)
			})

			r.Post("/complete", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				t, err := a.tournaments.CompleteRoundRobin(r.Context(), id)
				if err != nil {
					httputil.Error(w, "Failed to complete tournament", err)
					return
				}
				httputil.JSON(w, http.StatusOK, t)
			})

			r.Get("/standings", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				st, err := a.tournaments.Standings(r.Context(), id)
				if err != nil {
					httputil.Error(w, "Failed to compute standings", err)
					return
				}
				httputil.JSON(w, http.StatusOK, st)
			})

			r.Get("/standings/chart.png", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				png, err := a.tournaments.StandingsChart(r.Context(), id)
				if err != nil {
					httputil.Error(w, "Failed to render standings chart", err)
					return
				}
				w.Header().Set("Content-Type", "image/png")
				w.Write(png)
			})

			r.Get("/standings.xlsx", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlUUID(w, r, "id")
				if !ok {
					return
				}
				xlsx, err := a.tournaments.StandingsWorkbook(r.Context(), id)
				if err != nil {
					httputil.Error(w, "Failed to build standings workbook", err)
					return
				}
				w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
				w.Header().Set("Content-Disposition", `attachment; filename="standings.xlsx"`)
				w.Write(xlsx)
			})
		})
	})

	return r
}
