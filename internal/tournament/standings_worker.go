package tournament

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Shaanmalik007/cricscore/internal/match"
	"github.com/Shaanmalik007/cricscore/pkg/logger"
)

var ErrTournamentNotFound = errors.New("tournament not found")

const standingsCacheTTL = 5 * time.Minute

// StandingsService serves points tables and leaderboards, with a redis
// cache in front of the aggregation. A background job keeps the cache warm
// so spectator reads stay cheap during busy match days.
type StandingsService struct {
	repo    TournamentRepository
	matches match.MatchStore
	rdb     *redis.Client
}

func NewStandingsService(repo TournamentRepository, matches match.MatchStore, rdb *redis.Client) *StandingsService {
	return &StandingsService{repo: repo, matches: matches, rdb: rdb}
}

func standingsKey(tournamentID uint, group string) string {
	if group == "" {
		return fmt.Sprintf("cricscore:standings:%d", tournamentID)
	}
	return fmt.Sprintf("cricscore:standings:%d:%s", tournamentID, group)
}

// Standings returns the cached points table when fresh, recomputing on a
// miss.
func (s *StandingsService) Standings(ctx context.Context, tournamentID uint, group string) ([]StandingsRow, error) {
	if s.rdb != nil {
		if payload, err := s.rdb.Get(ctx, standingsKey(tournamentID, group)).Bytes(); err == nil {
			var rows []StandingsRow
			if jerr := json.Unmarshal(payload, &rows); jerr == nil {
				return rows, nil
			}
		}
	}
	rows, err := s.compute(tournamentID, group)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, tournamentID, group, rows)
	return rows, nil
}

// Leaderboards aggregates batting and bowling across the tournament's
// live and completed matches.
func (s *StandingsService) Leaderboards(tournamentID uint, limit int) ([]BatterRow, []BowlerRow, error) {
	t, err := s.repo.GetByID(tournamentID)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, ErrTournamentNotFound
	}
	states, err := s.states(tournamentID)
	if err != nil {
		return nil, nil, err
	}
	batters, bowlers := Leaderboards(states, limit)
	return batters, bowlers, nil
}

// Refresh recomputes and caches the flat points table for one tournament.
func (s *StandingsService) Refresh(ctx context.Context, tournamentID uint) error {
	rows, err := s.compute(tournamentID, "")
	if err != nil {
		return err
	}
	s.cache(ctx, tournamentID, "", rows)
	return nil
}

func (s *StandingsService) compute(tournamentID uint, group string) ([]StandingsRow, error) {
	t, err := s.repo.GetByID(tournamentID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTournamentNotFound
	}
	states, err := s.states(tournamentID)
	if err != nil {
		return nil, err
	}
	return Standings(states, t.Entries, group), nil
}

func (s *StandingsService) states(tournamentID uint) ([]match.MatchState, error) {
	rows, err := s.matches.ListTournamentMatches(tournamentID)
	if err != nil {
		return nil, err
	}
	states := make([]match.MatchState, 0, len(rows))
	for i := range rows {
		states = append(states, rows[i].State)
	}
	return states, nil
}

func (s *StandingsService) cache(ctx context.Context, tournamentID uint, group string, rows []StandingsRow) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, standingsKey(tournamentID, group), payload, standingsCacheTTL).Err(); err != nil {
		logger.Warn("standings cache write failed", zap.Uint("tournament_id", tournamentID), zap.Error(err))
	}
}

// StartWorker refreshes every tournament's cached table once a minute.
// Returns the scheduler so the caller can shut it down.
func (s *StandingsService) StartWorker() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			ids, err := s.repo.ListIDs()
			if err != nil {
				logger.Warn("standings worker could not list tournaments", zap.Error(err))
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			for _, id := range ids {
				if err := s.Refresh(ctx, id); err != nil {
					logger.Warn("standings refresh failed", zap.Uint("tournament_id", id), zap.Error(err))
				}
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	sched.Start()
	logger.Info("standings worker started")
	return sched, nil
}
