package match

import (
	"errors"
	"sort"
	"sync"

	"github.com/Shaanmalik007/cricscore/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchStore persists match rows, their ball-log projection and the
// finished-match history. Lookups return (nil, nil) when nothing matches.
type MatchStore interface {
	SaveMatch(m *Match) error
	GetMatch(id uint) (*Match, error)
	GetMatchByJoinCode(code string) (*Match, error)
	GetMatchByPublicID(publicID string) (*Match, error)
	ListMatches(scorerID uint, page, pageSize int) ([]Match, int64, error)
	ListTournamentMatches(tournamentID uint) ([]Match, error)
	DeleteMatch(id uint) error

	AppendBallLog(e *BallLogEntry) error
	ListBallLog(matchID uint) ([]BallLogEntry, error)

	SaveHistory(h *MatchHistory) error
	ListHistory(scorerID uint, page, pageSize int) ([]MatchHistory, int64, error)
}

// syncRow refreshes the denormalized query columns from the document.
func syncRow(m *Match) {
	m.PublicID = m.State.PublicID
	m.JoinCode = m.State.JoinCode
	m.IsPublic = m.State.IsPublic
	m.Name = m.State.Name
	m.Status = m.State.Status
	m.TournamentID = m.State.TournamentID
	m.GroupID = m.State.GroupID
}

// GormMatchStore implements MatchStore on postgres.
type GormMatchStore struct {
	db *gorm.DB
}

func NewGormMatchStore(db *gorm.DB) *GormMatchStore {
	return &GormMatchStore{db: db}
}

func (s *GormMatchStore) SaveMatch(m *Match) error {
	syncRow(m)
	if err := s.db.Save(m).Error; err != nil {
		return err
	}
	if m.State.ID != m.ID {
		m.State.ID = m.ID
		return s.db.Model(m).Update("state", m.State).Error
	}
	return nil
}

func (s *GormMatchStore) GetMatch(id uint) (*Match, error) {
	var m Match
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetMatchByJoinCode returns the oldest match carrying the code. Codes are
// random six digit strings, so a collision resolves to whoever got it first.
func (s *GormMatchStore) GetMatchByJoinCode(code string) (*Match, error) {
	var m Match
	err := s.db.Where("join_code = ?", code).Order("id asc").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormMatchStore) GetMatchByPublicID(publicID string) (*Match, error) {
	var m Match
	err := s.db.Where("public_id = ?", publicID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormMatchStore) ListMatches(scorerID uint, page, pageSize int) ([]Match, int64, error) {
	var (
		matches []Match
		total   int64
	)
	q := s.db.Model(&Match{}).Where("scorer_id = ?", scorerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	err := q.Order("updated_at desc").Offset(offset).Limit(pageSize).Find(&matches).Error
	return matches, total, err
}

func (s *GormMatchStore) ListTournamentMatches(tournamentID uint) ([]Match, error) {
	var matches []Match
	err := s.db.Where("tournament_id = ?", tournamentID).Order("id asc").Find(&matches).Error
	return matches, err
}

func (s *GormMatchStore) DeleteMatch(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", id).Delete(&BallLogEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Match{}, id).Error
	})
}

func (s *GormMatchStore) AppendBallLog(e *BallLogEntry) error {
	return s.db.Create(e).Error
}

func (s *GormMatchStore) ListBallLog(matchID uint) ([]BallLogEntry, error) {
	var entries []BallLogEntry
	err := s.db.Where("match_id = ?", matchID).Order("seq asc").Find(&entries).Error
	return entries, err
}

func (s *GormMatchStore) SaveHistory(h *MatchHistory) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}},
		UpdateAll: true,
	}).Create(h).Error
}

func (s *GormMatchStore) ListHistory(scorerID uint, page, pageSize int) ([]MatchHistory, int64, error) {
	var (
		rows  []MatchHistory
		total int64
	)
	q := s.db.Model(&MatchHistory{}).Where("scorer_id = ?", scorerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	err := q.Order("completed_at desc").Offset(offset).Limit(pageSize).Find(&rows).Error
	return rows, total, err
}

// MemoryMatchStore keeps everything in process memory. It backs tests and
// serves as the degraded-mode store when postgres is unreachable.
type MemoryMatchStore struct {
	mu      sync.RWMutex
	nextID  uint
	matches map[uint]*Match
	ballLog map[uint][]BallLogEntry
	history map[uint]*MatchHistory
}

func NewMemoryMatchStore() *MemoryMatchStore {
	return &MemoryMatchStore{
		nextID:  1,
		matches: make(map[uint]*Match),
		ballLog: make(map[uint][]BallLogEntry),
		history: make(map[uint]*MatchHistory),
	}
}

func (s *MemoryMatchStore) SaveMatch(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.nextID
		s.nextID++
	} else if m.ID >= s.nextID {
		s.nextID = m.ID + 1
	}
	m.State.ID = m.ID
	syncRow(m)
	stored := *m
	stored.State = *m.State.Clone()
	s.matches[m.ID] = &stored
	return nil
}

func (s *MemoryMatchStore) GetMatch(id uint) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMatch(s.matches[id]), nil
}

func (s *MemoryMatchStore) GetMatchByJoinCode(code string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *Match
	for _, m := range s.matches {
		if m.JoinCode == code && (best == nil || m.ID < best.ID) {
			best = m
		}
	}
	return copyMatch(best), nil
}

func (s *MemoryMatchStore) GetMatchByPublicID(publicID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.matches {
		if m.PublicID == publicID {
			return copyMatch(m), nil
		}
	}
	return nil, nil
}

func (s *MemoryMatchStore) ListMatches(scorerID uint, page, pageSize int) ([]Match, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []Match
	for _, m := range s.matches {
		if m.ScorerID == scorerID {
			all = append(all, *copyMatch(m))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []Match{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *MemoryMatchStore) ListTournamentMatches(tournamentID uint) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Match
	for _, m := range s.matches {
		if m.TournamentID != nil && *m.TournamentID == tournamentID {
			out = append(out, *copyMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryMatchStore) DeleteMatch(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	delete(s.ballLog, id)
	return nil
}

func (s *MemoryMatchStore) AppendBallLog(e *BallLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ballLog[e.MatchID] = append(s.ballLog[e.MatchID], *e)
	return nil
}

func (s *MemoryMatchStore) ListBallLog(matchID uint) ([]BallLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := append([]BallLogEntry(nil), s.ballLog[matchID]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	return entries, nil
}

func (s *MemoryMatchStore) SaveHistory(h *MatchHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *h
	s.history[h.MatchID] = &stored
	return nil
}

func (s *MemoryMatchStore) ListHistory(scorerID uint, page, pageSize int) ([]MatchHistory, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []MatchHistory
	for _, h := range s.history {
		if h.ScorerID == scorerID {
			all = append(all, *h)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CompletedAt.After(all[j].CompletedAt) })
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []MatchHistory{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func copyMatch(m *Match) *Match {
	if m == nil {
		return nil
	}
	out := *m
	out.State = *m.State.Clone()
	return &out
}

// FailoverStore writes through to the primary store and degrades to the
// in-memory fallback when the primary errors. A scorer mid-match keeps
// scoring on connectivity loss; only a warning is logged.
type FailoverStore struct {
	primary  MatchStore
	fallback MatchStore
}

func NewFailoverStore(primary MatchStore, fallback MatchStore) *FailoverStore {
	return &FailoverStore{primary: primary, fallback: fallback}
}

func (s *FailoverStore) SaveMatch(m *Match) error {
	if err := s.primary.SaveMatch(m); err != nil {
		logger.Warn("match save degraded to memory store", zap.Error(err))
		return s.fallback.SaveMatch(m)
	}
	// Mirror so reads keep working if the primary drops later.
	_ = s.fallback.SaveMatch(m)
	return nil
}

func (s *FailoverStore) GetMatch(id uint) (*Match, error) {
	m, err := s.primary.GetMatch(id)
	if err != nil {
		logger.Warn("match read degraded to memory store", zap.Error(err))
		return s.fallback.GetMatch(id)
	}
	if m == nil {
		return s.fallback.GetMatch(id)
	}
	return m, nil
}

func (s *FailoverStore) GetMatchByJoinCode(code string) (*Match, error) {
	m, err := s.primary.GetMatchByJoinCode(code)
	if err != nil {
		logger.Warn("join-code lookup degraded to memory store", zap.Error(err))
		return s.fallback.GetMatchByJoinCode(code)
	}
	if m == nil {
		return s.fallback.GetMatchByJoinCode(code)
	}
	return m, nil
}

func (s *FailoverStore) GetMatchByPublicID(publicID string) (*Match, error) {
	m, err := s.primary.GetMatchByPublicID(publicID)
	if err != nil {
		logger.Warn("public-id lookup degraded to memory store", zap.Error(err))
		return s.fallback.GetMatchByPublicID(publicID)
	}
	if m == nil {
		return s.fallback.GetMatchByPublicID(publicID)
	}
	return m, nil
}

func (s *FailoverStore) ListMatches(scorerID uint, page, pageSize int) ([]Match, int64, error) {
	matches, total, err := s.primary.ListMatches(scorerID, page, pageSize)
	if err != nil {
		logger.Warn("match list degraded to memory store", zap.Error(err))
		return s.fallback.ListMatches(scorerID, page, pageSize)
	}
	return matches, total, nil
}

func (s *FailoverStore) ListTournamentMatches(tournamentID uint) ([]Match, error) {
	matches, err := s.primary.ListTournamentMatches(tournamentID)
	if err != nil {
		logger.Warn("tournament match list degraded to memory store", zap.Error(err))
		return s.fallback.ListTournamentMatches(tournamentID)
	}
	return matches, nil
}

func (s *FailoverStore) DeleteMatch(id uint) error {
	_ = s.fallback.DeleteMatch(id)
	return s.primary.DeleteMatch(id)
}

func (s *FailoverStore) AppendBallLog(e *BallLogEntry) error {
	if err := s.primary.AppendBallLog(e); err != nil {
		logger.Warn("ball log append degraded to memory store", zap.Error(err))
		return s.fallback.AppendBallLog(e)
	}
	return nil
}

func (s *FailoverStore) ListBallLog(matchID uint) ([]BallLogEntry, error) {
	entries, err := s.primary.ListBallLog(matchID)
	if err != nil {
		logger.Warn("ball log read degraded to memory store", zap.Error(err))
		return s.fallback.ListBallLog(matchID)
	}
	return entries, nil
}

func (s *FailoverStore) SaveHistory(h *MatchHistory) error {
	if err := s.primary.SaveHistory(h); err != nil {
		logger.Warn("history save degraded to memory store", zap.Error(err))
		return s.fallback.SaveHistory(h)
	}
	return nil
}

func (s *FailoverStore) ListHistory(scorerID uint, page, pageSize int) ([]MatchHistory, int64, error) {
	rows, total, err := s.primary.ListHistory(scorerID, page, pageSize)
	if err != nil {
		logger.Warn("history list degraded to memory store", zap.Error(err))
		return s.fallback.ListHistory(scorerID, page, pageSize)
	}
	return rows, total, nil
}
