package match

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shaanmalik007/cricscore/pkg/cricket"
	"github.com/Shaanmalik007/cricscore/pkg/logger"
	"github.com/Shaanmalik007/cricscore/pkg/utils"
	"go.uber.org/zap"
)

// UndoDepth bounds the per-match snapshot history.
const UndoDepth = 10

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrNotMatchScorer   = errors.New("match belongs to another scorer")
	ErrMatchNotStarted  = errors.New("match has not started")
	ErrAlreadyStarted   = errors.New("match already started")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrInvalidTeams     = errors.New("two distinct teams with enough players are required")
	ErrUnknownPlayer    = errors.New("player is not in the batting side")
	ErrUnknownBowler    = errors.New("player is not in the bowling side")
	ErrNonStrikerNeeded = errors.New("non-striker required unless lone-striker mode")
)

// CreateMatchInput carries everything needed to schedule a match. Team
// snapshots are frozen copies resolved by the caller.
type CreateMatchInput struct {
	Name         string
	Overs        int
	MatchType    string
	IsPublic     bool
	TournamentID *uint
	GroupID      string
	TeamA        TeamSnapshot
	TeamB        TeamSnapshot
}

// Session serializes all scoring mutations. One ball at a time per process;
// the mutex is the ordering guarantee the undo stack depends on.
type Session struct {
	mu          sync.Mutex
	store       MatchStore
	broadcaster *Broadcaster
	active      map[uint]uint          // scorer id -> active match id
	undo        map[uint][]*MatchState // match id -> snapshots, most recent first
}

func NewSession(store MatchStore, broadcaster *Broadcaster) *Session {
	return &Session{
		store:       store,
		broadcaster: broadcaster,
		active:      make(map[uint]uint),
		undo:        make(map[uint][]*MatchState),
	}
}

// ActiveMatch reports the match the scorer is currently running, if any.
func (s *Session) ActiveMatch(scorerID uint) (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.active[scorerID]
	return id, ok
}

// CreateMatch schedules a new match with placeholder innings. Roles, toss
// and innings setup happen at start time.
func (s *Session) CreateMatch(scorerID uint, in CreateMatchInput) (*MatchState, error) {
	if in.TeamA.ID == in.TeamB.ID ||
		len(in.TeamA.Players) < MinSquadSize || len(in.TeamB.Players) < MinSquadSize {
		return nil, ErrInvalidTeams
	}
	if in.Overs <= 0 {
		return nil, fmt.Errorf("%w: overs must be positive", ErrInvalidTeams)
	}
	state := &MatchState{
		PublicID:     uuid.NewString(),
		JoinCode:     utils.GenerateJoinCode(),
		IsPublic:     in.IsPublic,
		Name:         in.Name,
		Overs:        in.Overs,
		MatchType:    in.MatchType,
		TournamentID: in.TournamentID,
		GroupID:      in.GroupID,
		TeamA:        in.TeamA,
		TeamB:        in.TeamB,
		Status:       StatusScheduled,
	}
	row := &Match{ScorerID: scorerID, State: *state}
	if err := s.store.SaveMatch(row); err != nil {
		return nil, err
	}
	return row.State.Clone(), nil
}

// StartMatch applies the toss, builds both innings from the full rosters
// and goes live. The match becomes the scorer's active match.
func (s *Session) StartMatch(scorerID, matchID uint, toss Toss) (*MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.loadOwned(scorerID, matchID)
	if err != nil {
		return nil, err
	}
	state := &row.State
	if state.Status != StatusScheduled {
		return nil, ErrAlreadyStarted
	}
	winner := state.TeamByID(toss.WinnerTeamID)
	if winner == nil {
		return nil, fmt.Errorf("%w: toss winner %d is not playing", ErrInvalidTeams, toss.WinnerTeamID)
	}
	if toss.Decision != DecisionBat && toss.Decision != DecisionBowl {
		return nil, fmt.Errorf("%w: toss decision must be bat or bowl", ErrInvalidTeams)
	}

	batting, bowling := *winner, otherTeam(state, winner.ID)
	if toss.Decision == DecisionBowl {
		batting, bowling = bowling, batting
	}
	t := toss
	state.Toss = &t
	state.Innings[0] = NewInning(batting, bowling)
	state.Innings[1] = NewInning(bowling, batting)
	state.Status = StatusLive
	state.CurrentInning = 0

	if err := s.store.SaveMatch(row); err != nil {
		return nil, err
	}
	s.active[scorerID] = matchID
	s.publish(&row.State)
	return row.State.Clone(), nil
}

// SetBatsmen assigns the batting pair. The non-striker may be omitted only
// in lone-striker mode. Locked innings reject the assignment.
func (s *Session) SetBatsmen(scorerID, matchID, strikerID uint, nonStrikerID *uint, loneStriker bool) (*MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.loadOwned(scorerID, matchID)
	if err != nil {
		return nil, err
	}
	state := &row.State
	if state.Status != StatusLive {
		return nil, ErrMatchNotStarted
	}
	inn := state.CurrentInningState()
	if inn.IsCompleted {
		return nil, ErrInningCompleted
	}
	if _, ok := inn.Batting[strikerID]; !ok {
		return nil, ErrUnknownPlayer
	}
	if nonStrikerID == nil && !loneStriker {
		return nil, ErrNonStrikerNeeded
	}
	if nonStrikerID != nil {
		if _, ok := inn.Batting[*nonStrikerID]; !ok || *nonStrikerID == strikerID {
			return nil, ErrUnknownPlayer
		}
	}

	inn.StrikerID = uintPtr(strikerID)
	inn.NonStrikerID = nil
	if nonStrikerID != nil {
		inn.NonStrikerID = uintPtr(*nonStrikerID)
	}
	inn.LoneStriker = loneStriker

	if err := s.store.SaveMatch(row); err != nil {
		return nil, err
	}
	s.publish(&row.State)
	return row.State.Clone(), nil
}

// SetBowler assigns the bowler for the over in progress.
func (s *Session) SetBowler(scorerID, matchID, bowlerID uint) (*MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.loadOwned(scorerID, matchID)
	if err != nil {
		return nil, err
	}
	state := &row.State
	if state.Status != StatusLive {
		return nil, ErrMatchNotStarted
	}
	inn := state.CurrentInningState()
	if inn.IsCompleted {
		return nil, ErrInningCompleted
	}
	if _, ok := inn.Bowling[bowlerID]; !ok {
		return nil, ErrUnknownBowler
	}

	inn.BowlerID = uintPtr(bowlerID)
	if err := s.store.SaveMatch(row); err != nil {
		return nil, err
	}
	s.publish(&row.State)
	return row.State.Clone(), nil
}

// RecordBall scores one delivery. A snapshot of the prior state is pushed
// onto the undo stack only when the engine accepts the ball. Engine
// refusals (completed match, locked inning, missing selections, invalid
// outcome) come back as typed errors with the state untouched.
func (s *Session) RecordBall(scorerID, matchID uint, d Delivery) (*MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.loadOwned(scorerID, matchID)
	if err != nil {
		return nil, err
	}
	prior := row.State.Clone()
	inningIdx := row.State.CurrentInning

	next, err := ApplyDelivery(&row.State, d)
	if err != nil {
		return next.Clone(), err
	}

	s.pushUndo(matchID, prior)
	row.State = *next
	if err := s.store.SaveMatch(row); err != nil {
		return nil, err
	}
	s.appendBallLog(row, inningIdx)
	s.publish(&row.State)

	if row.State.Status == StatusCompleted {
		s.finishLocked(row)
	}
	return row.State.Clone(), nil
}

// Undo restores the match to the snapshot taken before the last recorded
// ball. Undoing a completing ball revives the match to LIVE and restores
// the scorer's active-match pointer.
func (s *Session) Undo(scorerID, matchID uint) (*MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.loadOwned(scorerID, matchID)
	if err != nil {
		return nil, err
	}
	stack := s.undo[matchID]
	if len(stack) == 0 {
		return nil, ErrNothingToUndo
	}
	restored := stack[0]
	s.undo[matchID] = stack[1:]

	wasCompleted := row.State.Status == StatusCompleted
	row.State = *restored.Clone()
	if err := s.store.SaveMatch(row); err != nil {
		return nil, err
	}
	if wasCompleted && row.State.Status == StatusLive {
		s.active[scorerID] = matchID
	}
	s.publish(&row.State)
	return row.State.Clone(), nil
}

// Abandon force-completes a match. The side with the higher innings run
// rate so far wins; equal rates produce no winner.
func (s *Session) Abandon(scorerID, matchID uint, reason string) (*MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.loadOwned(scorerID, matchID)
	if err != nil {
		return nil, err
	}
	state := &row.State
	if state.Status == StatusCompleted {
		return nil, ErrMatchCompleted
	}
	if state.Status != StatusLive {
		return nil, ErrMatchNotStarted
	}

	rrA := cricket.RunRate(state.Innings[0].TotalRuns, state.Innings[0].TotalBalls)
	rrB := cricket.RunRate(state.Innings[1].TotalRuns, state.Innings[1].TotalBalls)
	var winnerID *uint
	switch {
	case rrA > rrB:
		winnerID = uintPtr(state.Innings[0].BattingTeamID)
	case rrB > rrA:
		winnerID = uintPtr(state.Innings[1].BattingTeamID)
	}

	desc := fmt.Sprintf("Match abandoned: %s", reason)
	if winnerID != nil {
		if team := state.TeamByID(*winnerID); team != nil {
			desc = fmt.Sprintf("%s won on run rate (abandoned: %s)", team.Name, reason)
		}
	}
	return s.finalizeLocked(row, winnerID, desc)
}

// Finalize completes a live match with an explicit winner and description.
// Natural completion uses the same path internally.
func (s *Session) Finalize(scorerID, matchID uint, winnerID *uint, description string) (*MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.loadOwned(scorerID, matchID)
	if err != nil {
		return nil, err
	}
	if row.State.Status == StatusCompleted {
		return nil, ErrMatchCompleted
	}
	return s.finalizeLocked(row, winnerID, description)
}

// finalizeLocked stamps the result, persists, and records history. Caller
// holds the mutex.
func (s *Session) finalizeLocked(row *Match, winnerID *uint, description string) (*MatchState, error) {
	state := &row.State
	lockInning(state.CurrentInningState())
	state.Status = StatusCompleted
	state.WinnerTeamID = winnerID
	state.Result = description

	if err := s.store.SaveMatch(row); err != nil {
		return nil, err
	}
	s.publish(&row.State)
	s.finishLocked(row)
	return row.State.Clone(), nil
}

// finishLocked runs the end-of-match bookkeeping: history row and active
// pointer cleanup. Caller holds the mutex.
func (s *Session) finishLocked(row *Match) {
	if err := s.store.SaveHistory(BuildHistory(row.ScorerID, &row.State)); err != nil {
		logger.Warn("history write failed", zap.Uint("match_id", row.ID), zap.Error(err))
	}
	if s.active[row.ScorerID] == row.ID {
		delete(s.active, row.ScorerID)
	}
}

func (s *Session) pushUndo(matchID uint, snapshot *MatchState) {
	stack := append([]*MatchState{snapshot}, s.undo[matchID]...)
	if len(stack) > UndoDepth {
		stack = stack[:UndoDepth]
	}
	s.undo[matchID] = stack
}

// appendBallLog writes the just-applied event as a read-side projection
// row. Rows are append-only; undo does not rewrite them.
func (s *Session) appendBallLog(row *Match, inningIdx int) {
	inn := &row.State.Innings[inningIdx]
	if len(inn.Balls) == 0 {
		return
	}
	seq := len(row.State.Innings[0].Balls) + len(row.State.Innings[1].Balls)
	entry := &BallLogEntry{
		MatchID: row.ID,
		Inning:  inningIdx,
		Seq:     seq,
		Event:   inn.Balls[len(inn.Balls)-1],
	}
	if err := s.store.AppendBallLog(entry); err != nil {
		logger.Warn("ball log append failed", zap.Uint("match_id", row.ID), zap.Error(err))
	}
}

func (s *Session) publish(state *MatchState) {
	if s.broadcaster == nil {
		return
	}
	snapshot := state.Clone()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.broadcaster.PublishState(ctx, snapshot); err != nil {
			logger.Warn("live snapshot publish failed", zap.String("public_id", snapshot.PublicID), zap.Error(err))
		}
	}()
}

func (s *Session) loadOwned(scorerID, matchID uint) (*Match, error) {
	row, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrMatchNotFound
	}
	if row.ScorerID != scorerID {
		return nil, ErrNotMatchScorer
	}
	return row, nil
}

func otherTeam(s *MatchState, id uint) TeamSnapshot {
	if s.TeamA.ID == id {
		return s.TeamB
	}
	return s.TeamA
}
