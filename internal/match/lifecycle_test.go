package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScorerID = uint(7)

func newTestSession() (*Session, *MemoryMatchStore) {
	store := NewMemoryMatchStore()
	return NewSession(store, nil), store
}

func createStartedMatch(t *testing.T, sess *Session) *MatchState {
	t.Helper()
	created, err := sess.CreateMatch(testScorerID, CreateMatchInput{
		Name:      "Falcons vs Tigers",
		Overs:     20,
		MatchType: "T20",
		IsPublic:  true,
		TeamA:     testTeam(100, "Falcons"),
		TeamB:     testTeam(200, "Tigers"),
	})
	require.NoError(t, err)
	require.Equal(t, StatusScheduled, created.Status)
	require.Len(t, created.JoinCode, 6)
	require.NotEmpty(t, created.PublicID)

	started, err := sess.StartMatch(testScorerID, created.ID, Toss{
		CallerTeamID: 100,
		Call:         CoinHeads,
		Result:       CoinHeads,
		WinnerTeamID: 100,
		Decision:     DecisionBat,
	})
	require.NoError(t, err)
	return started
}

func TestSessionStartAssignsInnings(t *testing.T) {
	sess, _ := newTestSession()
	state := createStartedMatch(t, sess)

	assert.Equal(t, StatusLive, state.Status)
	assert.Equal(t, uint(100), state.Innings[0].BattingTeamID)
	assert.Equal(t, uint(200), state.Innings[0].BowlingTeamID)
	assert.Equal(t, uint(200), state.Innings[1].BattingTeamID)
	assert.Len(t, state.Innings[0].Batting, 11)
	assert.Len(t, state.Innings[0].Bowling, 11)

	active, ok := sess.ActiveMatch(testScorerID)
	assert.True(t, ok)
	assert.Equal(t, state.ID, active)
}

func TestSessionTossBowlFirstReversesInnings(t *testing.T) {
	sess, _ := newTestSession()
	created, err := sess.CreateMatch(testScorerID, CreateMatchInput{
		Name:  "Falcons vs Tigers",
		Overs: 20,
		TeamA: testTeam(100, "Falcons"),
		TeamB: testTeam(200, "Tigers"),
	})
	require.NoError(t, err)
	started, err := sess.StartMatch(testScorerID, created.ID, Toss{
		WinnerTeamID: 100,
		Decision:     DecisionBowl,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(200), started.Innings[0].BattingTeamID)
	assert.Equal(t, uint(100), started.Innings[1].BattingTeamID)
}

func TestSessionCreateRejectsSameTeams(t *testing.T) {
	sess, _ := newTestSession()
	_, err := sess.CreateMatch(testScorerID, CreateMatchInput{
		Name:  "solo",
		Overs: 20,
		TeamA: testTeam(100, "Falcons"),
		TeamB: testTeam(100, "Falcons"),
	})
	assert.ErrorIs(t, err, ErrInvalidTeams)
}

func TestSessionRecordBallNeedsSelections(t *testing.T) {
	sess, _ := newTestSession()
	state := createStartedMatch(t, sess)

	_, err := sess.RecordBall(testScorerID, state.ID, Delivery{Runs: 1})
	assert.ErrorIs(t, err, ErrSelectionRequired)
}

func TestSessionScoringFlow(t *testing.T) {
	sess, _ := newTestSession()
	state := createStartedMatch(t, sess)

	_, err := sess.SetBatsmen(testScorerID, state.ID, 101, uintPtr(102), false)
	require.NoError(t, err)
	_, err = sess.SetBowler(testScorerID, state.ID, 201)
	require.NoError(t, err)

	next, err := sess.RecordBall(testScorerID, state.ID, Delivery{Runs: 4})
	require.NoError(t, err)
	inn := next.CurrentInningState()
	assert.Equal(t, 4, inn.TotalRuns)
	assert.Equal(t, 1, inn.TotalBalls)
	assert.Equal(t, 4, inn.Batting[101].Runs)
}

func TestSessionSetBatsmenValidation(t *testing.T) {
	sess, _ := newTestSession()
	state := createStartedMatch(t, sess)

	_, err := sess.SetBatsmen(testScorerID, state.ID, 999, uintPtr(102), false)
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = sess.SetBatsmen(testScorerID, state.ID, 101, nil, false)
	assert.ErrorIs(t, err, ErrNonStrikerNeeded)

	lone, err := sess.SetBatsmen(testScorerID, state.ID, 101, nil, true)
	require.NoError(t, err)
	assert.True(t, lone.CurrentInningState().LoneStriker)
	assert.Nil(t, lone.CurrentInningState().NonStrikerID)
}

func TestSessionUndoRoundTrip(t *testing.T) {
	sess, store := newTestSession()
	state := createStartedMatch(t, sess)
	_, err := sess.SetBatsmen(testScorerID, state.ID, 101, uintPtr(102), false)
	require.NoError(t, err)
	_, err = sess.SetBowler(testScorerID, state.ID, 201)
	require.NoError(t, err)

	before, err := store.GetMatch(state.ID)
	require.NoError(t, err)

	_, err = sess.RecordBall(testScorerID, state.ID, Delivery{Runs: 6})
	require.NoError(t, err)

	restored, err := sess.Undo(testScorerID, state.ID)
	require.NoError(t, err)
	assert.Equal(t, &before.State, restored)

	_, err = sess.Undo(testScorerID, state.ID)
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestSessionUndoDepthIsBounded(t *testing.T) {
	sess, _ := newTestSession()
	state := createStartedMatch(t, sess)
	_, err := sess.SetBatsmen(testScorerID, state.ID, 101, uintPtr(102), false)
	require.NoError(t, err)
	_, err = sess.SetBowler(testScorerID, state.ID, 201)
	require.NoError(t, err)

	for i := 0; i < UndoDepth+3; i++ {
		_, err = sess.RecordBall(testScorerID, state.ID, Delivery{})
		require.NoError(t, err)
		latest, gerr := sess.SetBowler(testScorerID, state.ID, 201)
		require.NoError(t, gerr)
		require.NotNil(t, latest)
	}

	for i := 0; i < UndoDepth; i++ {
		_, err = sess.Undo(testScorerID, state.ID)
		require.NoError(t, err)
	}
	_, err = sess.Undo(testScorerID, state.ID)
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestSessionUndoRevivesCompletedMatch(t *testing.T) {
	sess, store := newTestSession()
	row := &Match{ScorerID: testScorerID, State: *secondInningsAt(145, 3, 90)}
	require.NoError(t, store.SaveMatch(row))

	done, err := sess.RecordBall(testScorerID, row.ID, Delivery{Runs: 6})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, done.Status)
	_, active := sess.ActiveMatch(testScorerID)
	assert.False(t, active)

	restored, err := sess.Undo(testScorerID, row.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusLive, restored.Status)
	activeID, ok := sess.ActiveMatch(testScorerID)
	assert.True(t, ok)
	assert.Equal(t, row.ID, activeID)
}

func TestSessionBallLogSurvivesUndo(t *testing.T) {
	sess, store := newTestSession()
	state := createStartedMatch(t, sess)
	_, err := sess.SetBatsmen(testScorerID, state.ID, 101, uintPtr(102), false)
	require.NoError(t, err)
	_, err = sess.SetBowler(testScorerID, state.ID, 201)
	require.NoError(t, err)

	_, err = sess.RecordBall(testScorerID, state.ID, Delivery{Runs: 2})
	require.NoError(t, err)
	_, err = sess.Undo(testScorerID, state.ID)
	require.NoError(t, err)

	entries, err := store.ListBallLog(state.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the timeline projection is append-only")
}

func TestSessionAbandonPicksHigherRunRate(t *testing.T) {
	sess, store := newTestSession()
	state := newLiveMatch(20)
	state.Innings[0].TotalRuns = 60
	state.Innings[0].TotalBalls = 60
	state.Innings[0].IsCompleted = true
	state.CurrentInning = 1
	state.Innings[1].TotalRuns = 30
	state.Innings[1].TotalBalls = 24
	row := &Match{ScorerID: testScorerID, State: *state}
	require.NoError(t, store.SaveMatch(row))

	done, err := sess.Abandon(testScorerID, row.ID, "rain")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	require.NotNil(t, done.WinnerTeamID)
	assert.Equal(t, uint(200), *done.WinnerTeamID)
	assert.Contains(t, done.Result, "rain")

	rows, total, err := store.ListHistory(testScorerID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, done.Result, rows[0].Result)
}

func TestSessionAbandonEqualRatesNoWinner(t *testing.T) {
	sess, store := newTestSession()
	state := newLiveMatch(20)
	state.Innings[0].TotalRuns = 48
	state.Innings[0].TotalBalls = 48
	state.Innings[1].TotalRuns = 24
	state.Innings[1].TotalBalls = 24
	row := &Match{ScorerID: testScorerID, State: *state}
	require.NoError(t, store.SaveMatch(row))

	done, err := sess.Abandon(testScorerID, row.ID, "bad light")
	require.NoError(t, err)
	assert.Nil(t, done.WinnerTeamID)
	assert.Equal(t, "Match abandoned: bad light", done.Result)
}

func TestSessionOwnership(t *testing.T) {
	sess, _ := newTestSession()
	state := createStartedMatch(t, sess)

	_, err := sess.RecordBall(99, state.ID, Delivery{Runs: 1})
	assert.ErrorIs(t, err, ErrNotMatchScorer)

	_, err = sess.RecordBall(testScorerID, 424242, Delivery{Runs: 1})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
