package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTeam(base uint, name string) TeamSnapshot {
	players := make([]PlayerInfo, 0, 11)
	for i := uint(1); i <= 11; i++ {
		players = append(players, PlayerInfo{ID: base + i, Name: fmt.Sprintf("%s %d", name, i)})
	}
	return TeamSnapshot{ID: base, Name: name, Players: players}
}

func newLiveMatch(overs int) *MatchState {
	teamA := testTeam(100, "Falcons")
	teamB := testTeam(200, "Tigers")
	s := &MatchState{
		ID:     1,
		Name:   "Falcons vs Tigers",
		Overs:  overs,
		Status: StatusLive,
		TeamA:  teamA,
		TeamB:  teamB,
		Innings: [2]InningState{
			NewInning(teamA, teamB),
			NewInning(teamB, teamA),
		},
	}
	setRoles(s, 101, 102, 201)
	return s
}

func setRoles(s *MatchState, striker, nonStriker, bowler uint) {
	inn := s.CurrentInningState()
	inn.StrikerID = uintPtr(striker)
	inn.NonStrikerID = uintPtr(nonStriker)
	inn.BowlerID = uintPtr(bowler)
}

func mustApply(t *testing.T, s *MatchState, d Delivery) *MatchState {
	t.Helper()
	next, err := ApplyDelivery(s, d)
	require.NoError(t, err)
	return next
}

func TestApplyDeliveryBallCountInvariant(t *testing.T) {
	s := newLiveMatch(20)
	deliveries := []Delivery{
		{Runs: 1},
		{ExtraType: ExtraWide, ExtraRuns: 1},
		{Runs: 4},
		{ExtraType: ExtraNoBall, ExtraRuns: 1, Runs: 2},
		{ExtraType: ExtraBye, ExtraRuns: 1},
		{Runs: 0},
	}
	for _, d := range deliveries {
		s = mustApply(t, s, d)
	}

	inn := s.CurrentInningState()
	legal := 0
	for _, e := range inn.Balls {
		if e.ExtraType != ExtraWide && e.ExtraType != ExtraNoBall {
			legal++
		}
	}
	assert.Equal(t, legal, inn.TotalBalls)
	assert.Equal(t, 4, inn.TotalBalls)
	assert.Len(t, inn.Balls, 6)
}

func TestApplyDeliveryWicketCountInvariant(t *testing.T) {
	s := newLiveMatch(20)
	s = mustApply(t, s, Delivery{Runs: 2})
	s = mustApply(t, s, Delivery{IsWicket: true, WicketType: DismissalBowled})
	setRoles(s, 103, *s.CurrentInningState().NonStrikerID, 201)
	s = mustApply(t, s, Delivery{IsWicket: true, WicketType: DismissalCaught, Fielder: "Tigers 5"})

	inn := s.CurrentInningState()
	wickets := 0
	for _, e := range inn.Balls {
		if e.IsWicket {
			wickets++
		}
	}
	assert.Equal(t, wickets, inn.TotalWickets)
	assert.Equal(t, 2, inn.TotalWickets)
}

func TestApplyDeliveryCompletedMatchIsNoOp(t *testing.T) {
	s := newLiveMatch(20)
	s = mustApply(t, s, Delivery{Runs: 4})
	s.Status = StatusCompleted

	got, err := ApplyDelivery(s, Delivery{Runs: 6})
	assert.ErrorIs(t, err, ErrMatchCompleted)
	assert.Equal(t, s, got)
}

func TestApplyDeliveryMonotonicity(t *testing.T) {
	s := newLiveMatch(20)
	prevRuns, prevWkts, prevBalls := 0, 0, 0
	deliveries := []Delivery{
		{Runs: 2},
		{ExtraType: ExtraWide, ExtraRuns: 1},
		{Runs: 0},
		{IsWicket: true, WicketType: DismissalLBW},
	}
	for _, d := range deliveries {
		s = mustApply(t, s, d)
		inn := s.CurrentInningState()
		assert.GreaterOrEqual(t, inn.TotalRuns, prevRuns)
		assert.GreaterOrEqual(t, inn.TotalWickets, prevWkts)
		assert.GreaterOrEqual(t, inn.TotalBalls, prevBalls)
		prevRuns, prevWkts, prevBalls = inn.TotalRuns, inn.TotalWickets, inn.TotalBalls
		if inn.StrikerID == nil {
			inn.StrikerID = uintPtr(103)
		}
	}
}

func TestApplyDeliverySingleRunRotatesStrike(t *testing.T) {
	s := newLiveMatch(20)
	s = mustApply(t, s, Delivery{Runs: 1})

	inn := s.CurrentInningState()
	assert.Equal(t, uint(102), *inn.StrikerID)
	assert.Equal(t, uint(101), *inn.NonStrikerID)
}

func TestApplyDeliveryOverCompletion(t *testing.T) {
	s := newLiveMatch(20)
	for i := 0; i < 6; i++ {
		s = mustApply(t, s, Delivery{Runs: 0})
	}

	inn := s.CurrentInningState()
	assert.Empty(t, inn.ThisOver)
	assert.Nil(t, inn.BowlerID)
	// Over-end swap: the non-striker takes strike for the new over.
	assert.Equal(t, uint(102), *inn.StrikerID)
	assert.Equal(t, uint(101), *inn.NonStrikerID)
	assert.Equal(t, 6, inn.TotalBalls)
	assert.Equal(t, 1, inn.Bowling[201].Maidens)
}

func TestApplyDeliveryThisOverBuffer(t *testing.T) {
	s := newLiveMatch(20)
	for i := 0; i < 5; i++ {
		s = mustApply(t, s, Delivery{Runs: 0})
	}
	assert.Len(t, s.CurrentInningState().ThisOver, 5)

	s = mustApply(t, s, Delivery{ExtraType: ExtraWide, ExtraRuns: 1})
	assert.Len(t, s.CurrentInningState().ThisOver, 6, "a wide does not close the over")

	s = mustApply(t, s, Delivery{Runs: 0})
	assert.Empty(t, s.CurrentInningState().ThisOver)
}

func TestApplyDeliveryByeFacedBall(t *testing.T) {
	s := newLiveMatch(20)
	s = mustApply(t, s, Delivery{ExtraType: ExtraBye, ExtraRuns: 2})

	inn := s.CurrentInningState()
	striker := inn.Batting[101]
	assert.Equal(t, 1, striker.Balls, "a bye is a faced ball")
	assert.Equal(t, 0, striker.Runs)
	assert.Equal(t, 2, inn.TotalRuns)
	assert.Equal(t, 2, inn.Extras.Byes)
	assert.Equal(t, 1, inn.TotalBalls)
	assert.Equal(t, 0, inn.Bowling[201].RunsConceded)
}

func TestApplyDeliveryWideNotFaced(t *testing.T) {
	s := newLiveMatch(20)
	s = mustApply(t, s, Delivery{ExtraType: ExtraWide, ExtraRuns: 1})

	inn := s.CurrentInningState()
	assert.Equal(t, 0, inn.Batting[101].Balls)
	assert.Equal(t, 0, inn.TotalBalls)
	assert.Equal(t, 1, inn.TotalRuns)
	assert.Equal(t, 1, inn.Extras.Wides)
	assert.Equal(t, 1, inn.Bowling[201].RunsConceded)
	assert.Equal(t, 1, inn.Bowling[201].Wides)
	// Strike holds: the single wide run is the penalty, nobody crossed.
	assert.Equal(t, uint(101), *inn.StrikerID)
}

func TestApplyDeliveryWideWithCrossedRuns(t *testing.T) {
	s := newLiveMatch(20)
	// Wide plus one completed run: two total extras, one crossing.
	s = mustApply(t, s, Delivery{ExtraType: ExtraWide, ExtraRuns: 2})

	inn := s.CurrentInningState()
	assert.Equal(t, 2, inn.TotalRuns)
	assert.Equal(t, uint(102), *inn.StrikerID)
}

func TestApplyDeliveryNoBall(t *testing.T) {
	s := newLiveMatch(20)
	s = mustApply(t, s, Delivery{ExtraType: ExtraNoBall, ExtraRuns: 1, Runs: 4})

	inn := s.CurrentInningState()
	striker := inn.Batting[101]
	assert.Equal(t, 1, striker.Balls)
	assert.Equal(t, 4, striker.Runs)
	assert.Equal(t, 1, striker.Fours)
	assert.Equal(t, 5, inn.TotalRuns)
	assert.Equal(t, 0, inn.TotalBalls)
	assert.Equal(t, 5, inn.Bowling[201].RunsConceded)
	assert.Equal(t, 1, inn.Bowling[201].NoBalls)
}

func TestApplyDeliveryRunOutOfNonStriker(t *testing.T) {
	s := newLiveMatch(20)
	s = mustApply(t, s, Delivery{
		IsWicket:          true,
		WicketType:        DismissalRunOut,
		DismissedPlayerID: uintPtr(102),
		Fielder:           "Tigers 7",
		RunOutRuns:        1,
	})

	inn := s.CurrentInningState()
	assert.Equal(t, 1, inn.TotalRuns)
	assert.Equal(t, 1, inn.TotalWickets)
	assert.Nil(t, inn.NonStrikerID)
	require.NotNil(t, inn.StrikerID)
	assert.Equal(t, uint(101), *inn.StrikerID)

	striker := inn.Batting[101]
	assert.Equal(t, 1, striker.Runs, "completed runs before the run-out belong to the striker")
	assert.Equal(t, 0, striker.Fours)
	out := inn.Batting[102]
	assert.True(t, out.IsOut)
	assert.Equal(t, "run out Tigers 7", out.HowOut)
	assert.Equal(t, 0, inn.Bowling[201].Wickets, "run-outs are not the bowler's wicket")
	assert.Equal(t, 1, inn.Bowling[201].RunsConceded)
}

func TestApplyDeliveryBowlerWicket(t *testing.T) {
	s := newLiveMatch(20)
	s = mustApply(t, s, Delivery{IsWicket: true, WicketType: DismissalBowled})

	inn := s.CurrentInningState()
	assert.Nil(t, inn.StrikerID)
	assert.Equal(t, 1, inn.Bowling[201].Wickets)
	assert.Equal(t, "b", inn.Batting[101].HowOut)
}

func TestApplyDeliverySelectionRequired(t *testing.T) {
	s := newLiveMatch(20)
	s.CurrentInningState().BowlerID = nil

	got, err := ApplyDelivery(s, Delivery{Runs: 1})
	assert.ErrorIs(t, err, ErrSelectionRequired)
	assert.Equal(t, s, got)
}

func TestApplyDeliveryRejectsBadRuns(t *testing.T) {
	s := newLiveMatch(20)
	got, err := ApplyDelivery(s, Delivery{Runs: 5})
	assert.ErrorIs(t, err, ErrInvalidDelivery)
	assert.Equal(t, s, got)
}

func TestApplyDeliveryAllOut(t *testing.T) {
	s := newLiveMatch(20)
	nextBatter := uint(103)
	for w := 0; w < 10; w++ {
		s = mustApply(t, s, Delivery{IsWicket: true, WicketType: DismissalBowled})
		if s.Innings[0].IsCompleted {
			break
		}
		// New batter in, and fresh bowler after a completed over.
		inn := s.CurrentInningState()
		if inn.StrikerID == nil {
			inn.StrikerID = uintPtr(nextBatter)
			nextBatter++
		}
		if inn.NonStrikerID == nil {
			inn.NonStrikerID = uintPtr(nextBatter)
			nextBatter++
		}
		if inn.BowlerID == nil {
			inn.BowlerID = uintPtr(201)
		}
	}

	first := &s.Innings[0]
	assert.True(t, first.IsCompleted)
	assert.Equal(t, 10, first.TotalWickets)
	assert.Nil(t, first.StrikerID)
	assert.Nil(t, first.NonStrikerID)
	assert.Nil(t, first.BowlerID)
	assert.Equal(t, 1, s.CurrentInning)
	assert.Equal(t, StatusLive, s.Status)
}

func TestApplyDeliveryLoneStriker(t *testing.T) {
	s := newLiveMatch(20)
	inn := s.CurrentInningState()
	inn.TotalWickets = 10
	inn.LoneStriker = true
	inn.NonStrikerID = nil

	s = mustApply(t, s, Delivery{Runs: 1})
	inn = s.CurrentInningState()
	assert.False(t, inn.IsCompleted, "lone-striker mode suspends all-out")
	assert.Equal(t, uint(101), *inn.StrikerID, "odd runs do not swap a lone striker")
}

func secondInningsAt(runs, wickets, balls int) *MatchState {
	s := newLiveMatch(20)
	s.Innings[0].TotalRuns = 150
	s.Innings[0].TotalWickets = 10
	s.Innings[0].TotalBalls = 120
	lockInning(&s.Innings[0])
	s.CurrentInning = 1
	setRoles(s, 201, 202, 101)
	inn := s.CurrentInningState()
	inn.TotalRuns = runs
	inn.TotalWickets = wickets
	inn.TotalBalls = balls
	return s
}

func TestApplyDeliveryTargetChaseWin(t *testing.T) {
	s := secondInningsAt(145, 3, 90)
	s = mustApply(t, s, Delivery{Runs: 6})

	assert.Equal(t, StatusCompleted, s.Status)
	require.NotNil(t, s.WinnerTeamID)
	assert.Equal(t, uint(200), *s.WinnerTeamID)
	assert.Equal(t, "Won by 7 wickets", s.Result)
	assert.True(t, s.Innings[1].IsCompleted)
}

func TestApplyDeliveryTie(t *testing.T) {
	s := secondInningsAt(150, 9, 115)
	s = mustApply(t, s, Delivery{IsWicket: true, WicketType: DismissalRunOut, DismissedPlayerID: uintPtr(201)})

	assert.Equal(t, StatusCompleted, s.Status)
	assert.Nil(t, s.WinnerTeamID)
	assert.Equal(t, "Match Tied", s.Result)
}

func TestApplyDeliveryDefendedTotal(t *testing.T) {
	s := secondInningsAt(130, 5, 119)
	s = mustApply(t, s, Delivery{Runs: 2})

	assert.Equal(t, StatusCompleted, s.Status)
	require.NotNil(t, s.WinnerTeamID)
	assert.Equal(t, uint(100), *s.WinnerTeamID, "the side that batted first defends its total")
	assert.Equal(t, "Won by 18 runs", s.Result)
}

func TestApplyDeliveryFirstInningsOversDone(t *testing.T) {
	s := newLiveMatch(1)
	for i := 0; i < 6; i++ {
		s = mustApply(t, s, Delivery{Runs: 0})
	}

	assert.True(t, s.Innings[0].IsCompleted)
	assert.Equal(t, 1, s.CurrentInning)
	assert.Equal(t, StatusLive, s.Status)
	next, err := ApplyDelivery(s, Delivery{Runs: 1})
	assert.ErrorIs(t, err, ErrSelectionRequired)
	assert.Equal(t, s, next)
}

func TestApplyDeliveryDoesNotMutateInput(t *testing.T) {
	s := newLiveMatch(20)
	before := s.Clone()
	_ = mustApply(t, s, Delivery{Runs: 4, IsWicket: true, WicketType: DismissalCaught})
	assert.Equal(t, before, s)
}
