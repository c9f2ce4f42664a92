package spectator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaanmalik007/cricscore/internal/match"
)

func chaseState() *match.MatchState {
	team := func(base uint, name string) match.TeamSnapshot {
		t := match.TeamSnapshot{ID: base, Name: name}
		for i := uint(1); i <= 11; i++ {
			t.Players = append(t.Players, match.PlayerInfo{ID: base + i, Name: fmt.Sprintf("%s %d", name, i)})
		}
		return t
	}
	teamA := team(100, "Falcons")
	teamB := team(200, "Tigers")
	s := &match.MatchState{
		Name:          "Falcons vs Tigers",
		Overs:         20,
		Status:        match.StatusLive,
		CurrentInning: 1,
		TeamA:         teamA,
		TeamB:         teamB,
		Innings: [2]match.InningState{
			match.NewInning(teamA, teamB),
			match.NewInning(teamB, teamA),
		},
	}
	s.Innings[0].TotalRuns = 150
	s.Innings[0].TotalWickets = 6
	s.Innings[0].TotalBalls = 120
	s.Innings[0].IsCompleted = true
	s.Innings[1].TotalRuns = 75
	s.Innings[1].TotalBalls = 60
	s.Innings[1].TotalWickets = 2
	return s
}

func TestBuildScoreboardChase(t *testing.T) {
	board := BuildScoreboard(chaseState())

	require.Len(t, board.Innings, 2)
	assert.Equal(t, "20.0", board.Innings[0].Overs)
	assert.Equal(t, 7.5, board.Innings[0].RunRate)
	assert.Equal(t, "10.0", board.Innings[1].Overs)

	require.NotNil(t, board.Chase)
	assert.Equal(t, 151, board.Chase.Target)
	assert.Equal(t, 76, board.Chase.RunsNeeded)
	assert.Equal(t, 7.6, board.Chase.RequiredRunRate)
	assert.Equal(t, 49, board.Chase.WinProbability)
}

func TestBuildScoreboardNoChaseInFirstInnings(t *testing.T) {
	s := chaseState()
	s.CurrentInning = 0
	s.Innings[0].IsCompleted = false

	board := BuildScoreboard(s)
	assert.Nil(t, board.Chase)
}

func TestBuildScoreboardCompletedMatchHasNoChase(t *testing.T) {
	s := chaseState()
	s.Status = match.StatusCompleted

	board := BuildScoreboard(s)
	assert.Nil(t, board.Chase)
}
