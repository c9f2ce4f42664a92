package tournament

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaanmalik007/cricscore/internal/match"
)

func squad(base uint, name string) match.TeamSnapshot {
	t := match.TeamSnapshot{ID: base, Name: name}
	for i := uint(1); i <= 11; i++ {
		t.Players = append(t.Players, match.PlayerInfo{ID: base + i, Name: fmt.Sprintf("%s %d", name, i)})
	}
	return t
}

type inningScore struct {
	runs, wickets, balls int
}

func completedMatch(teamA, teamB match.TeamSnapshot, first, second inningScore, winner *uint) match.MatchState {
	s := match.MatchState{
		Overs:  20,
		Status: match.StatusCompleted,
		TeamA:  teamA,
		TeamB:  teamB,
		Innings: [2]match.InningState{
			match.NewInning(teamA, teamB),
			match.NewInning(teamB, teamA),
		},
		WinnerTeamID: winner,
	}
	s.Innings[0].TotalRuns = first.runs
	s.Innings[0].TotalWickets = first.wickets
	s.Innings[0].TotalBalls = first.balls
	s.Innings[1].TotalRuns = second.runs
	s.Innings[1].TotalWickets = second.wickets
	s.Innings[1].TotalBalls = second.balls
	return s
}

func teamID(id uint) *uint { return &id }

func TestStandingsNetRunRate(t *testing.T) {
	falcons := squad(100, "Falcons")
	tigers := squad(200, "Tigers")
	matches := []match.MatchState{
		completedMatch(falcons, tigers,
			inningScore{200, 6, 120},
			inningScore{180, 8, 120},
			teamID(100)),
	}

	rows := Standings(matches, nil, "")
	require.Len(t, rows, 2)
	assert.Equal(t, uint(100), rows[0].TeamID)
	assert.Equal(t, 2, rows[0].Points)
	assert.Equal(t, 1, rows[0].Won)
	assert.Equal(t, 1.0, rows[0].NetRunRate)
	assert.Equal(t, 0, rows[1].Points)
	assert.Equal(t, -1.0, rows[1].NetRunRate)
}

func TestStandingsAllOutUsesFullAllotment(t *testing.T) {
	falcons := squad(100, "Falcons")
	tigers := squad(200, "Tigers")
	// Tigers bowled out for 100 in 10 overs: rated as if they used all 20.
	matches := []match.MatchState{
		completedMatch(falcons, tigers,
			inningScore{200, 4, 120},
			inningScore{100, 10, 60},
			teamID(100)),
	}

	rows := Standings(matches, nil, "")
	require.Len(t, rows, 2)
	// Falcons: 200/20 scored, 100/20 conceded.
	assert.Equal(t, 5.0, rows[0].NetRunRate)
	assert.Equal(t, -5.0, rows[1].NetRunRate)
}

func TestStandingsTieSplitsPoints(t *testing.T) {
	falcons := squad(100, "Falcons")
	tigers := squad(200, "Tigers")
	matches := []match.MatchState{
		completedMatch(falcons, tigers,
			inningScore{150, 7, 120},
			inningScore{150, 9, 120},
			nil),
	}

	rows := Standings(matches, nil, "")
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Points)
	assert.Equal(t, 1, rows[1].Points)
	assert.Equal(t, 1, rows[0].Tied)
	assert.Equal(t, 0, rows[0].Won)
}

func TestStandingsOrderingAndSeededEntries(t *testing.T) {
	falcons := squad(100, "Falcons")
	tigers := squad(200, "Tigers")
	hawks := squad(300, "Hawks")
	matches := []match.MatchState{
		completedMatch(falcons, tigers,
			inningScore{180, 5, 120},
			inningScore{120, 9, 120},
			teamID(100)),
		completedMatch(hawks, tigers,
			inningScore{160, 6, 120},
			inningScore{161, 4, 110},
			teamID(200)),
	}
	entries := []GroupEntry{
		{TournamentID: 1, TeamID: 100, TeamName: "Falcons"},
		{TournamentID: 1, TeamID: 200, TeamName: "Tigers"},
		{TournamentID: 1, TeamID: 300, TeamName: "Hawks"},
		{TournamentID: 1, TeamID: 400, TeamName: "Wolves"},
	}

	rows := Standings(matches, entries, "")
	require.Len(t, rows, 4)
	// Falcons and Tigers both have 2 points; Falcons' NRR is higher.
	// Wolves never played, so their zero NRR beats Hawks' negative one.
	assert.Equal(t, "Falcons", rows[0].TeamName)
	assert.Equal(t, "Tigers", rows[1].TeamName)
	assert.Equal(t, "Wolves", rows[2].TeamName)
	assert.Equal(t, "Hawks", rows[3].TeamName)
	assert.Equal(t, 0, rows[2].Played)
}

func TestStandingsSkipsLiveMatches(t *testing.T) {
	falcons := squad(100, "Falcons")
	tigers := squad(200, "Tigers")
	m := completedMatch(falcons, tigers, inningScore{100, 2, 60}, inningScore{}, nil)
	m.Status = match.StatusLive

	rows := Standings([]match.MatchState{m}, nil, "")
	assert.Empty(t, rows)
}

func TestLeaderboards(t *testing.T) {
	falcons := squad(100, "Falcons")
	tigers := squad(200, "Tigers")
	m := completedMatch(falcons, tigers,
		inningScore{160, 4, 120},
		inningScore{140, 8, 120},
		teamID(100))
	m.Innings[0].Batting[101] = match.BattingStats{Runs: 80, Balls: 50, Fours: 8, Sixes: 2, IsOut: true, HowOut: "c Tigers 3"}
	m.Innings[0].Batting[102] = match.BattingStats{Runs: 40, Balls: 40}
	m.Innings[0].Bowling[201] = match.BowlingStats{Balls: 24, RunsConceded: 30, Wickets: 3}
	m.Innings[1].Batting[202] = match.BattingStats{Runs: 60, Balls: 45, IsOut: true}
	m.Innings[1].Bowling[101] = match.BowlingStats{Balls: 24, RunsConceded: 20, Wickets: 2, Maidens: 1}

	batters, bowlers := Leaderboards([]match.MatchState{m}, 10)

	require.NotEmpty(t, batters)
	top := batters[0]
	assert.Equal(t, uint(101), top.PlayerID)
	assert.Equal(t, "Falcons 1", top.Name)
	assert.Equal(t, 80, top.Runs)
	assert.Equal(t, 80, top.HighScore)
	assert.Equal(t, 160.0, top.StrikeRate)
	assert.Equal(t, 80.0, top.Average)

	require.NotEmpty(t, bowlers)
	best := bowlers[0]
	assert.Equal(t, uint(201), best.PlayerID)
	assert.Equal(t, 3, best.Wickets)
	assert.Equal(t, 3, best.BestWickets)
	assert.Equal(t, 30, best.BestRuns)
	assert.Equal(t, 7.5, best.Economy)
	assert.Equal(t, 10.0, best.Average)

	// The all-rounder appears on both boards.
	assert.Equal(t, uint(101), bowlers[1].PlayerID)
	assert.Equal(t, 5.0, bowlers[1].Economy)
}

func TestLeaderboardsLimit(t *testing.T) {
	falcons := squad(100, "Falcons")
	tigers := squad(200, "Tigers")
	m := completedMatch(falcons, tigers,
		inningScore{100, 2, 120},
		inningScore{90, 3, 120},
		teamID(100))
	for i := uint(101); i <= 105; i++ {
		m.Innings[0].Batting[i] = match.BattingStats{Runs: int(i - 100), Balls: 10}
	}

	batters, _ := Leaderboards([]match.MatchState{m}, 2)
	assert.Len(t, batters, 2)
	assert.Equal(t, 5, batters[0].Runs)
}
