package tournament

import (
	"math"
	"sort"

	"github.com/Shaanmalik007/cricscore/internal/match"
	"github.com/Shaanmalik007/cricscore/pkg/cricket"
)

// StandingsRow is one team's line in the points table.
type StandingsRow struct {
	TeamID     uint    `json:"team_id"`
	TeamName   string  `json:"team_name"`
	GroupID    string  `json:"group_id,omitempty"`
	Played     int     `json:"played"`
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	Tied       int     `json:"tied"`
	Points     int     `json:"points"`
	NetRunRate float64 `json:"net_run_rate"`
}

// nrrAccum collects the raw quantities net run rate is computed from.
type nrrAccum struct {
	runsFor     int
	ballsFaced  int
	runsAgainst int
	ballsBowled int
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Standings computes the points table over completed matches. Two points a
// win, one each for a tie, none for a loss. Net run rate substitutes the
// full over allotment for a side bowled out early. Enrolled teams appear
// even with no matches played.
func Standings(matches []match.MatchState, entries []GroupEntry, group string) []StandingsRow {
	rows := make(map[uint]*StandingsRow)
	accums := make(map[uint]*nrrAccum)

	row := func(id uint, name, groupID string) *StandingsRow {
		if r, ok := rows[id]; ok {
			return r
		}
		r := &StandingsRow{TeamID: id, TeamName: name, GroupID: groupID}
		rows[id] = r
		accums[id] = &nrrAccum{}
		return r
	}

	for _, e := range entries {
		if group != "" && e.GroupID != group {
			continue
		}
		row(e.TeamID, e.TeamName, e.GroupID)
	}

	for i := range matches {
		s := &matches[i]
		if s.Status != match.StatusCompleted {
			continue
		}
		if group != "" && s.GroupID != group {
			continue
		}

		a := row(s.TeamA.ID, s.TeamA.Name, s.GroupID)
		b := row(s.TeamB.ID, s.TeamB.Name, s.GroupID)
		a.Played++
		b.Played++

		switch {
		case s.WinnerTeamID == nil:
			a.Tied++
			b.Tied++
			a.Points++
			b.Points++
		case *s.WinnerTeamID == a.TeamID:
			a.Won++
			a.Points += 2
			b.Lost++
		default:
			b.Won++
			b.Points += 2
			a.Lost++
		}

		for j := range s.Innings {
			inn := &s.Innings[j]
			batting, ok := accums[inn.BattingTeamID]
			if !ok {
				continue
			}
			bowling := accums[inn.BowlingTeamID]

			balls := inn.TotalBalls
			// A side bowled out is rated over the full allotment.
			if squad := len(inn.Batting); squad > 0 && inn.TotalWickets >= squad-1 {
				balls = s.Overs * cricket.BallsPerOver
			}
			batting.runsFor += inn.TotalRuns
			batting.ballsFaced += balls
			if bowling != nil {
				bowling.runsAgainst += inn.TotalRuns
				bowling.ballsBowled += balls
			}
		}
	}

	out := make([]StandingsRow, 0, len(rows))
	for id, r := range rows {
		acc := accums[id]
		nrr := 0.0
		if acc.ballsFaced > 0 {
			nrr += float64(acc.runsFor) / (float64(acc.ballsFaced) / cricket.BallsPerOver)
		}
		if acc.ballsBowled > 0 {
			nrr -= float64(acc.runsAgainst) / (float64(acc.ballsBowled) / cricket.BallsPerOver)
		}
		r.NetRunRate = round3(nrr)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].NetRunRate != out[j].NetRunRate {
			return out[i].NetRunRate > out[j].NetRunRate
		}
		return out[i].TeamName < out[j].TeamName
	})
	return out
}

// BatterRow is one player's cross-match batting line.
type BatterRow struct {
	PlayerID   uint    `json:"player_id"`
	Name       string  `json:"name"`
	TeamName   string  `json:"team_name"`
	Innings    int     `json:"innings"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	Outs       int     `json:"outs"`
	HighScore  int     `json:"high_score"`
	StrikeRate float64 `json:"strike_rate"`
	Average    float64 `json:"average"`
}

// BowlerRow is one player's cross-match bowling line.
type BowlerRow struct {
	PlayerID     uint    `json:"player_id"`
	Name         string  `json:"name"`
	TeamName     string  `json:"team_name"`
	Innings      int     `json:"innings"`
	Balls        int     `json:"balls"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	Maidens      int     `json:"maidens"`
	BestWickets  int     `json:"best_wickets"`
	BestRuns     int     `json:"best_runs"`
	Economy      float64 `json:"economy"`
	Average      float64 `json:"average"`
}

// Leaderboards accumulates per-player batting and bowling across live and
// completed matches. Batters rank by runs, bowlers by wickets then economy.
// A limit of 0 returns everyone who touched the ball.
func Leaderboards(matches []match.MatchState, limit int) ([]BatterRow, []BowlerRow) {
	batters := make(map[uint]*BatterRow)
	bowlers := make(map[uint]*BowlerRow)

	for i := range matches {
		s := &matches[i]
		if s.Status != match.StatusCompleted && s.Status != match.StatusLive {
			continue
		}
		names, teams := rosterIndex(s)

		for j := range s.Innings {
			inn := &s.Innings[j]
			for id, bs := range inn.Batting {
				if bs.Balls == 0 && bs.Runs == 0 && !bs.IsOut {
					continue
				}
				r, ok := batters[id]
				if !ok {
					r = &BatterRow{PlayerID: id, Name: names[id], TeamName: teams[id]}
					batters[id] = r
				}
				r.Innings++
				r.Runs += bs.Runs
				r.Balls += bs.Balls
				r.Fours += bs.Fours
				r.Sixes += bs.Sixes
				if bs.IsOut {
					r.Outs++
				}
				if bs.Runs > r.HighScore {
					r.HighScore = bs.Runs
				}
			}
			for id, bw := range inn.Bowling {
				if bw.Balls == 0 && bw.RunsConceded == 0 {
					continue
				}
				r, ok := bowlers[id]
				if !ok {
					r = &BowlerRow{PlayerID: id, Name: names[id], TeamName: teams[id]}
					bowlers[id] = r
				}
				r.Innings++
				r.Balls += bw.Balls
				r.RunsConceded += bw.RunsConceded
				r.Wickets += bw.Wickets
				r.Maidens += bw.Maidens
				if bw.Wickets > r.BestWickets ||
					(bw.Wickets == r.BestWickets && bw.RunsConceded < r.BestRuns) {
					r.BestWickets = bw.Wickets
					r.BestRuns = bw.RunsConceded
				}
			}
		}
	}

	battingOut := make([]BatterRow, 0, len(batters))
	for _, r := range batters {
		r.StrikeRate = cricket.StrikeRate(r.Runs, r.Balls)
		if r.Outs > 0 {
			r.Average = math.Round(float64(r.Runs)/float64(r.Outs)*100) / 100
		} else {
			r.Average = float64(r.Runs)
		}
		battingOut = append(battingOut, *r)
	}
	sort.Slice(battingOut, func(i, j int) bool {
		if battingOut[i].Runs != battingOut[j].Runs {
			return battingOut[i].Runs > battingOut[j].Runs
		}
		return battingOut[i].StrikeRate > battingOut[j].StrikeRate
	})

	bowlingOut := make([]BowlerRow, 0, len(bowlers))
	for _, r := range bowlers {
		r.Economy = cricket.Economy(r.RunsConceded, r.Balls)
		if r.Wickets > 0 {
			r.Average = math.Round(float64(r.RunsConceded)/float64(r.Wickets)*100) / 100
		}
		bowlingOut = append(bowlingOut, *r)
	}
	sort.Slice(bowlingOut, func(i, j int) bool {
		if bowlingOut[i].Wickets != bowlingOut[j].Wickets {
			return bowlingOut[i].Wickets > bowlingOut[j].Wickets
		}
		return bowlingOut[i].Economy < bowlingOut[j].Economy
	})

	if limit > 0 {
		if len(battingOut) > limit {
			battingOut = battingOut[:limit]
		}
		if len(bowlingOut) > limit {
			bowlingOut = bowlingOut[:limit]
		}
	}
	return battingOut, bowlingOut
}

// rosterIndex maps player ids to names and team names for one match.
func rosterIndex(s *match.MatchState) (map[uint]string, map[uint]string) {
	names := make(map[uint]string)
	teams := make(map[uint]string)
	for _, t := range []match.TeamSnapshot{s.TeamA, s.TeamB} {
		for _, p := range t.Players {
			names[p.ID] = p.Name
			teams[p.ID] = t.Name
		}
	}
	return names, teams
}
