package match

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shaanmalik007/cricscore/pkg/cricket"
	"gorm.io/gorm"
)

// InningSummary is one inning's line on a finished scorecard.
type InningSummary struct {
	TeamID   uint    `json:"team_id"`
	TeamName string  `json:"team_name"`
	Runs     int     `json:"runs"`
	Wickets  int     `json:"wickets"`
	Balls    int     `json:"balls"`
	Overs    string  `json:"overs"`
	Extras   int     `json:"extras"`
	RunRate  float64 `json:"run_rate"`
}

// InningSummaries is stored as a JSONB column.
type InningSummaries []InningSummary

func (s InningSummaries) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *InningSummaries) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("InningSummaries: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}

// MatchHistory is the durable row written once when a match finishes. It is
// a reduced projection of the final state, sized for list screens.
type MatchHistory struct {
	gorm.Model
	MatchID      uint            `json:"match_id" gorm:"uniqueIndex"`
	ScorerID     uint            `json:"scorer_id" gorm:"index"`
	PublicID     string          `json:"public_id"`
	Name         string          `json:"name"`
	JoinCode     string          `json:"join_code"`
	MatchType    string          `json:"match_type"`
	Overs        int             `json:"overs"`
	TeamAName    string          `json:"team_a_name"`
	TeamBName    string          `json:"team_b_name"`
	Summaries    InningSummaries `json:"summaries" gorm:"type:jsonb"`
	WinnerTeamID *uint           `json:"winner_team_id,omitempty"`
	Result       string          `json:"result"`
	CompletedAt  time.Time       `json:"completed_at"`
}

// BuildHistory reduces a finished match state to its history row.
func BuildHistory(scorerID uint, s *MatchState) *MatchHistory {
	h := &MatchHistory{
		MatchID:     s.ID,
		ScorerID:    scorerID,
		PublicID:    s.PublicID,
		Name:        s.Name,
		JoinCode:    s.JoinCode,
		MatchType:   s.MatchType,
		Overs:       s.Overs,
		TeamAName:   s.TeamA.Name,
		TeamBName:   s.TeamB.Name,
		Result:      s.Result,
		CompletedAt: time.Now().UTC(),
	}
	if s.WinnerTeamID != nil {
		h.WinnerTeamID = uintPtr(*s.WinnerTeamID)
	}
	for i := range s.Innings {
		inn := &s.Innings[i]
		name := ""
		if team := s.TeamByID(inn.BattingTeamID); team != nil {
			name = team.Name
		}
		h.Summaries = append(h.Summaries, InningSummary{
			TeamID:   inn.BattingTeamID,
			TeamName: name,
			Runs:     inn.TotalRuns,
			Wickets:  inn.TotalWickets,
			Balls:    inn.TotalBalls,
			Overs:    cricket.OversDisplay(inn.TotalBalls),
			Extras:   inn.Extras.Total(),
			RunRate:  cricket.RunRate(inn.TotalRuns, inn.TotalBalls),
		})
	}
	return h
}
