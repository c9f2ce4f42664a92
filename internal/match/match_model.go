package match

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MatchStatus is one-directional: SCHEDULED -> LIVE -> COMPLETED.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
)

// ExtraType for runs not scored off the bat
type ExtraType string

const (
	ExtraNone   ExtraType = "none"
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "no_ball"
	ExtraBye    ExtraType = "bye"
	ExtraLegBye ExtraType = "leg_bye"
)

// DismissalType for cricket wickets
type DismissalType string

const (
	DismissalBowled    DismissalType = "bowled"
	DismissalCaught    DismissalType = "caught"
	DismissalLBW       DismissalType = "lbw"
	DismissalRunOut    DismissalType = "run_out"
	DismissalStumped   DismissalType = "stumped"
	DismissalHitWicket DismissalType = "hit_wicket"
	DismissalRetired   DismissalType = "retired"
)

// CoinSide is a toss call or result.
type CoinSide string

const (
	CoinHeads CoinSide = "heads"
	CoinTails CoinSide = "tails"
)

// TossDecision is what the toss winner chose to do first.
type TossDecision string

const (
	DecisionBat  TossDecision = "bat"
	DecisionBowl TossDecision = "bowl"
)

// PlayerInfo is the match-local copy of a roster entry.
type PlayerInfo struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// TeamSnapshot is the frozen copy of a competing team taken at match
// creation. Editing the source team later never changes this record.
type TeamSnapshot struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	ShortName string       `json:"short_name,omitempty"`
	Players   []PlayerInfo `json:"players"`
}

// BattingStats is one batter's line in an inning.
type BattingStats struct {
	Runs   int    `json:"runs"`
	Balls  int    `json:"balls"`
	Fours  int    `json:"fours"`
	Sixes  int    `json:"sixes"`
	IsOut  bool   `json:"is_out"`
	HowOut string `json:"how_out,omitempty"`
}

// BowlingStats is one bowler's line in an inning. Wickets excludes run-outs.
type BowlingStats struct {
	Balls        int `json:"balls"`
	Maidens      int `json:"maidens"`
	RunsConceded int `json:"runs_conceded"`
	Wickets      int `json:"wickets"`
	Wides        int `json:"wides"`
	NoBalls      int `json:"no_balls"`
}

// Extras are per-inning counters, strictly additive.
type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
	Byes    int `json:"byes"`
	LegByes int `json:"leg_byes"`
}

// Total returns the combined extras count.
func (e Extras) Total() int {
	return e.Wides + e.NoBalls + e.Byes + e.LegByes
}

// BallEvent is the immutable record of one delivery. Over is 0-based, Ball
// is the 1-based legal-ball slot within the over. Events are append-only;
// undo discards whole snapshots, never edits an event.
type BallEvent struct {
	Over         int           `json:"over"`
	Ball         int           `json:"ball"`
	BowlerID     uint          `json:"bowler_id"`
	StrikerID    uint          `json:"striker_id"`
	NonStrikerID *uint         `json:"non_striker_id,omitempty"`
	Runs         int           `json:"runs"`
	ExtraRuns    int           `json:"extra_runs"`
	ExtraType    ExtraType     `json:"extra_type"`
	IsWicket     bool          `json:"is_wicket"`
	WicketType   DismissalType `json:"wicket_type,omitempty"`
	DismissedID  *uint         `json:"dismissed_id,omitempty"`
	Fielder      string        `json:"fielder,omitempty"`
	RunOutRuns   int           `json:"run_out_runs,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (e BallEvent) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan unmarshals a JSONB column into the struct.
func (e *BallEvent) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("BallEvent: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, e)
}

// Toss records who called what and what the winner chose.
type Toss struct {
	CallerTeamID uint         `json:"caller_team_id"`
	Call         CoinSide     `json:"call"`
	Result       CoinSide     `json:"result"`
	WinnerTeamID uint         `json:"winner_team_id"`
	Decision     TossDecision `json:"decision"`
}

// InningState is one team's batting session. Role ids are nil when a
// selection is pending; scoring is refused until they are set.
type InningState struct {
	BattingTeamID uint                  `json:"batting_team_id"`
	BowlingTeamID uint                  `json:"bowling_team_id"`
	TotalRuns     int                   `json:"total_runs"`
	TotalWickets  int                   `json:"total_wickets"`
	TotalBalls    int                   `json:"total_balls"`
	Extras        Extras                `json:"extras"`
	ThisOver      []BallEvent           `json:"this_over"`
	Balls         []BallEvent           `json:"balls"`
	Batting       map[uint]BattingStats `json:"batting"`
	Bowling       map[uint]BowlingStats `json:"bowling"`
	StrikerID     *uint                 `json:"striker_id,omitempty"`
	NonStrikerID  *uint                 `json:"non_striker_id,omitempty"`
	BowlerID      *uint                 `json:"bowler_id,omitempty"`
	IsCompleted   bool                  `json:"is_completed"`
	LoneStriker   bool                  `json:"lone_striker"`
}

// MatchState is the full scoring document. It is the unit of persistence,
// broadcast and undo: the engine never mutates one in place, it returns a
// fresh value.
type MatchState struct {
	ID            uint           `json:"id"`
	PublicID      string         `json:"public_id"`
	JoinCode      string         `json:"join_code,omitempty"`
	IsPublic      bool           `json:"is_public"`
	Name          string         `json:"name"`
	Overs         int            `json:"overs"`
	MatchType     string         `json:"match_type"`
	TournamentID  *uint          `json:"tournament_id,omitempty"`
	GroupID       string         `json:"group_id,omitempty"`
	TeamA         TeamSnapshot   `json:"team_a"`
	TeamB         TeamSnapshot   `json:"team_b"`
	Toss          *Toss          `json:"toss,omitempty"`
	Status        MatchStatus    `json:"status"`
	CurrentInning int            `json:"current_inning"`
	Innings       [2]InningState `json:"innings"`
	WinnerTeamID  *uint          `json:"winner_team_id,omitempty"`
	Result        string         `json:"result,omitempty"`
}

func (s MatchState) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan unmarshals a JSONB column into the struct.
func (s *MatchState) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("MatchState: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}

// TeamByID returns the snapshot for the given team id, nil if neither side
// matches.
func (s *MatchState) TeamByID(id uint) *TeamSnapshot {
	if s.TeamA.ID == id {
		return &s.TeamA
	}
	if s.TeamB.ID == id {
		return &s.TeamB
	}
	return nil
}

// CurrentInningState returns the inning scoring currently applies to.
func (s *MatchState) CurrentInningState() *InningState {
	return &s.Innings[s.CurrentInning]
}

// Clone returns a deep copy. Maps and event slices are copied so the result
// shares no mutable structure with the receiver.
func (s *MatchState) Clone() *MatchState {
	out := *s
	if s.TournamentID != nil {
		out.TournamentID = uintPtr(*s.TournamentID)
	}
	if s.WinnerTeamID != nil {
		out.WinnerTeamID = uintPtr(*s.WinnerTeamID)
	}
	if s.Toss != nil {
		toss := *s.Toss
		out.Toss = &toss
	}
	out.TeamA.Players = clonePlayers(s.TeamA.Players)
	out.TeamB.Players = clonePlayers(s.TeamB.Players)
	for i := range s.Innings {
		out.Innings[i] = cloneInning(&s.Innings[i])
	}
	return &out
}

func cloneInning(in *InningState) InningState {
	out := *in
	out.ThisOver = cloneEvents(in.ThisOver)
	out.Balls = cloneEvents(in.Balls)
	out.Batting = make(map[uint]BattingStats, len(in.Batting))
	for id, bs := range in.Batting {
		out.Batting[id] = bs
	}
	out.Bowling = make(map[uint]BowlingStats, len(in.Bowling))
	for id, bw := range in.Bowling {
		out.Bowling[id] = bw
	}
	if in.StrikerID != nil {
		out.StrikerID = uintPtr(*in.StrikerID)
	}
	if in.NonStrikerID != nil {
		out.NonStrikerID = uintPtr(*in.NonStrikerID)
	}
	if in.BowlerID != nil {
		out.BowlerID = uintPtr(*in.BowlerID)
	}
	return out
}

// cloneEvents preserves nil-ness and emptiness so a clone stays deep-equal
// to its source.
func cloneEvents(in []BallEvent) []BallEvent {
	if in == nil {
		return nil
	}
	out := make([]BallEvent, len(in))
	copy(out, in)
	return out
}

func clonePlayers(in []PlayerInfo) []PlayerInfo {
	if in == nil {
		return nil
	}
	out := make([]PlayerInfo, len(in))
	copy(out, in)
	return out
}

func uintPtr(v uint) *uint { return &v }

// Match is the persisted row. Query columns are denormalized from State on
// every save; State itself is the authoritative document.
type Match struct {
	gorm.Model
	ScorerID     uint        `json:"scorer_id" gorm:"index"`
	PublicID     string      `json:"public_id" gorm:"uniqueIndex"`
	JoinCode     string      `json:"join_code" gorm:"index"`
	IsPublic     bool        `json:"is_public"`
	Name         string      `json:"name"`
	Status       MatchStatus `json:"status" gorm:"index"`
	TournamentID *uint       `json:"tournament_id,omitempty" gorm:"index"`
	GroupID      string      `json:"group_id,omitempty"`
	State        MatchState  `json:"state" gorm:"type:jsonb"`
}

// BallLogEntry is the append-only per-match timeline projection. It is a
// read-side convenience; scoring correctness never depends on it.
type BallLogEntry struct {
	gorm.Model
	MatchID uint      `json:"match_id" gorm:"index;not null"`
	Inning  int       `json:"inning" gorm:"not null"`
	Seq     int       `json:"seq" gorm:"not null"`
	Event   BallEvent `json:"event" gorm:"type:jsonb"`
}

// Delivery is one ball's outcome as submitted by the scorer. Runs off the
// bat are constrained at the boundary to 0,1,2,3,4,6; the engine rejects
// anything else with ErrInvalidDelivery.
type Delivery struct {
	Runs              int           `json:"runs" binding:"oneof=0 1 2 3 4 6"`
	ExtraRuns         int           `json:"extra_runs" binding:"min=0"`
	ExtraType         ExtraType     `json:"extra_type" binding:"omitempty,oneof=none wide no_ball bye leg_bye"`
	IsWicket          bool          `json:"is_wicket"`
	WicketType        DismissalType `json:"wicket_type,omitempty" binding:"omitempty,oneof=bowled caught lbw run_out stumped hit_wicket retired"`
	DismissedPlayerID *uint         `json:"dismissed_player_id,omitempty"`
	Fielder           string        `json:"fielder,omitempty"`
	RunOutRuns        int           `json:"run_out_runs,omitempty" binding:"min=0"`
}
