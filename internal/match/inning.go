package match

// MinSquadSize is the smallest roster a team can bat with. With two
// batters a side loses its last pair after one wicket.
const MinSquadSize = 2

// NewInning builds a fresh inning for the given sides. Every roster entry
// gets a zeroed batting slot and every fielding-side entry a zeroed bowling
// slot, so stat maps never need lazy initialization during scoring. Role
// pointers start nil: scoring is refused until the scorer selects them.
func NewInning(batting, bowling TeamSnapshot) InningState {
	inn := InningState{
		BattingTeamID: batting.ID,
		BowlingTeamID: bowling.ID,
		ThisOver:      []BallEvent{},
		Balls:         []BallEvent{},
		Batting:       make(map[uint]BattingStats, len(batting.Players)),
		Bowling:       make(map[uint]BowlingStats, len(bowling.Players)),
	}
	for _, p := range batting.Players {
		inn.Batting[p.ID] = BattingStats{}
	}
	for _, p := range bowling.Players {
		inn.Bowling[p.ID] = BowlingStats{}
	}
	return inn
}
