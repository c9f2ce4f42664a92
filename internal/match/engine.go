package match

import (
	"errors"
	"fmt"
	"time"
)

// Scoring refusals. The engine returns the input state unchanged alongside
// the error, so a caller that ignores the error still gets the historical
// no-op behavior.
var (
	ErrMatchNotLive      = errors.New("match is not live")
	ErrMatchCompleted    = errors.New("match already completed")
	ErrInningCompleted   = errors.New("inning already completed")
	ErrSelectionRequired = errors.New("striker, non-striker or bowler not selected")
	ErrInvalidDelivery   = errors.New("invalid delivery")
)

// ApplyDelivery scores one ball. It never mutates the input: the returned
// state is a fresh deep copy with the delivery applied, or the input itself
// when the delivery is refused.
func ApplyDelivery(state *MatchState, d Delivery) (*MatchState, error) {
	if state.Status == StatusCompleted {
		return state, ErrMatchCompleted
	}
	if state.Status != StatusLive {
		return state, ErrMatchNotLive
	}
	cur := state.CurrentInningState()
	if cur.IsCompleted {
		return state, ErrInningCompleted
	}
	if cur.StrikerID == nil || cur.BowlerID == nil || (cur.NonStrikerID == nil && !cur.LoneStriker) {
		return state, ErrSelectionRequired
	}
	if err := validateDelivery(d); err != nil {
		return state, err
	}

	out := state.Clone()
	inn := out.CurrentInningState()

	legal := d.ExtraType != ExtraWide && d.ExtraType != ExtraNoBall
	runOutRuns := 0
	if d.IsWicket && d.WicketType == DismissalRunOut {
		runOutRuns = d.RunOutRuns
	}

	event := BallEvent{
		Over:         inn.TotalBalls / 6,
		Ball:         inn.TotalBalls%6 + 1,
		BowlerID:     *inn.BowlerID,
		StrikerID:    *inn.StrikerID,
		NonStrikerID: inn.NonStrikerID,
		Runs:         d.Runs,
		ExtraRuns:    d.ExtraRuns,
		ExtraType:    normalizeExtra(d.ExtraType),
		IsWicket:     d.IsWicket,
		WicketType:   d.WicketType,
		DismissedID:  d.DismissedPlayerID,
		Fielder:      d.Fielder,
		RunOutRuns:   runOutRuns,
		CreatedAt:    time.Now().UTC(),
	}

	inn.TotalRuns += d.Runs + d.ExtraRuns + runOutRuns
	switch event.ExtraType {
	case ExtraWide:
		inn.Extras.Wides += d.ExtraRuns
	case ExtraNoBall:
		inn.Extras.NoBalls += d.ExtraRuns
	case ExtraBye:
		inn.Extras.Byes += d.ExtraRuns
	case ExtraLegBye:
		inn.Extras.LegByes += d.ExtraRuns
	}

	// Striker faces every ball except a wide.
	striker := *inn.StrikerID
	st := inn.Batting[striker]
	if event.ExtraType != ExtraWide {
		st.Balls++
	}
	if event.ExtraType == ExtraNone || event.ExtraType == ExtraNoBall {
		st.Runs += d.Runs
		switch d.Runs {
		case 4:
			st.Fours++
		case 6:
			st.Sixes++
		}
	}
	// Runs completed before a run-out count to the striker but never as
	// boundaries.
	st.Runs += runOutRuns
	inn.Batting[striker] = st

	if d.IsWicket {
		dismissed := striker
		if d.DismissedPlayerID != nil {
			dismissed = *d.DismissedPlayerID
		}
		ds := inn.Batting[dismissed]
		ds.IsOut = true
		ds.HowOut = dismissalText(d.WicketType, d.Fielder)
		inn.Batting[dismissed] = ds
		inn.TotalWickets++
		if dismissed == striker {
			inn.StrikerID = nil
		} else {
			inn.NonStrikerID = nil
		}
	}

	bowler := *inn.BowlerID
	bw := inn.Bowling[bowler]
	if legal {
		bw.Balls++
	}
	bw.RunsConceded += bowlerConceded(event)
	if d.IsWicket && d.WicketType != DismissalRunOut {
		bw.Wickets++
	}
	switch event.ExtraType {
	case ExtraWide:
		bw.Wides++
	case ExtraNoBall:
		bw.NoBalls++
	}
	inn.Bowling[bowler] = bw

	if legal {
		inn.TotalBalls++
	}

	inn.Balls = append(inn.Balls, event)
	overDone := legal && inn.TotalBalls%6 == 0
	if overDone {
		finished := append(append([]BallEvent(nil), inn.ThisOver...), event)
		if isMaiden(finished, bowler) {
			bw = inn.Bowling[bowler]
			bw.Maidens++
			inn.Bowling[bowler] = bw
		}
		// The completing ball is not carried into the next over's buffer.
		inn.ThisOver = []BallEvent{}
	} else {
		inn.ThisOver = append(inn.ThisOver, event)
	}

	rotateStrike(inn, event, overDone)
	resolveCompletion(out)
	return out, nil
}

func validateDelivery(d Delivery) error {
	switch d.Runs {
	case 0, 1, 2, 3, 4, 6:
	default:
		return fmt.Errorf("%w: runs off the bat must be 0,1,2,3,4 or 6", ErrInvalidDelivery)
	}
	if d.ExtraRuns < 0 || d.RunOutRuns < 0 {
		return fmt.Errorf("%w: negative run count", ErrInvalidDelivery)
	}
	switch normalizeExtra(d.ExtraType) {
	case ExtraNone, ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
	default:
		return fmt.Errorf("%w: unknown extra type %q", ErrInvalidDelivery, d.ExtraType)
	}
	if d.IsWicket {
		switch d.WicketType {
		case DismissalBowled, DismissalCaught, DismissalLBW, DismissalRunOut,
			DismissalStumped, DismissalHitWicket, DismissalRetired:
		default:
			return fmt.Errorf("%w: unknown wicket type %q", ErrInvalidDelivery, d.WicketType)
		}
	}
	return nil
}

func normalizeExtra(t ExtraType) ExtraType {
	if t == "" {
		return ExtraNone
	}
	return t
}

// bowlerConceded is what one delivery costs its bowler. Byes and leg byes
// are charged to the fielding side, not the bowler.
func bowlerConceded(e BallEvent) int {
	switch e.ExtraType {
	case ExtraWide:
		return e.ExtraRuns
	case ExtraNoBall:
		return e.ExtraRuns + e.Runs
	case ExtraBye, ExtraLegBye:
		return 0
	default:
		return e.Runs + e.RunOutRuns
	}
}

// isMaiden reports whether a completed over was bowled by a single bowler
// without conceding a run charged to them.
func isMaiden(over []BallEvent, bowler uint) bool {
	for _, e := range over {
		if e.BowlerID != bowler || bowlerConceded(e) > 0 {
			return false
		}
	}
	return len(over) > 0
}

// rotateStrike swaps ends on odd completed runs, then applies the over-end
// swap and forces bowler re-selection when the over just finished.
func rotateStrike(inn *InningState, e BallEvent, overDone bool) {
	rotRuns := e.Runs + e.RunOutRuns
	if e.ExtraType == ExtraWide {
		// One run of a wide is the penalty itself, not a crossed run.
		rotRuns = e.ExtraRuns - 1
		if rotRuns < 0 {
			rotRuns = 0
		}
	}
	if rotRuns%2 == 1 && !e.IsWicket && !inn.LoneStriker {
		inn.StrikerID, inn.NonStrikerID = inn.NonStrikerID, inn.StrikerID
	}
	if overDone {
		if !inn.LoneStriker {
			inn.StrikerID, inn.NonStrikerID = inn.NonStrikerID, inn.StrikerID
		}
		inn.BowlerID = nil
	}
}

// resolveCompletion locks finished innings and settles the match result.
// Called after every applied delivery.
func resolveCompletion(s *MatchState) {
	inn := s.CurrentInningState()
	squad := len(inn.Batting)
	allOut := !inn.LoneStriker && inn.TotalWickets >= squad-1
	oversDone := inn.TotalBalls >= s.Overs*6

	if s.CurrentInning == 0 {
		if allOut || oversDone {
			lockInning(inn)
			s.CurrentInning = 1
		}
		return
	}

	target := s.Innings[0].TotalRuns + 1
	chased := inn.TotalRuns >= target
	if !(allOut || oversDone || chased) {
		return
	}
	lockInning(inn)
	s.Status = StatusCompleted
	switch {
	case chased:
		s.WinnerTeamID = uintPtr(inn.BattingTeamID)
		s.Result = fmt.Sprintf("Won by %d wickets", (squad-1)-inn.TotalWickets)
	case inn.TotalRuns == target-1:
		s.WinnerTeamID = nil
		s.Result = "Match Tied"
	default:
		s.WinnerTeamID = uintPtr(inn.BowlingTeamID)
		s.Result = fmt.Sprintf("Won by %d runs", (target-1)-inn.TotalRuns)
	}
}

func lockInning(inn *InningState) {
	inn.IsCompleted = true
	inn.StrikerID = nil
	inn.NonStrikerID = nil
	inn.BowlerID = nil
}

func dismissalText(t DismissalType, fielder string) string {
	label := map[DismissalType]string{
		DismissalBowled:    "b",
		DismissalCaught:    "c",
		DismissalLBW:       "lbw",
		DismissalRunOut:    "run out",
		DismissalStumped:   "st",
		DismissalHitWicket: "hit wicket",
		DismissalRetired:   "retired",
	}[t]
	if label == "" {
		label = string(t)
	}
	if fielder == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, fielder)
}
