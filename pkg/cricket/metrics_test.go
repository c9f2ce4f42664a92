package cricket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunRate(t *testing.T) {
	assert.Equal(t, 6.00, RunRate(120, 120))
	assert.Equal(t, 7.50, RunRate(30, 24))
	assert.Equal(t, 0.0, RunRate(50, 0))
}

func TestOversDisplay(t *testing.T) {
	assert.Equal(t, "2.5", OversDisplay(17))
	assert.Equal(t, "0.0", OversDisplay(0))
	assert.Equal(t, "1.0", OversDisplay(6))
	assert.Equal(t, "20.0", OversDisplay(120))
}

func TestStrikeRate(t *testing.T) {
	assert.Equal(t, 200.0, StrikeRate(50, 25))
	assert.Equal(t, 33.33, StrikeRate(1, 3))
	assert.Equal(t, 0.0, StrikeRate(10, 0))
}

func TestEconomy(t *testing.T) {
	assert.Equal(t, 7.50, Economy(30, 24))
	assert.Equal(t, 0.0, Economy(30, 0))
}

func TestProjectedScore(t *testing.T) {
	assert.Equal(t, Projection{}, ProjectedScore(0, 0, 20))

	// 60 runs off 10 overs with 10 overs left: 6/over projects to 120.
	p := ProjectedScore(60, 60, 20)
	assert.Equal(t, 120, p.Current)
	assert.Equal(t, 130, p.Plus)
	assert.Equal(t, 110, p.Minus)
}

func TestWinProbability_TargetReached(t *testing.T) {
	// Target already met wins regardless of everything else.
	assert.Equal(t, 100, WinProbability(10, 10, 0, 9, 1, 10))
	assert.Equal(t, 100, WinProbability(10, 15, 119, 9, 20, 10))
}

func TestWinProbability_Lost(t *testing.T) {
	// All out short of the target.
	assert.Equal(t, 0, WinProbability(100, 50, 60, 10, 20, 10))
	// Overs exhausted with runs still needed.
	assert.Equal(t, 0, WinProbability(100, 90, 120, 4, 20, 10))
}

func TestWinProbability_Heuristic(t *testing.T) {
	// 75/2 off 10 chasing 151 in 20: crr 7.5, rrr 7.6 -> 50 - 1 = 49.
	assert.Equal(t, 49, WinProbability(151, 75, 60, 2, 20, 10))

	// Same chase with 7 down: 3 wickets in hand docks 20.
	assert.Equal(t, 29, WinProbability(151, 75, 60, 7, 20, 10))

	// 120/9 off 15 chasing 151: crr 8, rrr 6.2 -> 68, minus 50 for the
	// last-wicket tail = 18. Exactly 30 balls remain, so no late-rate dock.
	assert.Equal(t, 18, WinProbability(151, 120, 90, 9, 20, 10))

	// 120/2 off 16 chasing 161: 41 needed off 24 at rrr 10.25 with under
	// 30 balls left docks 15 on top of the rate differential.
	assert.Equal(t, 8, WinProbability(161, 120, 96, 2, 20, 10))
}

func TestWinProbability_Clamped(t *testing.T) {
	// Hopeless chase clamps at 0 rather than going negative.
	assert.Equal(t, 0, WinProbability(300, 20, 90, 5, 20, 10))
	// Cruising chase clamps at 100.
	assert.Equal(t, 100, WinProbability(100, 99, 30, 0, 20, 10))
}
