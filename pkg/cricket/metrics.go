// Package cricket holds the pure scoring formulas: run rates, strike rates,
// overs formatting, projections and the chase win-probability heuristic.
// Everything here is stateless; divide-by-zero cases return zero values.
package cricket

import (
	"fmt"
	"math"
)

// BallsPerOver is fixed for limited-overs cricket.
const BallsPerOver = 6

// DefaultWickets is the number of wickets that ends a full-squad inning.
const DefaultWickets = 10

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RunRate returns runs per over for the given legal-ball count, rounded to
// 2 decimals. Zero when no legal balls have been bowled.
func RunRate(runs, legalBalls int) float64 {
	if legalBalls == 0 {
		return 0
	}
	return round2(float64(runs) / (float64(legalBalls) / BallsPerOver))
}

// OversDisplay formats a legal-ball count as "overs.balls", e.g. 17 -> "2.5".
func OversDisplay(legalBalls int) string {
	return fmt.Sprintf("%d.%d", legalBalls/BallsPerOver, legalBalls%BallsPerOver)
}

// StrikeRate returns runs per 100 balls faced, rounded to 2 decimals.
func StrikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return round2(float64(runs) / float64(balls) * 100)
}

// Economy returns runs conceded per over bowled, rounded to 2 decimals.
func Economy(runsConceded, legalBalls int) float64 {
	if legalBalls == 0 {
		return 0
	}
	return round2(float64(runsConceded) / (float64(legalBalls) / BallsPerOver))
}

// Projection extrapolates the current run rate across the full allotment,
// plus one-run-rate-faster and one-run-rate-slower scenarios.
type Projection struct {
	Current int `json:"current"`
	Plus    int `json:"plus"`
	Minus   int `json:"minus"`
}

// ProjectedScore extrapolates the innings total from the current run rate.
// All zero before the first ball is bowled.
func ProjectedScore(currentRuns, ballsBowled, totalOvers int) Projection {
	if ballsBowled == 0 {
		return Projection{}
	}
	crr := float64(currentRuns) / (float64(ballsBowled) / BallsPerOver)
	remaining := float64(totalOvers) - float64(ballsBowled)/BallsPerOver
	project := func(rate float64) int {
		if rate < 0 {
			rate = 0
		}
		return currentRuns + int(math.Round(rate*remaining))
	}
	return Projection{
		Current: project(crr),
		Plus:    project(crr + 1),
		Minus:   project(crr - 1),
	}
}

// WinProbability estimates the chasing side's chance of reaching the target,
// as an integer percentage. This is a display heuristic, not a model: start
// from 50, move with the run-rate differential, and dock points for a thin
// tail or a steep required rate late in the chase.
func WinProbability(target, currentRuns, ballsBowled, wicketsLost, totalOvers, totalWicketsAllowed int) int {
	if currentRuns >= target {
		return 100
	}

	ballsRemaining := totalOvers*BallsPerOver - ballsBowled
	wicketsInHand := totalWicketsAllowed - wicketsLost
	if wicketsInHand <= 0 || ballsRemaining <= 0 {
		return 0
	}

	runsNeeded := target - currentRuns
	currentRR := 0.0
	if ballsBowled > 0 {
		currentRR = float64(currentRuns) / (float64(ballsBowled) / BallsPerOver)
	}
	requiredRR := float64(runsNeeded) / (float64(ballsRemaining) / BallsPerOver)

	p := 50 + 10*(currentRR-requiredRR)

	if wicketsInHand <= 3 {
		p -= 20
		if wicketsInHand <= 1 {
			p -= 30
		}
	}
	if ballsRemaining < 30 && requiredRR > 10 {
		p -= 15
	}

	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return int(math.Round(p))
}
