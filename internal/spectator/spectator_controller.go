package spectator

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shaanmalik007/cricscore/internal/match"
	"github.com/Shaanmalik007/cricscore/pkg/cricket"
	"github.com/Shaanmalik007/cricscore/pkg/responses"
)

// InningView is one inning's line plus its derived display metrics.
type InningView struct {
	BattingTeamID uint               `json:"batting_team_id"`
	Runs          int                `json:"runs"`
	Wickets       int                `json:"wickets"`
	Overs         string             `json:"overs"`
	RunRate       float64            `json:"run_rate"`
	Extras        int                `json:"extras"`
	Projected     cricket.Projection `json:"projected"`
}

// Chase is shown while the second innings is in progress.
type Chase struct {
	Target          int     `json:"target"`
	RunsNeeded      int     `json:"runs_needed"`
	RequiredRunRate float64 `json:"required_run_rate"`
	WinProbability  int     `json:"win_probability"`
}

// Scoreboard is the spectator view of a match: the raw state plus the
// numbers a score screen renders.
type Scoreboard struct {
	Match   *match.MatchState `json:"match"`
	Innings []InningView      `json:"innings"`
	Chase   *Chase            `json:"chase,omitempty"`
}

// BuildScoreboard derives the display metrics from a match state.
func BuildScoreboard(state *match.MatchState) *Scoreboard {
	board := &Scoreboard{Match: state}
	for i := range state.Innings {
		inn := &state.Innings[i]
		board.Innings = append(board.Innings, InningView{
			BattingTeamID: inn.BattingTeamID,
			Runs:          inn.TotalRuns,
			Wickets:       inn.TotalWickets,
			Overs:         cricket.OversDisplay(inn.TotalBalls),
			RunRate:       cricket.RunRate(inn.TotalRuns, inn.TotalBalls),
			Extras:        inn.Extras.Total(),
			Projected:     cricket.ProjectedScore(inn.TotalRuns, inn.TotalBalls, state.Overs),
		})
	}
	if state.Status == match.StatusLive && state.CurrentInning == 1 {
		second := &state.Innings[1]
		target := state.Innings[0].TotalRuns + 1
		ballsRemaining := state.Overs*cricket.BallsPerOver - second.TotalBalls
		board.Chase = &Chase{
			Target:          target,
			RunsNeeded:      target - second.TotalRuns,
			RequiredRunRate: cricket.RunRate(target-second.TotalRuns, ballsRemaining),
			WinProbability: cricket.WinProbability(
				target, second.TotalRuns, second.TotalBalls, second.TotalWickets,
				state.Overs, len(second.Batting)-1,
			),
		}
	}
	return board
}

// CheerRequest is one spectator reaction.
type CheerRequest struct {
	Category string `json:"category" binding:"required,oneof=appreciation excitement celebration surprise"`
}

// SpectatorController serves the unauthenticated read side keyed by join
// code. Knowing the code is the access grant.
type SpectatorController struct {
	store       match.MatchStore
	broadcaster *match.Broadcaster
}

func NewSpectatorController(store match.MatchStore, broadcaster *match.Broadcaster) *SpectatorController {
	return &SpectatorController{store: store, broadcaster: broadcaster}
}

// matchByCode resolves a join code, writing the 404 envelope on a miss.
func (sc *SpectatorController) matchByCode(c *gin.Context) *match.Match {
	code := c.Param("code")
	row, err := sc.store.GetMatchByJoinCode(code)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to look up match: "+err.Error())
		return nil
	}
	if row == nil {
		responses.NotFoundResponse(c, "Match")
		return nil
	}
	return row
}

// JoinMatch godoc
// @Summary Join a match as a spectator
// @Description Looks up a match by its six digit join code and returns the scoreboard
// @Tags spectate
// @Produce json
// @Param code path string true "Join code"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /spectate/{code} [get]
func (sc *SpectatorController) JoinMatch(c *gin.Context) {
	row := sc.matchByCode(c)
	if row == nil {
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"scoreboard": BuildScoreboard(&row.State),
	})
}

// LiveState godoc
// @Summary Latest live snapshot
// @Description Returns the most recent broadcast snapshot, falling back to the stored state
// @Tags spectate
// @Produce json
// @Param code path string true "Join code"
// @Success 200 {object} map[string]interface{}
// @Router /spectate/{code}/live [get]
func (sc *SpectatorController) LiveState(c *gin.Context) {
	row := sc.matchByCode(c)
	if row == nil {
		return
	}

	state := &row.State
	if sc.broadcaster != nil {
		if live, err := sc.broadcaster.LiveState(c.Request.Context(), row.PublicID); err == nil && live != nil {
			state = live
		}
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"scoreboard": BuildScoreboard(state),
	})
}

// BallLog godoc
// @Summary Ball-by-ball timeline
// @Tags spectate
// @Produce json
// @Param code path string true "Join code"
// @Success 200 {object} map[string]interface{}
// @Router /spectate/{code}/balls [get]
func (sc *SpectatorController) BallLog(c *gin.Context) {
	row := sc.matchByCode(c)
	if row == nil {
		return
	}

	entries, err := sc.store.ListBallLog(row.ID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch ball log: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"balls": entries})
}

// AddCheer godoc
// @Summary Send a reaction
// @Tags spectate
// @Accept json
// @Produce json
// @Param code path string true "Join code"
// @Param cheer body CheerRequest true "Reaction category"
// @Success 200 {object} map[string]interface{}
// @Router /spectate/{code}/cheers [post]
func (sc *SpectatorController) AddCheer(c *gin.Context) {
	row := sc.matchByCode(c)
	if row == nil {
		return
	}
	if sc.broadcaster == nil {
		responses.ErrorResponse(c, http.StatusServiceUnavailable, "Reactions are unavailable")
		return
	}

	var req CheerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	total, err := sc.broadcaster.AddCheer(c.Request.Context(), row.PublicID, req.Category)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to record reaction: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"category": req.Category,
		"count":    total,
	})
}

// GetCheers godoc
// @Summary Reaction counters
// @Tags spectate
// @Produce json
// @Param code path string true "Join code"
// @Success 200 {object} map[string]interface{}
// @Router /spectate/{code}/cheers [get]
func (sc *SpectatorController) GetCheers(c *gin.Context) {
	row := sc.matchByCode(c)
	if row == nil {
		return
	}
	if sc.broadcaster == nil {
		responses.ErrorResponse(c, http.StatusServiceUnavailable, "Reactions are unavailable")
		return
	}

	cheers, err := sc.broadcaster.Cheers(c.Request.Context(), row.PublicID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch reactions: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"cheers": cheers})
}
