package match

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shaanmalik007/cricscore/internal/middleware"
	"github.com/Shaanmalik007/cricscore/internal/team"
	"github.com/Shaanmalik007/cricscore/pkg/responses"
)

// CreateMatchRequest schedules a new match between two stored teams.
type CreateMatchRequest struct {
	Name         string `json:"name" binding:"required,min=3,max=100"`
	Overs        int    `json:"overs" binding:"required,min=1,max=50"`
	MatchType    string `json:"match_type" binding:"omitempty,max=20"`
	IsPublic     bool   `json:"is_public"`
	TeamAID      uint   `json:"team_a_id" binding:"required"`
	TeamBID      uint   `json:"team_b_id" binding:"required"`
	TournamentID *uint  `json:"tournament_id,omitempty"`
	GroupID      string `json:"group_id,omitempty"`
}

// StartMatchRequest carries the toss outcome that puts a match live.
type StartMatchRequest struct {
	CallerTeamID uint         `json:"caller_team_id" binding:"required"`
	Call         CoinSide     `json:"call" binding:"required,oneof=heads tails"`
	Result       CoinSide     `json:"result" binding:"required,oneof=heads tails"`
	WinnerTeamID uint         `json:"winner_team_id" binding:"required"`
	Decision     TossDecision `json:"decision" binding:"required,oneof=bat bowl"`
}

// SetBatsmenRequest assigns the batting pair for the current inning.
type SetBatsmenRequest struct {
	StrikerID    uint  `json:"striker_id" binding:"required"`
	NonStrikerID *uint `json:"non_striker_id,omitempty"`
	LoneStriker  bool  `json:"lone_striker"`
}

// SetBowlerRequest assigns the bowler for the over in progress.
type SetBowlerRequest struct {
	BowlerID uint `json:"bowler_id" binding:"required"`
}

// AbandonMatchRequest force-completes a match with a reason.
type AbandonMatchRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=200"`
}

// MatchController handles the scorer-facing match endpoints.
type MatchController struct {
	session *Session
	store   MatchStore
	teams   team.TeamRepository
}

func NewMatchController(session *Session, store MatchStore, teams team.TeamRepository) *MatchController {
	return &MatchController{session: session, store: store, teams: teams}
}

func parsePaging(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// statusForError maps scoring refusals to HTTP codes. Anything outside the
// known taxonomy is a server error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotMatchScorer):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidDelivery),
		errors.Is(err, ErrInvalidTeams),
		errors.Is(err, ErrUnknownPlayer),
		errors.Is(err, ErrUnknownBowler),
		errors.Is(err, ErrNonStrikerNeeded),
		errors.Is(err, ErrUnknownCheer):
		return http.StatusBadRequest
	case errors.Is(err, ErrMatchCompleted),
		errors.Is(err, ErrInningCompleted),
		errors.Is(err, ErrMatchNotLive),
		errors.Is(err, ErrMatchNotStarted),
		errors.Is(err, ErrAlreadyStarted),
		errors.Is(err, ErrSelectionRequired),
		errors.Is(err, ErrNothingToUndo):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (mc *MatchController) snapshotTeam(id uint) (TeamSnapshot, error) {
	t, err := mc.teams.GetTeamByID(id)
	if err != nil {
		return TeamSnapshot{}, err
	}
	if t == nil {
		return TeamSnapshot{}, ErrInvalidTeams
	}
	snap := TeamSnapshot{ID: t.ID, Name: t.Name, ShortName: t.ShortName}
	for _, p := range t.Players {
		snap.Players = append(snap.Players, PlayerInfo{ID: p.ID, Name: p.Name, Role: string(p.Role)})
	}
	return snap, nil
}

// CreateMatch godoc
// @Summary Create a match
// @Description Schedules a match between two teams, freezing both rosters
// @Tags matches
// @Accept json
// @Produce json
// @Param match body CreateMatchRequest true "Match details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	teamA, err := mc.snapshotTeam(req.TeamAID)
	if err != nil {
		responses.ErrorResponse(c, statusForError(err), "Team not found: "+strconv.Itoa(int(req.TeamAID)))
		return
	}
	teamB, err := mc.snapshotTeam(req.TeamBID)
	if err != nil {
		responses.ErrorResponse(c, statusForError(err), "Team not found: "+strconv.Itoa(int(req.TeamBID)))
		return
	}

	state, err := mc.session.CreateMatch(userID, CreateMatchInput{
		Name:         req.Name,
		Overs:        req.Overs,
		MatchType:    req.MatchType,
		IsPublic:     req.IsPublic,
		TournamentID: req.TournamentID,
		GroupID:      req.GroupID,
		TeamA:        teamA,
		TeamB:        teamB,
	})
	if err != nil {
		responses.ErrorResponse(c, statusForError(err), err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Match created successfully",
		"match":   state,
	})
}

// StartMatch godoc
// @Summary Start a match
// @Description Applies the toss outcome and puts the match live
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param toss body StartMatchRequest true "Toss outcome"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{id}/start [post]
func (mc *MatchController) StartMatch(c *gin.Context) {
	userID, matchID, ok := mc.authAndID(c)
	if !ok {
		return
	}

	var req StartMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	state, err := mc.session.StartMatch(userID, matchID, Toss{
		CallerTeamID: req.CallerTeamID,
		Call:         req.Call,
		Result:       req.Result,
		WinnerTeamID: req.WinnerTeamID,
		Decision:     req.Decision,
	})
	if err != nil {
		responses.ErrorResponse(c, statusForError(err), err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match started",
		"match":   state,
	})
}

// SetBatsmen godoc
// @Summary Select the batting pair
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param batsmen body SetBatsmenRequest true "Batting pair"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{id}/batsmen [post]
func (mc *MatchController) SetBatsmen(c *gin.Context) {
	userID, matchID, ok := mc.authAndID(c)
	if !ok {
		return
	}

	var req SetBatsmenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	state, err := mc.session.SetBatsmen(userID, matchID, req.StrikerID, req.NonStrikerID, req.LoneStriker)
	if err != nil {
		responses.ErrorResponse(c, statusForError(err), err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Batsmen selected",
		"match":   state,
	})
}

// SetBowler godoc
// @Summary Select the bowler
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param bowler body SetBowlerRequest true "Bowler"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{id}/bowler [post]
func (mc *MatchController) SetBowler(c *gin.Context) {
	userID, matchID, ok := mc.authAndID(c)
	if !ok {
		return
	}

	var req SetBowlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	state, err := mc.session.SetBowler(userID, matchID, req.BowlerID)
	if err != nil {
		responses.ErrorResponse(c, statusForError(err), err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Bowler selected",
		"match":   state,
	})
}

// RecordBall godoc
// @Summary Record a delivery
// @Description Scores one ball and returns the updated match state
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param delivery body Delivery true "Delivery outcome"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{id}/balls [post]
func (mc *MatchController) RecordBall(c *gin.Context) {
	userID, matchID, ok := mc.authAndID(c)
	if !ok {
		return
	}

	var req Delivery
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	state, err := mc.session.RecordBall(userID, matchID, req)
	if err != nil {
		if errors.Is(err, ErrSelectionRequired) {
			responses.SuccessResponse(c, http.StatusConflict, gin.H{
				"message":            "Selection required before scoring",
				"selection_required": true,
				"match":              state,
			})
			return
		}
		responses.ErrorResponse(c, statusForError(err), err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Ball recorded",
		"match":   state,
	})
}

// UndoBall godoc
// @Summary Undo the last recorded ball
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{id}/undo [post]
func (mc *MatchController) UndoBall(c *gin.Context) {
	userID, matchID, ok := mc.authAndID(c)
	if !ok {
		return
	}

	state, err := mc.session.Undo(userID, matchID)
	if err != nil {
		responses.ErrorResponse(c, statusForError(err), err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Last ball undone",
		"match":   state,
	})
}

// AbandonMatch godoc
// @Summary Abandon a live match
// @Description Force-completes the match, settling the winner on run rate
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param reason body AbandonMatchRequest true "Abandon reason"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{id}/abandon [post]
func (mc *MatchController) AbandonMatch(c *gin.Context) {
	userID, matchID, ok := mc.authAndID(c)
	if !ok {
		return
	}

	var req AbandonMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	state, err := mc.session.Abandon(userID, matchID, req.Reason)
	if err != nil {
		responses.ErrorResponse(c, statusForError(err), err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match abandoned",
		"match":   state,
	})
}

// GetMatch godoc
// @Summary Get a match
// @Description Returns the full match state for its scorer
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{id} [get]
func (mc *MatchController) GetMatch(c *gin.Context) {
	userID, matchID, ok := mc.authAndID(c)
	if !ok {
		return
	}

	row, err := mc.store.GetMatch(matchID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch match: "+err.Error())
		return
	}
	if row == nil {
		responses.NotFoundResponse(c, "Match")
		return
	}
	if row.ScorerID != userID && !row.IsPublic {
		responses.ErrorResponse(c, http.StatusForbidden, "You do not have access to this match")
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"match": row.State})
}

// ListMatches godoc
// @Summary List my matches
// @Tags matches
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches [get]
func (mc *MatchController) ListMatches(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, pageSize := parsePaging(c)
	matches, total, err := mc.store.ListMatches(userID, page, pageSize)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch matches: "+err.Error())
		return
	}

	responses.PaginatedResponse(c, http.StatusOK, gin.H{"matches": matches}, page, pageSize, total)
}

// ActiveMatch godoc
// @Summary Get my active match
// @Tags matches
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/active [get]
func (mc *MatchController) ActiveMatch(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, ok := mc.session.ActiveMatch(userID)
	if !ok {
		responses.SuccessResponse(c, http.StatusOK, gin.H{"active": false})
		return
	}
	row, err := mc.store.GetMatch(matchID)
	if err != nil || row == nil {
		responses.SuccessResponse(c, http.StatusOK, gin.H{"active": false})
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"active": true,
		"match":  row.State,
	})
}

// MatchHistory godoc
// @Summary List my finished matches
// @Tags matches
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/history [get]
func (mc *MatchController) MatchHistory(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, pageSize := parsePaging(c)
	rows, total, err := mc.store.ListHistory(userID, page, pageSize)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch history: "+err.Error())
		return
	}

	responses.PaginatedResponse(c, http.StatusOK, gin.H{"history": rows}, page, pageSize, total)
}

// DeleteMatch godoc
// @Summary Delete a match
// @Description Removes a scheduled or finished match and its ball log
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /matches/{id} [delete]
func (mc *MatchController) DeleteMatch(c *gin.Context) {
	userID, matchID, ok := mc.authAndID(c)
	if !ok {
		return
	}

	row, err := mc.store.GetMatch(matchID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch match: "+err.Error())
		return
	}
	if row == nil {
		responses.NotFoundResponse(c, "Match")
		return
	}
	if row.ScorerID != userID {
		responses.ErrorResponse(c, http.StatusForbidden, "You can only delete your own matches")
		return
	}
	if row.Status == StatusLive {
		responses.ErrorResponse(c, http.StatusConflict, "A live match cannot be deleted; abandon it first")
		return
	}

	if err := mc.store.DeleteMatch(matchID); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete match: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Match deleted successfully"})
}

func (mc *MatchController) authAndID(c *gin.Context) (uint, uint, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return 0, 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return 0, 0, false
	}
	return userID, uint(id), true
}
