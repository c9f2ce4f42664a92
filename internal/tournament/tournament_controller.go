package tournament

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shaanmalik007/cricscore/internal/middleware"
	"github.com/Shaanmalik007/cricscore/internal/team"
	"github.com/Shaanmalik007/cricscore/pkg/responses"
)

// TournamentController handles tournament-related HTTP requests
type TournamentController struct {
	repo    TournamentRepository
	service *StandingsService
	teams   team.TeamRepository
}

func NewTournamentController(repo TournamentRepository, service *StandingsService, teams team.TeamRepository) *TournamentController {
	return &TournamentController{repo: repo, service: service, teams: teams}
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

func (tc *TournamentController) pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// CreateTournament godoc
// @Summary Create a tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournament body CreateTournamentRequest true "Tournament details"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments [post]
func (tc *TournamentController) CreateTournament(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	t := Tournament{
		Name:        req.Name,
		Season:      req.Season,
		Overs:       req.Overs,
		CreatedByID: userID,
		Groups:      req.Groups,
	}
	if err := tc.repo.Create(&t); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create tournament: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message":    "Tournament created successfully",
		"tournament": t,
	})
}

// GetTournaments godoc
// @Summary List tournaments
// @Tags tournaments
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments [get]
func (tc *TournamentController) GetTournaments(c *gin.Context) {
	page, pageSize := parsePaging(c)
	tournaments, total, err := tc.repo.List(page, pageSize)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch tournaments: "+err.Error())
		return
	}

	responses.PaginatedResponse(c, http.StatusOK, gin.H{"tournaments": tournaments}, page, pageSize, total)
}

// GetTournament godoc
// @Summary Get a tournament
// @Tags tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tournaments/{id} [get]
func (tc *TournamentController) GetTournament(c *gin.Context) {
	id, ok := tc.pathID(c, "id")
	if !ok {
		return
	}

	t, err := tc.repo.GetByID(id)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch tournament: "+err.Error())
		return
	}
	if t == nil {
		responses.NotFoundResponse(c, "Tournament")
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"tournament": t})
}

// DeleteTournament godoc
// @Summary Delete a tournament
// @Tags tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{id} [delete]
func (tc *TournamentController) DeleteTournament(c *gin.Context) {
	userID, id, ok := tc.authAndID(c)
	if !ok {
		return
	}

	isCreator, err := tc.repo.IsCreator(id, userID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify ownership: "+err.Error())
		return
	}
	if !isCreator {
		responses.ErrorResponse(c, http.StatusForbidden, "You can only delete your own tournaments")
		return
	}

	if err := tc.repo.Delete(id); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete tournament: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Tournament deleted successfully"})
}

// EnrolTeam godoc
// @Summary Enrol a team
// @Description Adds a team to a tournament group
// @Tags tournaments
// @Accept json
// @Produce json
// @Param id path int true "Tournament ID"
// @Param entry body EnrolTeamRequest true "Team and group"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{id}/teams [post]
func (tc *TournamentController) EnrolTeam(c *gin.Context) {
	userID, id, ok := tc.authAndID(c)
	if !ok {
		return
	}

	var req EnrolTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	t, err := tc.repo.GetByID(id)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch tournament: "+err.Error())
		return
	}
	if t == nil {
		responses.NotFoundResponse(c, "Tournament")
		return
	}
	if t.CreatedByID != userID {
		responses.ErrorResponse(c, http.StatusForbidden, "Only the organizer can enrol teams")
		return
	}
	if req.GroupID != "" && !containsGroup(t.Groups, req.GroupID) {
		responses.ErrorResponse(c, http.StatusBadRequest, "Unknown group: "+req.GroupID)
		return
	}

	enrolled, err := tc.repo.GetEntry(id, req.TeamID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to check enrolment: "+err.Error())
		return
	}
	if enrolled != nil {
		responses.ErrorResponse(c, http.StatusConflict, "Team is already enrolled")
		return
	}

	enrolledTeam, err := tc.teams.GetTeamByID(req.TeamID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch team: "+err.Error())
		return
	}
	if enrolledTeam == nil {
		responses.NotFoundResponse(c, "Team")
		return
	}

	entry := GroupEntry{
		TournamentID: id,
		GroupID:      req.GroupID,
		TeamID:       req.TeamID,
		TeamName:     enrolledTeam.Name,
	}
	if err := tc.repo.AddEntry(&entry); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to enrol team: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Team enrolled successfully",
		"entry":   entry,
	})
}

// RemoveTeam godoc
// @Summary Remove an enrolled team
// @Tags tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Param teamId path int true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{id}/teams/{teamId} [delete]
func (tc *TournamentController) RemoveTeam(c *gin.Context) {
	userID, id, ok := tc.authAndID(c)
	if !ok {
		return
	}
	teamID, ok := tc.pathID(c, "teamId")
	if !ok {
		return
	}

	isCreator, err := tc.repo.IsCreator(id, userID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify ownership: "+err.Error())
		return
	}
	if !isCreator {
		responses.ErrorResponse(c, http.StatusForbidden, "Only the organizer can remove teams")
		return
	}

	if err := tc.repo.RemoveEntry(id, teamID); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to remove team: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Team removed from tournament"})
}

// GetStandings godoc
// @Summary Points table
// @Description Standings over completed matches, optionally per group
// @Tags tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Param group query string false "Group label"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tournaments/{id}/standings [get]
func (tc *TournamentController) GetStandings(c *gin.Context) {
	id, ok := tc.pathID(c, "id")
	if !ok {
		return
	}

	rows, err := tc.service.Standings(c.Request.Context(), id, c.Query("group"))
	if err != nil {
		if errors.Is(err, ErrTournamentNotFound) {
			responses.NotFoundResponse(c, "Tournament")
			return
		}
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to compute standings: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"standings": rows})
}

// GetLeaderboards godoc
// @Summary Player leaderboards
// @Description Most runs and most wickets across the tournament
// @Tags tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Param limit query int false "Rows per board"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tournaments/{id}/leaderboards [get]
func (tc *TournamentController) GetLeaderboards(c *gin.Context) {
	id, ok := tc.pathID(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 0 || limit > 100 {
		limit = 10
	}

	batters, bowlers, err := tc.service.Leaderboards(id, limit)
	if err != nil {
		if errors.Is(err, ErrTournamentNotFound) {
			responses.NotFoundResponse(c, "Tournament")
			return
		}
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to compute leaderboards: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"batting": batters,
		"bowling": bowlers,
	})
}

func (tc *TournamentController) authAndID(c *gin.Context) (uint, uint, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return 0, 0, false
	}
	id, ok := tc.pathID(c, "id")
	if !ok {
		return 0, 0, false
	}
	return userID, id, true
}

func containsGroup(groups StringSlice, g string) bool {
	for _, have := range groups {
		if have == g {
			return true
		}
	}
	return false
}
