package team

import (
	"net/http"
	"strconv"

	"github.com/Shaanmalik007/cricscore/internal/middleware"
	"github.com/Shaanmalik007/cricscore/pkg/responses"
	"github.com/gin-gonic/gin"
)

// TeamController handles team-related HTTP requests
type TeamController struct {
	repo TeamRepository
}

// NewTeamController creates a new team controller
func NewTeamController(repo TeamRepository) *TeamController {
	return &TeamController{repo: repo}
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

// CreateTeam handles the creation of a new team
func (tc *TeamController) CreateTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	team := Team{
		Name:        req.Name,
		ShortName:   req.ShortName,
		CreatedByID: userID,
	}

	if err := tc.repo.CreateTeam(&team); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create team: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Team created successfully",
		"team":    team,
	})
}

// GetTeams lists teams with pagination
func (tc *TeamController) GetTeams(c *gin.Context) {
	page, pageSize := parsePaging(c)

	teams, total, err := tc.repo.GetTeams(page, pageSize)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch teams: "+err.Error())
		return
	}

	responses.PaginatedResponse(c, http.StatusOK, teams, page, pageSize, total)
}

// GetTeamByID retrieves one team with its roster
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	team, err := tc.repo.GetTeamByID(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFoundResponse(c, "Team")
		return
	}

	responses.SuccessResponse(c, http.StatusOK, team)
}

// UpdateTeam updates team name/short code
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	team, err := tc.repo.GetTeamByID(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFoundResponse(c, "Team")
		return
	}

	if team.CreatedByID != userID {
		responses.ErrorResponse(c, http.StatusForbidden, "You are not authorized to update this team")
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.ShortName != nil {
		team.ShortName = *req.ShortName
	}

	if err := tc.repo.UpdateTeam(team); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to update team: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Team updated successfully",
		"team":    team,
	})
}

// DeleteTeam deletes a team and its roster
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	team, err := tc.repo.GetTeamByID(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFoundResponse(c, "Team")
		return
	}

	if team.CreatedByID != userID {
		responses.ErrorResponse(c, http.StatusForbidden, "You are not authorized to delete this team")
		return
	}

	if err := tc.repo.DeleteTeam(uint(id)); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete team: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Team deleted successfully",
	})
}

// AddPlayer adds a player to a team roster
func (tc *TeamController) AddPlayer(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	isCreator, err := tc.repo.IsUserTeamCreator(uint(teamID), userID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to check team ownership: "+err.Error())
		return
	}
	if !isCreator {
		responses.ErrorResponse(c, http.StatusForbidden, "You must own the team to edit its roster")
		return
	}

	var req AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = RoleBatsman
	}

	player := Player{
		TeamID: uint(teamID),
		Name:   req.Name,
		Role:   role,
	}

	if err := tc.repo.AddPlayer(&player); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to add player: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Player added successfully",
		"player":  player,
	})
}

// RemovePlayer removes a player from a team roster
func (tc *TeamController) RemovePlayer(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}
	playerID, err := strconv.Atoi(c.Param("playerId"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid player ID")
		return
	}

	isCreator, err := tc.repo.IsUserTeamCreator(uint(teamID), userID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to check team ownership: "+err.Error())
		return
	}
	if !isCreator {
		responses.ErrorResponse(c, http.StatusForbidden, "You must own the team to edit its roster")
		return
	}

	player, err := tc.repo.GetPlayer(uint(teamID), uint(playerID))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch player: "+err.Error())
		return
	}
	if player == nil {
		responses.NotFoundResponse(c, "Player")
		return
	}

	if err := tc.repo.RemovePlayer(uint(teamID), uint(playerID)); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to remove player: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Player removed successfully",
	})
}
