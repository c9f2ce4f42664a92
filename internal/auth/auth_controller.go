package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Shaanmalik007/cricscore/config"
	"github.com/Shaanmalik007/cricscore/internal/middleware"
	"github.com/Shaanmalik007/cricscore/pkg/responses"
	"github.com/Shaanmalik007/cricscore/pkg/token"
	"github.com/Shaanmalik007/cricscore/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{
		repo:   repo,
		config: cfg,
	}
}

func (ac *AuthController) generateAndSaveTokens(scorerID uint) (string, string, error) {
	accessToken, err := token.GenerateJWT(scorerID, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return "", "", fmt.Errorf("access token generation failed: %w", err)
	}

	refreshTokenString, err := token.GenerateRefreshToken(scorerID, ac.config.JWT.RefreshTokenSecret, ac.config.JWT.RefreshTokenExpiryDays)
	if err != nil {
		return "", "", fmt.Errorf("refresh token generation failed: %w", err)
	}

	refreshToken := &RefreshToken{
		ScorerID:  scorerID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().AddDate(0, 0, ac.config.JWT.RefreshTokenExpiryDays),
	}

	if err := ac.repo.SaveRefreshToken(refreshToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return accessToken, refreshTokenString, nil
}

// @Summary      Register a new scorer
// @Description  Create a scorer account with name, email and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        scorer  body  RegisterRequest  true  "Scorer registration details"
// @Success      201   {object} AuthResponse
// @Failure      400   {object} map[string]string
// @Failure      409   {object} map[string]string
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	if _, err := ac.repo.GetScorerByEmail(strings.ToLower(req.Email)); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.ErrorResponse(c, http.StatusConflict, "A scorer with this email already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Error hashing password")
		return
	}

	scorer := &Scorer{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: hashedPassword,
	}

	if err := ac.repo.CreateScorer(scorer); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create scorer: "+err.Error())
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(scorer.ID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Scorer:       scorer,
	})
}

// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Login credentials"
// @Success      200   {object} AuthResponse
// @Failure      401   {object} map[string]string
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	scorer, err := ac.repo.GetScorerByEmail(strings.ToLower(req.Email))
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !utils.CheckPassword(scorer.Password, req.Password) {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(scorer.ID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Scorer:       scorer,
	})
}

// @Summary      Refresh the access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        refresh  body  RefreshTokenRequest  true  "Refresh token"
// @Success      200   {object} AuthResponse
// @Failure      401   {object} map[string]string
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	claims, err := token.ValidateJWT(req.RefreshToken, ac.config.JWT.RefreshTokenSecret)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token: "+err.Error())
		return
	}

	stored, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Refresh token not recognized")
		return
	}
	if time.Now().After(stored.ExpiresAt) {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Refresh token has expired")
		return
	}

	// Rotate: revoke the old token and issue a fresh pair.
	if err := ac.repo.RevokeRefreshToken(req.RefreshToken); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to rotate refresh token")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(claims.UserID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// @Summary      Get the authenticated scorer's profile
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object} Scorer
// @Failure      401   {object} map[string]string
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	scorer, err := ac.repo.GetScorerByID(userID)
	if err != nil {
		responses.NotFoundResponse(c, "Scorer")
		return
	}

	responses.SuccessResponse(c, http.StatusOK, scorer)
}
