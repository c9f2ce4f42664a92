package auth

import (
	"github.com/Shaanmalik007/cricscore/config"
	"github.com/Shaanmalik007/cricscore/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	authRepo := NewAuthRepository(db)
	authController := NewAuthController(authRepo, appConfig)

	// Public routes
	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register", authController.Register)
		authPublic.POST("/login", authController.Login)
		authPublic.POST("/refresh-token", authController.RefreshToken)
	}

	// Authenticated routes (protected by auth middleware)
	authProtected := router.Group("/auth")
	authProtected.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authProtected.GET("/me", authController.GetProfile)
	}
}
