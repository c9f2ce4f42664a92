package team

import (
	"github.com/Shaanmalik007/cricscore/config"
	"github.com/Shaanmalik007/cricscore/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterTeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewGormTeamRepository(db)
	controller := NewTeamController(repo)

	teams := router.Group("/teams")
	teams.GET("", controller.GetTeams)
	teams.GET("/:id", controller.GetTeamByID)

	protected := router.Group("/teams")
	protected.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		protected.POST("", controller.CreateTeam)
		protected.PUT("/:id", controller.UpdateTeam)
		protected.DELETE("/:id", controller.DeleteTeam)
		protected.POST("/:id/players", controller.AddPlayer)
		protected.DELETE("/:id/players/:playerId", controller.RemovePlayer)
	}
}
