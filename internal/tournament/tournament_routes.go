package tournament

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/Shaanmalik007/cricscore/config"
	"github.com/Shaanmalik007/cricscore/internal/match"
	"github.com/Shaanmalik007/cricscore/internal/middleware"
	"github.com/Shaanmalik007/cricscore/internal/team"
)

// RegisterTournamentRoutes mounts the tournament endpoints and returns the
// standings service so the caller can start the refresh worker.
func RegisterTournamentRoutes(router *gin.RouterGroup, svc *match.Service, db *gorm.DB, rdb *redis.Client, appConfig *config.Config) *StandingsService {
	repo := NewGormTournamentRepository(db)
	service := NewStandingsService(repo, svc.Store, rdb)
	controller := NewTournamentController(repo, service, team.NewGormTeamRepository(db))

	tournaments := router.Group("/tournaments")
	tournaments.GET("", controller.GetTournaments)
	tournaments.GET("/:id", controller.GetTournament)
	tournaments.GET("/:id/standings", controller.GetStandings)
	tournaments.GET("/:id/leaderboards", controller.GetLeaderboards)

	protected := router.Group("/tournaments")
	protected.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		protected.POST("", controller.CreateTournament)
		protected.DELETE("/:id", controller.DeleteTournament)
		protected.POST("/:id/teams", controller.EnrolTeam)
		protected.DELETE("/:id/teams/:teamId", controller.RemoveTeam)
	}
	return service
}
