package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Shaanmalik007/cricscore/config"
	"github.com/Shaanmalik007/cricscore/internal/auth"
	"github.com/Shaanmalik007/cricscore/internal/match"
	"github.com/Shaanmalik007/cricscore/internal/spectator"
	"github.com/Shaanmalik007/cricscore/internal/team"
	"github.com/Shaanmalik007/cricscore/internal/tournament"
)

// SetupRoutes builds the gin engine. The returned standings service is
// handed back so main can start the cache-refresh worker.
func SetupRoutes() (*gin.Engine, *tournament.StandingsService) {
	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "cricscore",
			"status":  "ok",
			"docs":    "/swagger/index.html",
			"version": "1.0",
		})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := config.DB
	appConfig := config.GetConfig()
	matchService := match.NewService(db, config.Redis)

	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	team.RegisterTeamRoutes(api, db, appConfig)
	match.RegisterMatchRoutes(api, matchService, db, appConfig)
	spectator.RegisterSpectatorRoutes(api, matchService)
	standings := tournament.RegisterTournamentRoutes(api, matchService, db, config.Redis, appConfig)

	return r, standings
}
