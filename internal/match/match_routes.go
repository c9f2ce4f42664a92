package match

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/Shaanmalik007/cricscore/config"
	"github.com/Shaanmalik007/cricscore/internal/middleware"
	"github.com/Shaanmalik007/cricscore/internal/team"
)

// Service bundles the scoring stack so match and spectator routes share
// one session, one store and one broadcaster.
type Service struct {
	Session     *Session
	Store       MatchStore
	Broadcaster *Broadcaster
}

// NewService wires the postgres store behind the in-memory failover. A nil
// redis client disables live broadcasting but never scoring.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	store := NewFailoverStore(NewGormMatchStore(db), NewMemoryMatchStore())
	var broadcaster *Broadcaster
	if rdb != nil {
		broadcaster = NewBroadcaster(rdb)
	}
	return &Service{
		Session:     NewSession(store, broadcaster),
		Store:       store,
		Broadcaster: broadcaster,
	}
}

func RegisterMatchRoutes(router *gin.RouterGroup, svc *Service, db *gorm.DB, appConfig *config.Config) {
	controller := NewMatchController(svc.Session, svc.Store, team.NewGormTeamRepository(db))

	matches := router.Group("/matches")
	matches.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		matches.POST("", controller.CreateMatch)
		matches.GET("", controller.ListMatches)
		matches.GET("/active", controller.ActiveMatch)
		matches.GET("/history", controller.MatchHistory)
		matches.GET("/:id", controller.GetMatch)
		matches.DELETE("/:id", controller.DeleteMatch)
		matches.POST("/:id/start", controller.StartMatch)
		matches.POST("/:id/batsmen", controller.SetBatsmen)
		matches.POST("/:id/bowler", controller.SetBowler)
		matches.POST("/:id/balls", controller.RecordBall)
		matches.POST("/:id/undo", controller.UndoBall)
		matches.POST("/:id/abandon", controller.AbandonMatch)
	}
}
