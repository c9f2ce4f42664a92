package spectator

import (
	"github.com/gin-gonic/gin"

	"github.com/Shaanmalik007/cricscore/internal/match"
)

// RegisterSpectatorRoutes mounts the public read side. No auth: the join
// code is the only credential.
func RegisterSpectatorRoutes(router *gin.RouterGroup, svc *match.Service) {
	controller := NewSpectatorController(svc.Store, svc.Broadcaster)

	spectate := router.Group("/spectate")
	spectate.GET("/:code", controller.JoinMatch)
	spectate.GET("/:code/live", controller.LiveState)
	spectate.GET("/:code/balls", controller.BallLog)
	spectate.GET("/:code/cheers", controller.GetCheers)
	spectate.POST("/:code/cheers", controller.AddCheer)
}
