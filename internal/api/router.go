package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/handler"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/middleware"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

var (
	admin    = string(domain.RoleAdmin)
	operator = string(domain.RoleOperator)
)

// NewRouter wires every controller onto a gin engine. Controllers only talk
// to the dispatcher; auth is used by the middleware to validate tokens.
func NewRouter(d *dispatch.Dispatcher, auth *service.AuthService, hub *handler.Hub, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), gin.Recovery(), middleware.CORS())

	authMw := middleware.NewAuthMiddleware(auth, log)

	r.GET("/ws", hub.ServeWS)

	authH := handler.NewAuthHandler(d)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", authH.Login)
		authRoutes.POST("/register", authMw.Authenticate(), authMw.AuthorizeRole(admin), authH.Register)
	}

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate(), authMw.AuthorizeRole(admin, operator))
	adminOnly := authMw.AuthorizeRole(admin)

	v1.GET("/users/:id", adminOnly, authH.GetUser)

	vtH := handler.NewVehicleTypeHandler(d)
	vtRoutes := v1.Group("/vehicle-types")
	{
		vtRoutes.POST("", adminOnly, vtH.Create)
		vtRoutes.GET("", vtH.List)
		vtRoutes.GET("/:id", vtH.Get)
		vtRoutes.PATCH("/:id", adminOnly, vtH.Update)
		vtRoutes.POST("/:id/deactivate", adminOnly, vtH.Deactivate)
	}

	rcH := handler.NewRateConfigHandler(d)
	rcRoutes := v1.Group("/rate-configs")
	{
		rcRoutes.POST("", adminOnly, rcH.Create)
		rcRoutes.GET("/:id", rcH.Get)
		rcRoutes.PATCH("/:id", adminOnly, rcH.Update)
		rcRoutes.POST("/:id/deactivate", adminOnly, rcH.Deactivate)
		rcRoutes.GET("/vehicle-type/:id", rcH.ListByVehicleType)
		rcRoutes.GET("/vehicle-type/:id/active", rcH.GetActive)
	}

	vH := handler.NewVehicleHandler(d)
	vRoutes := v1.Group("/vehicles")
	{
		vRoutes.POST("", vH.Register)
		vRoutes.GET("", vH.List)
		vRoutes.GET("/plate/:plate", vH.GetByPlate)
		vRoutes.GET("/:id", vH.Get)
	}

	spH := handler.NewParkingSpaceHandler(d)
	spRoutes := v1.Group("/parking-spaces")
	{
		spRoutes.POST("", adminOnly, spH.Create)
		spRoutes.GET("", spH.List)
		spRoutes.GET("/count", spH.Count)
		spRoutes.GET("/:id", spH.Get)
		spRoutes.PATCH("/:id", spH.Update)
	}

	sessH := handler.NewParkingSessionHandler(d)
	sessRoutes := v1.Group("/parking-sessions")
	{
		sessRoutes.POST("/start", sessH.Start)
		sessRoutes.POST("/end", sessH.End)
		sessRoutes.GET("", sessH.List)
		sessRoutes.GET("/active", sessH.ListActive)
		sessRoutes.GET("/ticket/:code", sessH.GetByTicket)
		sessRoutes.GET("/:id", sessH.Get)
	}

	payH := handler.NewPaymentHandler(d)
	payRoutes := v1.Group("/payments")
	{
		payRoutes.POST("/calculate", payH.Calculate)
		payRoutes.POST("/process", payH.Process)
		payRoutes.GET("/session/:sessionId", payH.GetBySession)
		payRoutes.GET("/:id", payH.Get)
		payRoutes.GET("/:id/status", payH.Status)
		payRoutes.POST("/:id/cancel", payH.Cancel)
	}

	dashH := handler.NewDashboardHandler(d)
	dashRoutes := v1.Group("/dashboard")
	{
		dashRoutes.GET("/summary", dashH.Summary)
		dashRoutes.GET("/occupancy", dashH.Occupancy)
		dashRoutes.GET("/revenue", dashH.Revenue)
	}

	lprH := handler.NewLPRHandler(d)
	v1.POST("/lpr/process-image", lprH.ProcessImage)

	return r
}
