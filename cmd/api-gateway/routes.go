package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fms-dashboard-api/internal/handler"
	"github.com/noah-isme/fms-dashboard-api/internal/middleware"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
)

type routeDeps struct {
	Auth      middleware.TokenValidator
	AuthH     *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Exports   *handler.ExportHandler
	Records   *handler.RecordHandler
	Metrics   *handler.MetricsHandler
}

func registerRoutes(r *gin.Engine, prefix string, deps routeDeps) {
	r.GET("/health", deps.Metrics.Health)
	r.GET("/ready", deps.Metrics.Ready)
	r.GET("/metrics", deps.Metrics.Prometheus)

	api := r.Group(prefix)
	api.POST("/auth/login", deps.AuthH.Login)
	api.GET("/export/:token", deps.Exports.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.Auth))
	secured.GET("/auth/me", deps.AuthH.Me)
	secured.GET("/metrics/system", middleware.RequireRoles(models.RoleAdmin), deps.Metrics.System)

	dashboard := secured.Group("/dashboard")
	dashboard.Use(middleware.WithResponseMeta())
	dashboard.GET("", deps.Dashboard.Summary)
	dashboard.POST("/exports", middleware.RequireRoles(models.RoleAdmin, models.RoleFacilityManager), deps.Dashboard.Export)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleFacilityManager, models.RoleTechnician)

	requests := secured.Group("/service-requests")
	requests.GET("", staff, deps.Records.ListServiceRequests)
	requests.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleFacilityManager, models.RoleRequester), deps.Records.CreateServiceRequest)
	requests.PATCH("/:id/status", staff, deps.Records.UpdateServiceRequestStatus)

	orders := secured.Group("/work-orders")
	orders.GET("", staff, deps.Records.ListWorkOrders)
	orders.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleFacilityManager), deps.Records.CreateWorkOrder)
	orders.PATCH("/:id/status", staff, deps.Records.UpdateWorkOrderStatus)

	assets := secured.Group("/assets")
	assets.GET("", staff, deps.Records.ListAssets)
	assets.POST("", middleware.RequireRoles(models.RoleAdmin), deps.Records.CreateAsset)
}
