package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salestrack/salestrack_backend/controllers"
	"github.com/salestrack/salestrack_backend/middleware"
	"github.com/salestrack/salestrack_backend/models"
)

// RegisterSalespersonRoutes sets up the roster routes.
func RegisterSalespersonRoutes(e *echo.Echo, db *mongo.Client) {
	salespersonController := controllers.NewSalespersonController(db)

	salespersons := e.Group("/api/salespersons")
	salespersons.Use(middleware.Authenticate(db))

	salespersons.GET("", salespersonController.List)
	salespersons.GET("/search", salespersonController.Search)
	salespersons.POST("/add", salespersonController.Add,
		middleware.RequireRole(models.RoleTeamLead, models.RoleAdmin, models.RoleSuperAdmin))
	salespersons.DELETE("/remove/:id", salespersonController.Remove,
		middleware.RequireRole(models.RoleTeamLead, models.RoleAdmin, models.RoleSuperAdmin))
	salespersons.PUT("/assign-to-tl/:id", salespersonController.AssignToTeamLead,
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	salespersons.GET("/team-leads", salespersonController.ListTeamLeads,
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
}
