package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salestrack/salestrack_backend/controllers"
	"github.com/salestrack/salestrack_backend/middleware"
	"github.com/salestrack/salestrack_backend/models"
)

// RegisterPrincipalRoutes sets up admin and team lead account management.
// Admin accounts are managed by super admins only; team lead accounts by
// super admins and admins.
func RegisterPrincipalRoutes(e *echo.Echo, db *mongo.Client) {
	principalController := controllers.NewPrincipalController(db)

	admins := e.Group("/api/admins")
	admins.Use(middleware.Authenticate(db))
	admins.POST("/add", principalController.AddAdmin,
		middleware.RequireRole(models.RoleSuperAdmin))
	admins.GET("", principalController.ListAdmins,
		middleware.RequireRole(models.RoleSuperAdmin))

	teamLeads := e.Group("/api/team-leads")
	teamLeads.Use(middleware.Authenticate(db))
	teamLeads.POST("/add", principalController.AddTeamLead,
		middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin))
	teamLeads.GET("", principalController.ListTeamLeads,
		middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin))
}
