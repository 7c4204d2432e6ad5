package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salestrack/salestrack_backend/controllers"
	"github.com/salestrack/salestrack_backend/middleware"
	"github.com/salestrack/salestrack_backend/models"
)

// RegisterSalesRoutes sets up the sales ledger routes. Every route
// re-authenticates; write access is gated per role.
func RegisterSalesRoutes(e *echo.Echo, db *mongo.Client) {
	salesController := controllers.NewSalesController(db)

	sales := e.Group("/api/sales")
	sales.Use(middleware.Authenticate(db))

	sales.GET("", salesController.List)
	sales.POST("/add", salesController.Add,
		middleware.RequireRole(models.RoleTeamLead, models.RoleAdmin, models.RoleSuperAdmin))
	sales.PUT("/edit/:id", salesController.Edit,
		middleware.RequireRole(models.RoleTeamLead, models.RoleAdmin, models.RoleSuperAdmin))
	sales.DELETE("/delete/:id", salesController.Delete,
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	sales.PUT("/approve/:id", salesController.Approve,
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
}
