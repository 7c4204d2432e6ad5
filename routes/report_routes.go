package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salestrack/salestrack_backend/controllers"
	"github.com/salestrack/salestrack_backend/middleware"
)

// RegisterReportRoutes sets up the reporting routes. Export applies the
// same role scoping as the sales listing, so any authenticated role may
// call it.
func RegisterReportRoutes(e *echo.Echo, db *mongo.Client) {
	reportController := controllers.NewReportController(db)

	reports := e.Group("/api/reports")
	reports.Use(middleware.Authenticate(db))

	reports.GET("/export", reportController.Export)
}
