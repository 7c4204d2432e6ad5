package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salestrack/salestrack_backend/config"
	"github.com/salestrack/salestrack_backend/models"
	"github.com/salestrack/salestrack_backend/utils"
)

// ReportController exports the sales ledger.
type ReportController struct {
	DB *mongo.Client
}

func NewReportController(db *mongo.Client) *ReportController {
	return &ReportController{DB: db}
}

// Export re-runs the ledger's filtering, unpaginated, and serializes the
// result. format=csv (the default) streams an attachment; anything else
// returns the records as JSON.
func (rc *ReportController) Export(c echo.Context) error {
	filter, err := salesFilterFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := config.GetCollection(rc.DB, "sales").Find(ctx, filter, opts)
	if err != nil {
		log.Printf("Export report error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}
	defer cursor.Close(ctx)

	records := []models.Sale{}
	if err := cursor.All(ctx, &records); err != nil {
		log.Printf("Decode sales error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	views, err := resolveSaleViews(ctx, rc.DB, records)
	if err != nil {
		log.Printf("Resolve sale names error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	if format == "csv" {
		c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=sales_report.csv")
		return c.Blob(http.StatusOK, "text/csv", []byte(utils.SalesCSV(views)))
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Report generated successfully",
		Data:    views,
	})
}
