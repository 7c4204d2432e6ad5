package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salestrack/salestrack_backend/config"
	"github.com/salestrack/salestrack_backend/middleware"
	"github.com/salestrack/salestrack_backend/models"
)

const defaultPageSize = 10

// Fields a PUT /edit request may touch. Status and logs can only change
// through the approve flow and the audit trail.
var editableSaleFields = map[string]bool{
	"policy_number":  true,
	"vehicle_number": true,
	"salesperson_id": true,
	"date":           true,
}

// SalesController manages the sales ledger and its approval workflow.
type SalesController struct {
	DB *mongo.Client
}

func NewSalesController(db *mongo.Client) *SalesController {
	return &SalesController{DB: db}
}

// parseDate accepts RFC3339 timestamps or plain calendar dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

// saleStatusForDate implements the backdating policy: entries dated
// before the current day start out pending and need approval.
func saleStatusForDate(date, now time.Time) string {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(startOfToday) {
		return models.SaleStatusPending
	}
	return models.SaleStatusApproved
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// buildSalesFilter builds the Mongo filter for listing and exporting.
// Team leads are always pinned to their own team; a team_lead_id they
// supply is ignored. Date bounds are inclusive.
func buildSalesFilter(role string, userID primitive.ObjectID, from, to, teamLeadID, salespersonID string) (bson.M, error) {
	filter := bson.M{}

	if role == models.RoleTeamLead {
		filter["team_lead_id"] = userID
	}

	if from != "" || to != "" {
		dateFilter := bson.M{}
		if from != "" {
			t, err := parseDate(from)
			if err != nil {
				return nil, errors.New("invalid from date")
			}
			dateFilter["$gte"] = t
		}
		if to != "" {
			t, err := parseDate(to)
			if err != nil {
				return nil, errors.New("invalid to date")
			}
			dateFilter["$lte"] = t
		}
		filter["date"] = dateFilter
	}

	if teamLeadID != "" && role != models.RoleTeamLead {
		id, err := primitive.ObjectIDFromHex(teamLeadID)
		if err != nil {
			return nil, errors.New("invalid team_lead_id")
		}
		filter["team_lead_id"] = id
	}

	if salespersonID != "" {
		id, err := primitive.ObjectIDFromHex(salespersonID)
		if err != nil {
			return nil, errors.New("invalid salesperson_id")
		}
		filter["salesperson_id"] = id
	}

	return filter, nil
}

func salesFilterFromRequest(c echo.Context) (bson.M, error) {
	claims := middleware.GetClaims(c)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, errors.New("invalid token")
	}
	return buildSalesFilter(claims.Role, userID,
		c.QueryParam("from"), c.QueryParam("to"),
		c.QueryParam("team_lead_id"), c.QueryParam("salesperson_id"))
}

// List returns one page of sales visible to the caller, newest first.
func (sc *SalesController) List(c echo.Context) error {
	filter, err := salesFilterFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	limit := defaultPageSize
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sales := config.GetCollection(sc.DB, "sales")

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := sales.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("Get sales error: %v", err)
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

	total, err := sales.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("Count sales error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	views, err := resolveSaleViews(ctx, sc.DB, records)
	if err != nil {
		log.Printf("Resolve sale names error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sales retrieved successfully",
		Data: map[string]interface{}{
			"sales": views,
			"pagination": models.Pagination{
				Current: page,
				Pages:   totalPages(total, limit),
				Total:   total,
			},
		},
	})
}

// Add creates a sale entry. Team leads may only book sales for their own
// team members. The (policy_number, date) pair is checked upfront and
// enforced again by the unique index on insert.
func (sc *SalesController) Add(c echo.Context) error {
	claims := middleware.GetClaims(c)

	var req models.AddSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Policy number, vehicle number, salesperson, and date are required",
		})
	}

	salespersonID, err := primitive.ObjectIDFromHex(req.SalespersonID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid salesperson ID",
		})
	}

	saleDate, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid date format",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	salespersons := config.GetCollection(sc.DB, "salespersons")

	var salesperson models.Salesperson
	err = salespersons.FindOne(ctx, bson.M{"_id": salespersonID}).Decode(&salesperson)

	// Team leads cannot book sales for other teams; an unknown
	// salesperson gets the same answer so team membership is not
	// probeable.
	if claims.Role == models.RoleTeamLead {
		if err != nil || salesperson.TeamLeadID != userID {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "You can only add sales for your team members",
			})
		}
	}
	salesColl := config.GetCollection(sc.DB, "sales")

	// Check for duplicate
	dupErr := salesColl.FindOne(ctx, bson.M{
		"policy_number": req.PolicyNumber,
		"date":          saleDate,
	}).Err()
	if dupErr == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Sale with this policy number and date already exists",
		})
	}
	if dupErr != mongo.ErrNoDocuments {
		log.Printf("Duplicate sale check error: %v", dupErr)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Salesperson not found",
		})
	}
	if err != nil {
		log.Printf("Salesperson lookup error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	now := time.Now()
	sale := models.Sale{
		ID:            primitive.NewObjectID(),
		PolicyNumber:  req.PolicyNumber,
		VehicleNumber: req.VehicleNumber,
		SalespersonID: salespersonID,
		TeamLeadID:    salesperson.TeamLeadID,
		Date:          saleDate,
		Status:        saleStatusForDate(saleDate, now),
		CreatedBy:     userID,
		Logs: []models.SaleLog{{
			Action:    "created",
			By:        claims.Role,
			UserID:    userID,
			Timestamp: now,
		}},
		CreatedAt: now,
	}

	if _, err := salesColl.InsertOne(ctx, sale); err != nil {
		// Two concurrent creates can both pass the upfront check; the
		// unique index decides the loser.
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Duplicate sale entry",
			})
		}
		log.Printf("Add sale error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	views, err := resolveSaleViews(ctx, sc.DB, []models.Sale{sale})
	if err != nil {
		log.Printf("Resolve sale names error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Sale added successfully",
		Data:    views[0],
	})
}

// Edit updates an existing entry. Only the core sale fields may be
// changed; status and logs are off limits. An "updated" log entry is
// appended in the same write.
func (sc *SalesController) Edit(c echo.Context) error {
	claims := middleware.GetClaims(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Sales entry not found",
		})
	}

	updates := map[string]interface{}{}
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	salesColl := config.GetCollection(sc.DB, "sales")

	var sale models.Sale
	err = salesColl.FindOne(ctx, bson.M{"_id": id}).Decode(&sale)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Sales entry not found",
		})
	}
	if err != nil {
		log.Printf("Sale lookup error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	// TL can only edit their team's sales
	if claims.Role == models.RoleTeamLead && sale.TeamLeadID != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only edit your team's sales",
		})
	}

	for field := range updates {
		if !editableSaleFields[field] {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Field '" + field + "' cannot be updated",
			})
		}
	}

	set := bson.M{}
	if v, ok := updates["policy_number"]; ok {
		s, ok := v.(string)
		if !ok || s == "" {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid policy number",
			})
		}
		set["policy_number"] = s
	}
	if v, ok := updates["vehicle_number"]; ok {
		s, ok := v.(string)
		if !ok || s == "" {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid vehicle number",
			})
		}
		set["vehicle_number"] = s
	}
	if v, ok := updates["salesperson_id"]; ok {
		s, _ := v.(string)
		salespersonID, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid salesperson ID",
			})
		}
		set["salesperson_id"] = salespersonID
	}
	if v, ok := updates["date"]; ok {
		s, _ := v.(string)
		date, err := parseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid date format",
			})
		}
		set["date"] = date
	}

	update := bson.M{
		"$push": bson.M{"logs": models.SaleLog{
			Action:    "updated",
			By:        claims.Role,
			UserID:    userID,
			Timestamp: time.Now(),
		}},
	}
	if len(set) > 0 {
		update["$set"] = set
	}

	if _, err := salesColl.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Duplicate sale entry",
			})
		}
		log.Printf("Edit sale error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	return sc.respondWithSale(c, ctx, id, "Sale updated successfully")
}

// Delete hard-deletes a sale entry.
func (sc *SalesController) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Sales entry not found",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	salesColl := config.GetCollection(sc.DB, "sales")

	result, err := salesColl.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Printf("Delete sale error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Sales entry not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sales entry deleted successfully",
	})
}

// Approve sets a sale approved. Approving an already-approved entry is
// a no-op on status but still appends a log entry.
func (sc *SalesController) Approve(c echo.Context) error {
	claims := middleware.GetClaims(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Sales entry not found",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	salesColl := config.GetCollection(sc.DB, "sales")

	update := bson.M{
		"$set": bson.M{"status": models.SaleStatusApproved},
		"$push": bson.M{"logs": models.SaleLog{
			Action:    "approved",
			By:        claims.Role,
			UserID:    userID,
			Timestamp: time.Now(),
		}},
	}

	result, err := salesColl.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Printf("Approve sale error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Sales entry not found",
		})
	}

	return sc.respondWithSale(c, ctx, id, "Sale approved successfully")
}

func (sc *SalesController) respondWithSale(c echo.Context, ctx context.Context, id primitive.ObjectID, message string) error {
	var sale models.Sale
	err := config.GetCollection(sc.DB, "sales").FindOne(ctx, bson.M{"_id": id}).Decode(&sale)
	if err != nil {
		log.Printf("Reload sale error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	views, err := resolveSaleViews(ctx, sc.DB, []models.Sale{sale})
	if err != nil {
		log.Printf("Resolve sale names error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    views[0],
	})
}

// resolveSaleViews batch-fetches salesperson and team lead names so
// listings and exports can show them without per-record lookups.
func resolveSaleViews(ctx context.Context, db *mongo.Client, sales []models.Sale) ([]models.SaleView, error) {
	spIDs := make([]primitive.ObjectID, 0, len(sales))
	tlIDs := make([]primitive.ObjectID, 0, len(sales))
	spSeen := map[primitive.ObjectID]bool{}
	tlSeen := map[primitive.ObjectID]bool{}
	for _, sale := range sales {
		if !spSeen[sale.SalespersonID] {
			spSeen[sale.SalespersonID] = true
			spIDs = append(spIDs, sale.SalespersonID)
		}
		if !tlSeen[sale.TeamLeadID] {
			tlSeen[sale.TeamLeadID] = true
			tlIDs = append(tlIDs, sale.TeamLeadID)
		}
	}

	spNames := map[primitive.ObjectID]string{}
	if len(spIDs) > 0 {
		cursor, err := config.GetCollection(db, "salespersons").Find(ctx,
			bson.M{"_id": bson.M{"$in": spIDs}},
			options.Find().SetProjection(bson.M{"name": 1}),
		)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var sp models.Salesperson
			if err := cursor.Decode(&sp); err != nil {
				continue
			}
			spNames[sp.ID] = sp.Name
		}
	}

	tlNames := map[primitive.ObjectID]string{}
	if len(tlIDs) > 0 {
		cursor, err := config.GetCollection(db, "users").Find(ctx,
			bson.M{"_id": bson.M{"$in": tlIDs}},
			options.Find().SetProjection(bson.M{"name": 1}),
		)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var tl models.Principal
			if err := cursor.Decode(&tl); err != nil {
				continue
			}
			tlNames[tl.ID] = tl.Name
		}
	}

	views := make([]models.SaleView, len(sales))
	for i, sale := range sales {
		views[i] = models.SaleView{
			Sale:            sale,
			SalespersonName: spNames[sale.SalespersonID],
			TeamLeadName:    tlNames[sale.TeamLeadID],
		}
	}
	return views, nil
}
