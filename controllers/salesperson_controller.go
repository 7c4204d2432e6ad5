package controllers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salestrack/salestrack_backend/config"
	"github.com/salestrack/salestrack_backend/middleware"
	"github.com/salestrack/salestrack_backend/models"
	"github.com/salestrack/salestrack_backend/utils"
)

const searchResultLimit = 10

// SalespersonController manages the roster of salespersons and their
// team lead ownership.
type SalespersonController struct {
	DB *mongo.Client
}

func NewSalespersonController(db *mongo.Client) *SalespersonController {
	return &SalespersonController{DB: db}
}

// List returns salespersons visible to the caller. Team leads only see
// their own team.
func (sc *SalespersonController) List(c echo.Context) error {
	claims := middleware.GetClaims(c)

	filter := bson.M{}
	if claims.Role == models.RoleTeamLead {
		teamLeadID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Invalid token",
			})
		}
		filter["team_lead_id"] = teamLeadID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := config.GetCollection(sc.DB, "salespersons").Find(ctx, filter, opts)
	if err != nil {
		log.Printf("Get salespersons error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}
	defer cursor.Close(ctx)

	salespersons := []models.Salesperson{}
	if err := cursor.All(ctx, &salespersons); err != nil {
		log.Printf("Decode salespersons error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	views, err := sc.resolveTeamLeadNames(ctx, salespersons)
	if err != nil {
		log.Printf("Resolve team lead names error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Salespersons retrieved successfully",
		Data:    views,
	})
}

// Search matches the query case-insensitively against name or phone,
// within the caller's visibility scope. Results are capped.
func (sc *SalespersonController) Search(c echo.Context) error {
	claims := middleware.GetClaims(c)

	filter := bson.M{}
	if claims.Role == models.RoleTeamLead {
		teamLeadID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Invalid token",
			})
		}
		filter["team_lead_id"] = teamLeadID
	}

	if q := c.QueryParam("q"); q != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter["$or"] = []bson.M{
			{"name": pattern},
			{"phone": pattern},
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetLimit(searchResultLimit)
	cursor, err := config.GetCollection(sc.DB, "salespersons").Find(ctx, filter, opts)
	if err != nil {
		log.Printf("Search salespersons error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}
	defer cursor.Close(ctx)

	salespersons := []models.Salesperson{}
	if err := cursor.All(ctx, &salespersons); err != nil {
		log.Printf("Decode salespersons error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	views, err := sc.resolveTeamLeadNames(ctx, salespersons)
	if err != nil {
		log.Printf("Resolve team lead names error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Search completed",
		Data:    views,
	})
}

// Add creates a salesperson. A team lead cannot place the new member on
// a different team: the owning id is forced to their own.
func (sc *SalespersonController) Add(c echo.Context) error {
	claims := middleware.GetClaims(c)

	var req models.SalespersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name and phone are required",
		})
	}

	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid phone number",
		})
	}

	teamLeadHex := req.TeamLeadID
	if claims.Role == models.RoleTeamLead {
		teamLeadHex = claims.UserID
	}

	teamLeadID, err := primitive.ObjectIDFromHex(teamLeadHex)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Team lead not found",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	teamLead, err := sc.findTeamLead(ctx, teamLeadID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Team lead not found",
			})
		}
		log.Printf("Team lead lookup error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	salesperson := models.Salesperson{
		ID:         primitive.NewObjectID(),
		Name:       utils.SanitizeInput(req.Name),
		Phone:      phone,
		TeamLeadID: teamLeadID,
		CreatedAt:  time.Now(),
	}

	if _, err := config.GetCollection(sc.DB, "salespersons").InsertOne(ctx, salesperson); err != nil {
		log.Printf("Add salesperson error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Salesperson added successfully",
		Data: models.SalespersonView{
			Salesperson:  salesperson,
			TeamLeadName: teamLead.Name,
		},
	})
}

// Remove deletes a salesperson. Team leads may only remove members of
// their own team.
func (sc *SalespersonController) Remove(c echo.Context) error {
	claims := middleware.GetClaims(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Salesperson not found",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	salespersons := config.GetCollection(sc.DB, "salespersons")

	var salesperson models.Salesperson
	err = salespersons.FindOne(ctx, bson.M{"_id": id}).Decode(&salesperson)
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

	if claims.Role == models.RoleTeamLead && salesperson.TeamLeadID.Hex() != claims.UserID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only remove your team members",
		})
	}

	if _, err := salespersons.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		log.Printf("Remove salesperson error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Salesperson removed successfully",
	})
}

// AssignToTeamLead moves a salesperson to another team. Existing sales
// keep their original team_lead_id.
func (sc *SalespersonController) AssignToTeamLead(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Salesperson not found",
		})
	}

	var req models.AssignTeamLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Team lead ID is required",
		})
	}

	teamLeadID, err := primitive.ObjectIDFromHex(req.TeamLeadID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Team lead not found",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	salespersons := config.GetCollection(sc.DB, "salespersons")

	var salesperson models.Salesperson
	err = salespersons.FindOne(ctx, bson.M{"_id": id}).Decode(&salesperson)
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

	teamLead, err := sc.findTeamLead(ctx, teamLeadID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Team lead not found",
			})
		}
		log.Printf("Team lead lookup error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	_, err = salespersons.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"team_lead_id": teamLeadID}},
	)
	if err != nil {
		log.Printf("Assign salesperson error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	salesperson.TeamLeadID = teamLeadID

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Salesperson reassigned successfully",
		Data: models.SalespersonView{
			Salesperson:  salesperson,
			TeamLeadName: teamLead.Name,
		},
	})
}

// ListTeamLeads returns the team lead options for assignment pickers,
// sorted by name.
func (sc *SalespersonController) ListTeamLeads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"name": 1, "email": 1})
	cursor, err := config.GetCollection(sc.DB, "users").
		Find(ctx, bson.M{"role": models.RoleTeamLead}, opts)
	if err != nil {
		log.Printf("Get team leads error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}
	defer cursor.Close(ctx)

	teamLeads := []models.Principal{}
	if err := cursor.All(ctx, &teamLeads); err != nil {
		log.Printf("Decode team leads error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Team leads retrieved successfully",
		Data:    teamLeads,
	})
}

func (sc *SalespersonController) findTeamLead(ctx context.Context, id primitive.ObjectID) (*models.Principal, error) {
	var teamLead models.Principal
	err := config.GetCollection(sc.DB, "users").
		FindOne(ctx, bson.M{"_id": id, "role": models.RoleTeamLead}).
		Decode(&teamLead)
	if err != nil {
		return nil, err
	}
	return &teamLead, nil
}

// resolveTeamLeadNames batch-fetches team lead names for display.
func (sc *SalespersonController) resolveTeamLeadNames(ctx context.Context, salespersons []models.Salesperson) ([]models.SalespersonView, error) {
	ids := make([]primitive.ObjectID, 0, len(salespersons))
	seen := map[primitive.ObjectID]bool{}
	for _, sp := range salespersons {
		if !seen[sp.TeamLeadID] {
			seen[sp.TeamLeadID] = true
			ids = append(ids, sp.TeamLeadID)
		}
	}

	names := map[primitive.ObjectID]string{}
	if len(ids) > 0 {
		cursor, err := config.GetCollection(sc.DB, "users").Find(ctx,
			bson.M{"_id": bson.M{"$in": ids}},
			options.Find().SetProjection(bson.M{"name": 1}),
		)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var teamLead models.Principal
			if err := cursor.Decode(&teamLead); err != nil {
				continue
			}
			names[teamLead.ID] = teamLead.Name
		}
	}

	views := make([]models.SalespersonView, len(salespersons))
	for i, sp := range salespersons {
		views[i] = models.SalespersonView{
			Salesperson:  sp,
			TeamLeadName: names[sp.TeamLeadID],
		}
	}
	return views, nil
}
