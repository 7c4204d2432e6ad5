package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salestrack/salestrack_backend/config"
	"github.com/salestrack/salestrack_backend/models"
	"github.com/salestrack/salestrack_backend/utils"
)

// PrincipalController manages admin and team lead accounts.
type PrincipalController struct {
	DB *mongo.Client
}

func NewPrincipalController(db *mongo.Client) *PrincipalController {
	return &PrincipalController{DB: db}
}

func (pc *PrincipalController) AddAdmin(c echo.Context) error {
	return pc.addPrincipal(c, models.RoleAdmin, "Admin created successfully", "Email already exists")
}

func (pc *PrincipalController) ListAdmins(c echo.Context) error {
	return pc.listPrincipals(c, models.RoleAdmin)
}

func (pc *PrincipalController) AddTeamLead(c echo.Context) error {
	return pc.addPrincipal(c, models.RoleTeamLead, "Team Lead created successfully", "Email already in use")
}

func (pc *PrincipalController) ListTeamLeads(c echo.Context) error {
	return pc.listPrincipals(c, models.RoleTeamLead)
}

func (pc *PrincipalController) addPrincipal(c echo.Context, role, successMsg, duplicateMsg string) error {
	var req models.PrincipalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name, email, password, and phone are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid phone number",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	users := config.GetCollection(pc.DB, "users")

	// Uniqueness is per role: the same address may already exist under
	// another role.
	err = users.FindOne(ctx, bson.M{"email": email, "role": role}).Err()
	if err == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: duplicateMsg,
		})
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("Duplicate email check error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Password hash error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	principal := models.Principal{
		ID:        primitive.NewObjectID(),
		Name:      utils.SanitizeInput(req.Name),
		Email:     email,
		Password:  hash,
		Phone:     phone,
		Role:      role,
		CreatedAt: time.Now(),
	}

	if _, err := users.InsertOne(ctx, principal); err != nil {
		// Index-backed fallback for concurrent creates with the same email
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: duplicateMsg,
			})
		}
		log.Printf("Insert principal error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	principal.Password = ""

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: successMsg,
		Data:    principal,
	})
}

func (pc *PrincipalController) listPrincipals(c echo.Context, role string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	users := config.GetCollection(pc.DB, "users")

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := users.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		log.Printf("List principals error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}
	defer cursor.Close(ctx)

	principals := []models.Principal{}
	if err := cursor.All(ctx, &principals); err != nil {
		log.Printf("Decode principals error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	for i := range principals {
		principals[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Retrieved successfully",
		Data:    principals,
	})
}
