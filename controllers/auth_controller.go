package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salestrack/salestrack_backend/config"
	"github.com/salestrack/salestrack_backend/middleware"
	"github.com/salestrack/salestrack_backend/models"
	"github.com/salestrack/salestrack_backend/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	DB *mongo.Client
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{DB: db}
}

// Login verifies email+password against the principals of the claimed
// role and issues a session token. A missing account and a wrong password
// produce the same response, so callers cannot probe for emails.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, password, and role are required",
		})
	}

	if !models.IsValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid role",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	users := config.GetCollection(ac.DB, "users")

	var principal models.Principal
	err = users.FindOne(ctx, bson.M{"email": email, "role": req.Role}).Decode(&principal)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}
	if err != nil {
		log.Printf("Login lookup error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}

	if err := utils.CheckPassword(req.Password, principal.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	// Update last login
	now := time.Now()
	_, err = users.UpdateOne(ctx,
		bson.M{"_id": principal.ID},
		bson.M{"$set": bson.M{"last_login": now}},
	)
	if err != nil {
		log.Printf("Failed to update last login: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Server error",
		})
	}
	principal.LastLogin = &now

	token, err := middleware.GenerateJWT(principal.ID.Hex(), principal.Role)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token": token,
			"user": map[string]interface{}{
				"id":         principal.ID,
				"name":       principal.Name,
				"email":      principal.Email,
				"role":       principal.Role,
				"last_login": principal.LastLogin,
			},
		},
	})
}
