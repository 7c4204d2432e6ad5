// config/seed.go
package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salestrack/salestrack_backend/models"
	"github.com/salestrack/salestrack_backend/utils"
)

const seedPassword = "password123"

// SeedDatabase loads sample principals, salespersons and sales on first
// start. It is idempotent: if any super admin exists the whole seed is
// skipped.
func SeedDatabase(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	users := GetCollection(client, "users")

	count, err := users.CountDocuments(ctx, bson.M{"role": models.RoleSuperAdmin})
	if err != nil {
		return fmt.Errorf("seed check failed: %w", err)
	}
	if count > 0 {
		log.Println("Database already seeded")
		return nil
	}

	log.Println("Seeding database...")

	hash, err := utils.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("seed password hash failed: %w", err)
	}

	now := time.Now()

	newPrincipal := func(name, email, phone, role string) models.Principal {
		return models.Principal{
			ID:        primitive.NewObjectID(),
			Name:      name,
			Email:     email,
			Password:  hash,
			Phone:     phone,
			Role:      role,
			CreatedAt: now,
		}
	}

	principals := []models.Principal{
		newPrincipal("Super Admin 1", "superadmin1@example.com", "1234567890", models.RoleSuperAdmin),
		newPrincipal("Super Admin 2", "superadmin2@example.com", "1234567891", models.RoleSuperAdmin),
		newPrincipal("Admin 1", "admin1@example.com", "2234567890", models.RoleAdmin),
		newPrincipal("Admin 2", "admin2@example.com", "2234567891", models.RoleAdmin),
		newPrincipal("Team Lead 1", "tl1@example.com", "3234567890", models.RoleTeamLead),
		newPrincipal("Team Lead 2", "tl2@example.com", "3234567891", models.RoleTeamLead),
		newPrincipal("Team Lead 3", "tl3@example.com", "3234567892", models.RoleTeamLead),
	}

	docs := make([]interface{}, len(principals))
	for i, p := range principals {
		docs[i] = p
	}
	if _, err := users.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed principals failed: %w", err)
	}

	teamLeads := principals[4:]

	salespersons := []models.Salesperson{
		{ID: primitive.NewObjectID(), Name: "Salesperson 1", Phone: "4234567890", TeamLeadID: teamLeads[0].ID, CreatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Salesperson 2", Phone: "4234567891", TeamLeadID: teamLeads[0].ID, CreatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Salesperson 3", Phone: "4234567892", TeamLeadID: teamLeads[1].ID, CreatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Salesperson 4", Phone: "4234567893", TeamLeadID: teamLeads[1].ID, CreatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Salesperson 5", Phone: "4234567894", TeamLeadID: teamLeads[2].ID, CreatedAt: now},
	}

	spDocs := make([]interface{}, len(salespersons))
	for i, sp := range salespersons {
		spDocs[i] = sp
	}
	if _, err := GetCollection(client, "salespersons").InsertMany(ctx, spDocs); err != nil {
		return fmt.Errorf("seed salespersons failed: %w", err)
	}

	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)

	newSale := func(policy, vehicle string, sp models.Salesperson, date time.Time, status string) models.Sale {
		return models.Sale{
			ID:            primitive.NewObjectID(),
			PolicyNumber:  policy,
			VehicleNumber: vehicle,
			SalespersonID: sp.ID,
			TeamLeadID:    sp.TeamLeadID,
			Date:          date,
			Status:        status,
			CreatedBy:     sp.TeamLeadID,
			Logs: []models.SaleLog{{
				Action:    "created",
				By:        models.RoleTeamLead,
				UserID:    sp.TeamLeadID,
				Timestamp: now,
			}},
			CreatedAt: now,
		}
	}

	sales := []interface{}{
		newSale("POL001", "VEH001", salespersons[0], now, models.SaleStatusApproved),
		newSale("POL002", "VEH002", salespersons[1], yesterday, models.SaleStatusPending),
		newSale("POL003", "VEH003", salespersons[2], lastWeek, models.SaleStatusApproved),
	}

	if _, err := GetCollection(client, "sales").InsertMany(ctx, sales); err != nil {
		return fmt.Errorf("seed sales failed: %w", err)
	}

	log.Println("Database seeded successfully!")
	log.Println("Super Admin: superadmin1@example.com / " + seedPassword)
	log.Println("Admin: admin1@example.com / " + seedPassword)
	log.Println("Team Lead: tl1@example.com / " + seedPassword)

	return nil
}
