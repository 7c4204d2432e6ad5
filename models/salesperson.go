package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Salesperson belongs to exactly one team lead at any time. Reassignment
// moves the reference; sales created before a reassignment keep the old
// team_lead_id.
type Salesperson struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Phone      string             `json:"phone" bson:"phone"`
	TeamLeadID primitive.ObjectID `json:"team_lead_id" bson:"team_lead_id"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// SalespersonView adds the resolved team lead name for display.
type SalespersonView struct {
	Salesperson
	TeamLeadName string `json:"team_lead_name,omitempty" bson:"-"`
}

type SalespersonRequest struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	TeamLeadID string `json:"team_lead_id"`
}

type AssignTeamLeadRequest struct {
	TeamLeadID string `json:"team_lead_id" validate:"required"`
}
