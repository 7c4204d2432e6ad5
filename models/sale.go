package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sale status values. The only transition is pending -> approved.
const (
	SaleStatusPending  = "pending"
	SaleStatusApproved = "approved"
)

// SaleLog is one entry of a sale's append-only audit trail.
type SaleLog struct {
	Action    string             `json:"action" bson:"action"`
	By        string             `json:"by" bson:"by"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// Sale is a single policy sale entry. team_lead_id is denormalized from
// the salesperson at creation time and is not resynced if the salesperson
// is later reassigned. The pair (policy_number, date) is unique across
// the collection, enforced by index.
type Sale struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PolicyNumber  string             `json:"policy_number" bson:"policy_number"`
	VehicleNumber string             `json:"vehicle_number" bson:"vehicle_number"`
	SalespersonID primitive.ObjectID `json:"salesperson_id" bson:"salesperson_id"`
	TeamLeadID    primitive.ObjectID `json:"team_lead_id" bson:"team_lead_id"`
	Date          time.Time          `json:"date" bson:"date"`
	Status        string             `json:"status" bson:"status"`
	CreatedBy     primitive.ObjectID `json:"created_by" bson:"created_by"`
	Logs          []SaleLog          `json:"logs" bson:"logs"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// SaleView adds resolved names for display only.
type SaleView struct {
	Sale
	SalespersonName string `json:"salesperson_name" bson:"-"`
	TeamLeadName    string `json:"team_lead_name" bson:"-"`
}

type AddSaleRequest struct {
	PolicyNumber  string `json:"policy_number" validate:"required"`
	VehicleNumber string `json:"vehicle_number" validate:"required"`
	SalespersonID string `json:"salesperson_id" validate:"required"`
	Date          string `json:"date" validate:"required"`
}

// Pagination describes one page of a sales listing.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}
