package controllers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/salestrack/salestrack_backend/models"
)

func TestBuildSalesFilterTeamLeadScoping(t *testing.T) {
	ownID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	// A team lead supplying another team's id must stay pinned to
	// their own team.
	filter, err := buildSalesFilter(models.RoleTeamLead, ownID, "", "", otherID.Hex(), "")
	if err != nil {
		t.Fatalf("buildSalesFilter() error = %v", err)
	}
	if got := filter["team_lead_id"]; got != ownID {
		t.Errorf("team_lead_id = %v, want caller's own id %v", got, ownID)
	}
}

func TestBuildSalesFilterAdminPassthrough(t *testing.T) {
	adminID := primitive.NewObjectID()
	teamLeadID := primitive.NewObjectID()
	salespersonID := primitive.NewObjectID()

	filter, err := buildSalesFilter(models.RoleAdmin, adminID, "", "", teamLeadID.Hex(), salespersonID.Hex())
	if err != nil {
		t.Fatalf("buildSalesFilter() error = %v", err)
	}
	if got := filter["team_lead_id"]; got != teamLeadID {
		t.Errorf("team_lead_id = %v, want %v", got, teamLeadID)
	}
	if got := filter["salesperson_id"]; got != salespersonID {
		t.Errorf("salesperson_id = %v, want %v", got, salespersonID)
	}
}

func TestBuildSalesFilterNoFilters(t *testing.T) {
	filter, err := buildSalesFilter(models.RoleSuperAdmin, primitive.NewObjectID(), "", "", "", "")
	if err != nil {
		t.Fatalf("buildSalesFilter() error = %v", err)
	}
	if len(filter) != 0 {
		t.Errorf("filter = %v, want empty", filter)
	}
}

func TestBuildSalesFilterDateRange(t *testing.T) {
	filter, err := buildSalesFilter(models.RoleAdmin, primitive.NewObjectID(), "2024-01-01", "2024-01-31", "", "")
	if err != nil {
		t.Fatalf("buildSalesFilter() error = %v", err)
	}

	dateFilter, ok := filter["date"].(bson.M)
	if !ok {
		t.Fatalf("date filter missing, got %v", filter)
	}

	// Bounds are inclusive on both sides
	from, _ := dateFilter["$gte"].(time.Time)
	to, _ := dateFilter["$lte"].(time.Time)
	wantFrom, _ := parseDate("2024-01-01")
	wantTo, _ := parseDate("2024-01-31")
	if !from.Equal(wantFrom) {
		t.Errorf("$gte = %v, want %v", from, wantFrom)
	}
	if !to.Equal(wantTo) {
		t.Errorf("$lte = %v, want %v", to, wantTo)
	}
}

func TestBuildSalesFilterInvalidInput(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name                string
		from, to            string
		teamLead, salespers string
	}{
		{name: "bad from", from: "not-a-date"},
		{name: "bad to", to: "31/01/2024"},
		{name: "bad team_lead_id", teamLead: "xyz"},
		{name: "bad salesperson_id", salespers: "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildSalesFilter(models.RoleAdmin, id, tt.from, tt.to, tt.teamLead, tt.salespers); err == nil {
				t.Error("buildSalesFilter() should fail")
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2024-06-15"); err != nil {
		t.Errorf("parseDate(calendar date) error = %v", err)
	}
	if _, err := parseDate("2024-06-15T10:30:00Z"); err != nil {
		t.Errorf("parseDate(RFC3339) error = %v", err)
	}
	if _, err := parseDate("15 June 2024"); err == nil {
		t.Error("parseDate(free text) should fail")
	}
}

func TestSaleStatusForDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"last week", now.AddDate(0, 0, -7), models.SaleStatusPending},
		{"late yesterday", time.Date(2024, 6, 14, 23, 59, 59, 0, time.Local), models.SaleStatusPending},
		{"start of today", time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local), models.SaleStatusApproved},
		{"earlier today", time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local), models.SaleStatusApproved},
		{"tomorrow", now.AddDate(0, 0, 1), models.SaleStatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := saleStatusForDate(tt.date, now); got != tt.want {
				t.Errorf("saleStatusForDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := totalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
