package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/salestrack/salestrack_backend/models"
)

func TestSalesCSVEmpty(t *testing.T) {
	got := SalesCSV(nil)

	want := `"Policy Number","Vehicle Number","Salesperson","Team Lead","Date","Status","Created At"`
	if got != want {
		t.Errorf("SalesCSV(nil) = %q, want header only %q", got, want)
	}
}

func TestSalesCSVRows(t *testing.T) {
	date := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	sales := []models.SaleView{
		{
			Sale: models.Sale{
				PolicyNumber:  "POL001",
				VehicleNumber: "VEH001",
				Date:          date,
				Status:        models.SaleStatusApproved,
				CreatedAt:     created,
			},
			SalespersonName: "Salesperson 1",
			TeamLeadName:    "Team Lead 1",
		},
		{
			// Unresolvable names fall back to N/A
			Sale: models.Sale{
				PolicyNumber:  "POL002",
				VehicleNumber: "VEH002",
				Date:          date,
				Status:        models.SaleStatusPending,
				CreatedAt:     created,
			},
		},
	}

	got := SalesCSV(sales)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}

	wantRow1 := `"POL001","VEH001","Salesperson 1","Team Lead 1","Fri Jun 14 2024","approved","Sat Jun 15 2024"`
	if lines[1] != wantRow1 {
		t.Errorf("row 1 = %q, want %q", lines[1], wantRow1)
	}

	wantRow2 := `"POL002","VEH002","N/A","N/A","Fri Jun 14 2024","pending","Sat Jun 15 2024"`
	if lines[2] != wantRow2 {
		t.Errorf("row 2 = %q, want %q", lines[2], wantRow2)
	}
}

func TestSalesCSVQuotesEveryField(t *testing.T) {
	sales := []models.SaleView{{
		Sale: models.Sale{
			PolicyNumber:  "POL,003",
			VehicleNumber: "VEH003",
			Date:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:        models.SaleStatusApproved,
			CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}

	lines := strings.Split(SalesCSV(sales), "\n")
	for _, field := range strings.Split(lines[1], `","`) {
		field = strings.Trim(field, `"`)
		if field == "" {
			t.Errorf("empty field in row %q", lines[1])
		}
	}
	if !strings.Contains(lines[1], `"POL,003"`) {
		t.Errorf("comma-bearing field not quoted intact: %q", lines[1])
	}
}
