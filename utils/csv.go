// utils/csv.go
package utils

import (
	"strconv"
	"strings"

	"github.com/salestrack/salestrack_backend/models"
)

// reportDateLayout renders calendar dates without a time-of-day component.
const reportDateLayout = "Mon Jan 02 2006"

var salesReportHeader = []string{
	"Policy Number", "Vehicle Number", "Salesperson", "Team Lead",
	"Date", "Status", "Created At",
}

// SalesCSV renders sales as a comma-separated table. Every field is
// double-quoted, including the header row; encoding/csv is not used
// because it only quotes fields that need it and the export format
// quotes unconditionally.
func SalesCSV(sales []models.SaleView) string {
	lines := make([]string, 0, len(sales)+1)
	lines = append(lines, quoteRow(salesReportHeader))

	for _, sale := range sales {
		salesperson := sale.SalespersonName
		if salesperson == "" {
			salesperson = "N/A"
		}
		teamLead := sale.TeamLeadName
		if teamLead == "" {
			teamLead = "N/A"
		}

		lines = append(lines, quoteRow([]string{
			sale.PolicyNumber,
			sale.VehicleNumber,
			salesperson,
			teamLead,
			sale.Date.Format(reportDateLayout),
			sale.Status,
			sale.CreatedAt.Format(reportDateLayout),
		}))
	}

	return strings.Join(lines, "\n")
}

func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = strconv.Quote(field)
	}
	return strings.Join(quoted, ",")
}
