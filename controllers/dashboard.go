package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/WideDream/sto-mana/services"
	"github.com/WideDream/sto-mana/utils"
	"github.com/gin-gonic/gin"
)

const recentRecordLimit = 5

type DashboardOverview struct {
	TotalSales        float64        `json:"totalSales"`
	TotalLoans        float64        `json:"totalLoans"`
	TotalSalesDisplay string         `json:"totalSalesDisplay"`
	TotalLoansDisplay string         `json:"totalLoansDisplay"`
	TotalCustomers    int64          `json:"totalCustomers"`
	TotalRecords      int64          `json:"totalRecords"`
	OverdueRecords    int64          `json:"overdueRecords"`
	RecentRecords     []RecentRecord `json:"recentRecords"`
}

type RecentRecord struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Product  string `json:"product"`
	Total    string `json:"total"`
	SaleDate string `json:"saleDate"` // e.g. "Today", "Yesterday"
}

type DashboardController struct {
	Ledger    *services.LedgerService
	Customers *services.CustomerService
	Reports   *services.ReportService
	Now       func() time.Time
}

func NewDashboardController(ledger *services.LedgerService, customers *services.CustomerService, reports *services.ReportService) *DashboardController {
	return &DashboardController{Ledger: ledger, Customers: customers, Reports: reports, Now: time.Now}
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	ctx := c.Request.Context()
	now := dc.Now()

	totals, err := dc.Ledger.AggregateTotals(ctx)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch totals")
		return
	}
	customers, err := dc.Customers.Count(ctx)
	if err != nil {
		respondServiceError(c, err, "Failed to count customers")
		return
	}
	records, err := dc.Ledger.CountRecords(ctx)
	if err != nil {
		respondServiceError(c, err, "Failed to count records")
		return
	}
	overdue, err := dc.Reports.CountOverdue(ctx, now)
	if err != nil {
		respondServiceError(c, err, "Failed to count overdue records")
		return
	}
	latest, err := dc.Ledger.ListRecords(ctx, services.RecordFilter{Limit: recentRecordLimit})
	if err != nil {
		respondServiceError(c, err, "Failed to fetch recent records")
		return
	}

	recent := make([]RecentRecord, 0, len(latest))
	for _, r := range latest {
		recent = append(recent, RecentRecord{
			ID:       r.ID,
			Name:     r.FullName,
			Product:  r.Product,
			Total:    utils.FormatRWF(r.Total),
			SaleDate: relativeDay(r.Date, now),
		})
	}

	c.JSON(http.StatusOK, DashboardOverview{
		TotalSales:        totals.TotalSales,
		TotalLoans:        totals.TotalLoans,
		TotalSalesDisplay: utils.FormatRWF(totals.TotalSales),
		TotalLoansDisplay: utils.FormatRWF(totals.TotalLoans),
		TotalCustomers:    customers,
		TotalRecords:      records,
		OverdueRecords:    overdue,
		RecentRecords:     recent,
	})
}

// relativeDay labels a stored date relative to now. Dates that cannot be
// parsed are returned unchanged.
func relativeDay(date string, now time.Time) string {
	t, err := time.ParseInLocation(utils.DateLayout, date, now.Location())
	if err != nil {
		return date
	}
	switch days := utils.DaysBetween(t, now); {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return date
	}
}
