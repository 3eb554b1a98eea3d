// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"github.com/WideDream/sto-mana/services"
	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct {
	Reports *services.ReportService
	Now     func() time.Time
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports, Now: time.Now}
}

// GetMonthlySales returns sales per month, most recent first
func (rc *ReportController) GetMonthlySales(c *gin.Context) {
	months, err := rc.Reports.MonthlySales(c.Request.Context(), queryLimit(c, services.DefaultMonthLimit))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch monthly sales")
		return
	}
	c.JSON(http.StatusOK, months)
}

func (rc *ReportController) GetTopCustomers(c *gin.Context) {
	customers, err := rc.Reports.TopCustomers(c.Request.Context(), queryLimit(c, services.DefaultCustomerLimit))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch top customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (rc *ReportController) GetPaymentStatusSummary(c *gin.Context) {
	summary, err := rc.Reports.PaymentStatusSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch payment status summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetOverdueRecords lists pending records past their due date
func (rc *ReportController) GetOverdueRecords(c *gin.Context) {
	rows, err := rc.Reports.OverdueRecords(c.Request.Context(), rc.Now())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch overdue records")
		return
	}
	c.JSON(http.StatusOK, rows)
}
