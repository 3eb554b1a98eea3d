package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/WideDream/sto-mana/services"
	"github.com/WideDream/sto-mana/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	Exports *services.ExportService
	Now     func() time.Time
}

func NewExportController(exports *services.ExportService) *ExportController {
	return &ExportController{Exports: exports, Now: time.Now}
}

// ExportCSV downloads every record as CSV in ascending date order
func (ec *ExportController) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := ec.Exports.WriteCSV(c.Request.Context(), &buf); err != nil {
		respondServiceError(c, err, "Failed to export records")
		return
	}
	c.Header("Content-Disposition", ec.attachment("csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (ec *ExportController) ExportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := ec.Exports.WriteXLSX(c.Request.Context(), &buf); err != nil {
		respondServiceError(c, err, "Failed to export records")
		return
	}
	c.Header("Content-Disposition", ec.attachment("xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (ec *ExportController) attachment(ext string) string {
	return fmt.Sprintf(`attachment; filename="records-%s.%s"`, utils.FormatDate(ec.Now()), ext)
}
