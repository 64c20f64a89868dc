package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/service"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/response"
)

// ExportHandler serves schedule downloads.
type ExportHandler struct {
	service *service.ClassService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ClassService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// CSV godoc
// @Summary Download the schedule as CSV
// @Tags Export
// @Produce text/csv
// @Success 200 {string} string "CSV payload"
// @Router /export/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	payload, err := h.service.ExportCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", attachment("schedule", "csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// PDF godoc
// @Summary Download the schedule as PDF
// @Tags Export
// @Produce application/pdf
// @Success 200 {string} string "PDF payload"
// @Router /export/pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	payload, err := h.service.ExportPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", attachment("schedule", "pdf"))
	c.Data(http.StatusOK, "application/pdf", payload)
}

func attachment(name, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s_%s.%s"`, name, time.Now().UTC().Format("20060102"), ext)
}
