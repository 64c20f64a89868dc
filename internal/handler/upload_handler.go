package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/service"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/response"
)

// UploadHandler serves the workbook import endpoint.
type UploadHandler struct {
	service *service.ImportService
}

// NewUploadHandler constructs handler.
func NewUploadHandler(svc *service.ImportService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// Upload godoc
// @Summary Upload a timetable workbook and start solving
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook (.xlsx)"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /upload [post]
// @Security BearerAuth
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no file uploaded"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read uploaded file"))
		return
	}

	result, err := h.service.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// Clear godoc
// @Summary Delete every scheduling entity
// @Tags Upload
// @Produce json
// @Success 204
// @Router /clear [post]
// @Security BearerAuth
func (h *UploadHandler) Clear(c *gin.Context) {
	if err := h.service.ClearAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
