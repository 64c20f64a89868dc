package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/service"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/response"
)

// SolveHandler serves solver job endpoints.
type SolveHandler struct {
	service *service.SolveService
}

// NewSolveHandler constructs handler.
func NewSolveHandler(svc *service.SolveService) *SolveHandler {
	return &SolveHandler{service: svc}
}

// Solve godoc
// @Summary Submit a raw canonical timetable for solving
// @Tags Solver
// @Accept json
// @Produce json
// @Param payload body models.Timetable true "Canonical timetable"
// @Success 202 {object} response.Envelope
// @Router /solve [post]
// @Security BearerAuth
func (h *SolveHandler) Solve(c *gin.Context) {
	var timetable models.Timetable
	if err := c.ShouldBindJSON(&timetable); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload"))
		return
	}
	jobID, err := h.service.StartSolve(c.Request.Context(), timetable)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"jobId": jobID})
}

// Status godoc
// @Summary Poll the state of a solve job
// @Tags Solver
// @Produce json
// @Param jobId query string true "Solve job id"
// @Success 200 {object} response.Envelope
// @Router /solution/status [get]
func (h *SolveHandler) Status(c *gin.Context) {
	jobID := c.Query("jobId")
	if jobID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "jobId is required"))
		return
	}
	status, err := h.service.Status(jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Solution godoc
// @Summary Fetch the solved timetable for a job
// @Tags Solver
// @Produce json
// @Param jobId query string true "Solve job id"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /solution [get]
func (h *SolveHandler) Solution(c *gin.Context) {
	jobID := c.Query("jobId")
	if jobID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "jobId is required"))
		return
	}
	solution, err := h.service.Solution(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, solution, nil)
}

// Result godoc
// @Summary Fetch the terminal outcome and persistence report of a job
// @Tags Solver
// @Produce json
// @Param jobId query string true "Solve job id"
// @Success 200 {object} response.Envelope
// @Router /solution/result [get]
func (h *SolveHandler) Result(c *gin.Context) {
	jobID := c.Query("jobId")
	if jobID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "jobId is required"))
		return
	}
	result, err := h.service.Result(jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
