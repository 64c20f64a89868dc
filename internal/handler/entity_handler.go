package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/service"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/response"
)

// EntityHandler serves read-only listings of the uploaded entities.
type EntityHandler struct {
	service *service.EntityService
}

// NewEntityHandler constructs handler.
func NewEntityHandler(svc *service.EntityService) *EntityHandler {
	return &EntityHandler{service: svc}
}

// Teachers godoc
// @Summary List teachers
// @Tags Entities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *EntityHandler) Teachers(c *gin.Context) {
	teachers, err := h.service.Teachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// StudentGroups godoc
// @Summary List student groups
// @Tags Entities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student-groups [get]
func (h *EntityHandler) StudentGroups(c *gin.Context) {
	groups, err := h.service.StudentGroups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Courses godoc
// @Summary List courses
// @Tags Entities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *EntityHandler) Courses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Availabilities godoc
// @Summary List teacher availability windows
// @Tags Entities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availabilities [get]
func (h *EntityHandler) Availabilities(c *gin.Context) {
	records, err := h.service.Availabilities(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
