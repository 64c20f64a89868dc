package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/dto"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/service"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/response"
)

// ClassHandler serves class CRUD and validation endpoints.
type ClassHandler struct {
	service *service.ClassService
}

// NewClassHandler constructs handler.
func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List all classes
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// ListEnriched godoc
// @Summary List classes joined with display names
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes/enriched [get]
func (h *ClassHandler) ListEnriched(c *gin.Context) {
	classes, err := h.service.ListEnriched(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Suggestions godoc
// @Summary Ranked candidate slots for a teacher/group pair
// @Tags Classes
// @Produce json
// @Param teacherId query string true "Teacher id"
// @Param studentGroupId query string true "Student group id"
// @Param excludeClassId query string false "Class excluded from comparison"
// @Success 200 {object} response.Envelope
// @Router /classes/suggestions [get]
func (h *ClassHandler) Suggestions(c *gin.Context) {
	var query dto.SuggestionQuery
	if err := c.ShouldBindQuery(&query); err != nil || query.TeacherID == "" || query.StudentGroupID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teacherId and studentGroupId are required"))
		return
	}
	slots, err := h.service.Suggestions(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Get godoc
// @Summary Fetch one class
// @Tags Classes
// @Produce json
// @Param id path string true "Class id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// CheckConflicts godoc
// @Summary Validate a candidate placement without persisting
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.CheckConflictRequest true "Candidate placement"
// @Success 200 {object} response.Envelope
// @Router /classes/check-conflicts [post]
func (h *ClassHandler) CheckConflicts(c *gin.Context) {
	var req dto.CheckConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict check payload"))
		return
	}
	if req.TeacherID == "" || req.StudentGroupID == "" || req.Day == "" || req.StartTime == "" || req.EndTime == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing required fields"))
		return
	}
	check, err := h.service.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, check, nil)
}

// Create godoc
// @Summary Add a class manually
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassRequest true "New class"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
// @Security BearerAuth
func (h *ClassHandler) Create(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload"))
		return
	}
	class, check, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"class": class, "conflictInfo": check}, nil)
}

// Patch godoc
// @Summary Partially update a class, re-running conflict detection
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class id"
// @Param payload body dto.PatchClassRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id} [patch]
// @Security BearerAuth
func (h *ClassHandler) Patch(c *gin.Context) {
	var req dto.PatchClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid patch payload"))
		return
	}
	class, check, err := h.service.Patch(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"class": class, "conflictInfo": check}, nil)
}

// Delete godoc
// @Summary Delete a class
// @Tags Classes
// @Param id path string true "Class id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /classes/{id} [delete]
// @Security BearerAuth
func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
