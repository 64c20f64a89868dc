// Package handler maps HTTP requests onto the scheduling services.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/dto"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/service"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/response"
)

// AuthHandler serves authentication endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}
	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
