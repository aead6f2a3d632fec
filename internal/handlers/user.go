package handlers

import (
	"net/http"

	"github.com/stetat/ToDo-bot/internal/dto"
	"github.com/stetat/ToDo-bot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler handles user registration.
type UserHandler struct {
	svc *service.UserService
	log *logrus.Entry
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(svc *service.UserService, log *logrus.Entry) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// Register godoc
// @Summary      Register a user (idempotent)
// @Tags         users
// @Accept       json
// @Param        body  body  dto.RegisterUserRequest  true  "User body"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.Register(c.Request.Context(), req.TgID, req.Name); err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	c.Status(http.StatusNoContent)
}
