package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type AuthHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewAuthHandler(d *dispatch.Dispatcher) *AuthHandler {
	return &AuthHandler{dispatcher: d}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var dto domain.RegisterUserDTO
	if !bindJSON(c, &dto) {
		return
	}
	reply[*domain.User](c, h.dispatcher, http.StatusCreated, service.RegisterUser{RegisterUserDTO: dto})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var dto domain.LoginUserDTO
	if !bindJSON(c, &dto) {
		return
	}
	reply[*domain.AuthResponseDTO](c, h.dispatcher, http.StatusOK, service.Login{LoginUserDTO: dto})
}

// GET /users/:id
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.User](c, h.dispatcher, http.StatusOK, service.GetUser{ID: id})
}
