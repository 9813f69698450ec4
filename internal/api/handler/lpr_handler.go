package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/respond"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type LPRHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewLPRHandler(d *dispatch.Dispatcher) *LPRHandler {
	return &LPRHandler{dispatcher: d}
}

// POST /api/v1/lpr/process-image
func (h *LPRHandler) ProcessImage(c *gin.Context) {
	var req domain.LPRRequestDTO
	if !bindJSON(c, &req) {
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		respond.Error(c, apperror.NewBadRequest("imageBase64 is not valid base64").WithCode("VALIDATION_ERROR"))
		return
	}
	reply[*domain.LPRResponseDTO](c, h.dispatcher, http.StatusOK, service.RecognizePlate{Image: image})
}
