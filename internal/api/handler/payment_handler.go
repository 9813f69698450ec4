package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type PaymentHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewPaymentHandler(d *dispatch.Dispatcher) *PaymentHandler {
	return &PaymentHandler{dispatcher: d}
}

// POST /payments/calculate
func (h *PaymentHandler) Calculate(c *gin.Context) {
	var dto domain.CalculatePaymentDTO
	if !bindJSON(c, &dto) {
		return
	}
	reply[*domain.CalculatePaymentResponse](c, h.dispatcher, http.StatusOK, service.CalculatePayment{CalculatePaymentDTO: dto})
}

// POST /payments/process
func (h *PaymentHandler) Process(c *gin.Context) {
	var dto domain.ProcessPaymentDTO
	if !bindJSON(c, &dto) {
		return
	}
	dto.OperatorID = operatorOrCaller(c, dto.OperatorID)
	reply[*domain.Payment](c, h.dispatcher, http.StatusOK, service.ProcessPayment{ProcessPaymentDTO: dto})
}

// GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.Payment](c, h.dispatcher, http.StatusOK, service.GetPayment{ID: id})
}

// GET /payments/:id/status
func (h *PaymentHandler) Status(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.PaymentStatusResponse](c, h.dispatcher, http.StatusOK, service.GetPaymentStatus{ID: id})
}

// POST /payments/:id/cancel
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.Payment](c, h.dispatcher, http.StatusOK, service.CancelPayment{ID: id})
}

// GET /payments/session/:sessionId
func (h *PaymentHandler) GetBySession(c *gin.Context) {
	id, ok := pathID(c, "sessionId")
	if !ok {
		return
	}
	reply[*domain.Payment](c, h.dispatcher, http.StatusOK, service.GetPaymentBySession{SessionID: id})
}
