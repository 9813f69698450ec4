package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type ParkingSessionHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewParkingSessionHandler(d *dispatch.Dispatcher) *ParkingSessionHandler {
	return &ParkingSessionHandler{dispatcher: d}
}

// POST /parking-sessions/start
func (h *ParkingSessionHandler) Start(c *gin.Context) {
	var dto domain.StartSessionDTO
	if !bindJSON(c, &dto) {
		return
	}
	dto.OperatorID = operatorOrCaller(c, dto.OperatorID)
	reply[*domain.StartSessionResponse](c, h.dispatcher, http.StatusCreated, service.StartSession{StartSessionDTO: dto})
}

// POST /parking-sessions/end
func (h *ParkingSessionHandler) End(c *gin.Context) {
	var dto domain.EndSessionDTO
	if !bindJSON(c, &dto) {
		return
	}
	dto.OperatorID = operatorOrCaller(c, dto.OperatorID)
	reply[*domain.EndSessionResponse](c, h.dispatcher, http.StatusOK, service.EndSession{EndSessionDTO: dto})
}

// GET /parking-sessions/active
func (h *ParkingSessionHandler) ListActive(c *gin.Context) {
	reply[[]domain.ParkingSession](c, h.dispatcher, http.StatusOK, service.ListActiveSessions{})
}

// GET /parking-sessions?active=&vehicleId=&from=&to=
func (h *ParkingSessionHandler) List(c *gin.Context) {
	var filter domain.ParkingSessionFilter
	if !bindQuery(c, &filter) {
		return
	}
	reply[[]domain.ParkingSession](c, h.dispatcher, http.StatusOK, service.ListSessions{Filter: filter})
}

// GET /parking-sessions/:id
func (h *ParkingSessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.ParkingSession](c, h.dispatcher, http.StatusOK, service.GetSession{ID: id})
}

// GET /parking-sessions/ticket/:code
func (h *ParkingSessionHandler) GetByTicket(c *gin.Context) {
	reply[*domain.ParkingSession](c, h.dispatcher, http.StatusOK, service.GetSessionByTicket{TicketCode: c.Param("code")})
}
