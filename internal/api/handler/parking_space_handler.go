package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/respond"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type ParkingSpaceHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewParkingSpaceHandler(d *dispatch.Dispatcher) *ParkingSpaceHandler {
	return &ParkingSpaceHandler{dispatcher: d}
}

// POST /parking-spaces
func (h *ParkingSpaceHandler) Create(c *gin.Context) {
	var dto domain.CreateParkingSpaceDTO
	if !bindJSON(c, &dto) {
		return
	}
	reply[*domain.ParkingSpace](c, h.dispatcher, http.StatusCreated, service.CreateParkingSpace{CreateParkingSpaceDTO: dto})
}

// GET /parking-spaces?active=&available=&vehicleTypeId=
func (h *ParkingSpaceHandler) List(c *gin.Context) {
	var filter domain.ParkingSpaceFilter
	if !bindQuery(c, &filter) {
		return
	}
	reply[[]domain.ParkingSpace](c, h.dispatcher, http.StatusOK, service.ListParkingSpaces{Filter: filter})
}

// GET /parking-spaces/count takes the same filters as List.
func (h *ParkingSpaceHandler) Count(c *gin.Context) {
	var filter domain.ParkingSpaceFilter
	if !bindQuery(c, &filter) {
		return
	}
	n, err := dispatch.Send[int](c.Request.Context(), h.dispatcher, service.CountParkingSpaces{Filter: filter})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// GET /parking-spaces/:id
func (h *ParkingSpaceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.ParkingSpace](c, h.dispatcher, http.StatusOK, service.GetParkingSpace{ID: id})
}

// PATCH /parking-spaces/:id {action: occupy|free|activate|deactivate, licensePlate}
func (h *ParkingSpaceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto domain.UpdateParkingSpaceDTO
	if !bindJSON(c, &dto) {
		return
	}
	reply[*domain.ParkingSpace](c, h.dispatcher, http.StatusOK, service.UpdateParkingSpace{ID: id, UpdateParkingSpaceDTO: dto})
}
