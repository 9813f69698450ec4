package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type VehicleHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewVehicleHandler(d *dispatch.Dispatcher) *VehicleHandler {
	return &VehicleHandler{dispatcher: d}
}

// POST /vehicles
func (h *VehicleHandler) Register(c *gin.Context) {
	var dto domain.RegisterVehicleDTO
	if !bindJSON(c, &dto) {
		return
	}
	reply[*domain.Vehicle](c, h.dispatcher, http.StatusCreated, service.RegisterVehicle{RegisterVehicleDTO: dto})
}

// GET /vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	reply[[]domain.Vehicle](c, h.dispatcher, http.StatusOK, service.ListVehicles{})
}

// GET /vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.Vehicle](c, h.dispatcher, http.StatusOK, service.GetVehicle{ID: id})
}

// GET /vehicles/plate/:plate
func (h *VehicleHandler) GetByPlate(c *gin.Context) {
	reply[*domain.Vehicle](c, h.dispatcher, http.StatusOK, service.GetVehicleByPlate{LicensePlate: c.Param("plate")})
}
