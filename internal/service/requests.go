package service

import (
	"time"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

// Vehicle types.

type CreateVehicleType struct{ domain.CreateVehicleTypeDTO }

type GetVehicleType struct{ ID int }

type ListVehicleTypes struct{ ActiveOnly bool }

type UpdateVehicleType struct {
	ID    int
	Patch domain.VehicleTypePatch
}

type DeactivateVehicleType struct{ ID int }

func (CreateVehicleType) Kind() dispatch.Kind     { return "vehicle_type.create" }
func (GetVehicleType) Kind() dispatch.Kind        { return "vehicle_type.get" }
func (ListVehicleTypes) Kind() dispatch.Kind      { return "vehicle_type.list" }
func (UpdateVehicleType) Kind() dispatch.Kind     { return "vehicle_type.update" }
func (DeactivateVehicleType) Kind() dispatch.Kind { return "vehicle_type.deactivate" }

// Rate configs.

type CreateRateConfig struct{ domain.CreateRateConfigDTO }

type GetRateConfig struct{ ID int }

type GetActiveRateConfig struct{ VehicleTypeID int }

type ListRateConfigs struct{ VehicleTypeID int }

type UpdateRateConfig struct {
	ID    int
	Patch domain.RateConfigPatch
}

type DeactivateRateConfig struct{ ID int }

func (CreateRateConfig) Kind() dispatch.Kind     { return "rate_config.create" }
func (GetRateConfig) Kind() dispatch.Kind        { return "rate_config.get" }
func (GetActiveRateConfig) Kind() dispatch.Kind  { return "rate_config.get_active" }
func (ListRateConfigs) Kind() dispatch.Kind      { return "rate_config.list" }
func (UpdateRateConfig) Kind() dispatch.Kind     { return "rate_config.update" }
func (DeactivateRateConfig) Kind() dispatch.Kind { return "rate_config.deactivate" }

// Vehicles.

type RegisterVehicle struct{ domain.RegisterVehicleDTO }

type GetVehicle struct{ ID int }

type GetVehicleByPlate struct{ LicensePlate string }

type ListVehicles struct{}

func (RegisterVehicle) Kind() dispatch.Kind   { return "vehicle.register" }
func (GetVehicle) Kind() dispatch.Kind        { return "vehicle.get" }
func (GetVehicleByPlate) Kind() dispatch.Kind { return "vehicle.get_by_plate" }
func (ListVehicles) Kind() dispatch.Kind      { return "vehicle.list" }

// Parking spaces.

type CreateParkingSpace struct{ domain.CreateParkingSpaceDTO }

type GetParkingSpace struct{ ID int }

type UpdateParkingSpace struct {
	ID int
	domain.UpdateParkingSpaceDTO
}

type ListParkingSpaces struct{ Filter domain.ParkingSpaceFilter }

type CountParkingSpaces struct{ Filter domain.ParkingSpaceFilter }

func (CreateParkingSpace) Kind() dispatch.Kind { return "parking_space.create" }
func (GetParkingSpace) Kind() dispatch.Kind    { return "parking_space.get" }
func (UpdateParkingSpace) Kind() dispatch.Kind { return "parking_space.update" }
func (ListParkingSpaces) Kind() dispatch.Kind  { return "parking_space.list" }
func (CountParkingSpaces) Kind() dispatch.Kind { return "parking_space.count" }

// Sessions.

type StartSession struct{ domain.StartSessionDTO }

type EndSession struct{ domain.EndSessionDTO }

type GetSession struct{ ID int }

type GetSessionByTicket struct{ TicketCode string }

type ListActiveSessions struct{}

type ListSessions struct{ Filter domain.ParkingSessionFilter }

func (StartSession) Kind() dispatch.Kind       { return "session.start" }
func (EndSession) Kind() dispatch.Kind         { return "session.end" }
func (GetSession) Kind() dispatch.Kind         { return "session.get" }
func (GetSessionByTicket) Kind() dispatch.Kind { return "session.get_by_ticket" }
func (ListActiveSessions) Kind() dispatch.Kind { return "session.list_active" }
func (ListSessions) Kind() dispatch.Kind       { return "session.list" }

// Payments.

type CalculatePayment struct{ domain.CalculatePaymentDTO }

type ProcessPayment struct{ domain.ProcessPaymentDTO }

type CancelPayment struct{ ID int }

type GetPayment struct{ ID int }

type GetPaymentStatus struct{ ID int }

type GetPaymentBySession struct{ SessionID int }

func (CalculatePayment) Kind() dispatch.Kind    { return "payment.calculate" }
func (ProcessPayment) Kind() dispatch.Kind      { return "payment.process" }
func (CancelPayment) Kind() dispatch.Kind       { return "payment.cancel" }
func (GetPayment) Kind() dispatch.Kind          { return "payment.get" }
func (GetPaymentStatus) Kind() dispatch.Kind    { return "payment.status" }
func (GetPaymentBySession) Kind() dispatch.Kind { return "payment.get_by_session" }

// Users.

type Login struct{ domain.LoginUserDTO }

type RegisterUser struct{ domain.RegisterUserDTO }

type GetUser struct{ ID int }

func (Login) Kind() dispatch.Kind        { return "auth.login" }
func (RegisterUser) Kind() dispatch.Kind { return "auth.register" }
func (GetUser) Kind() dispatch.Kind      { return "user.get" }

// Dashboard.

type GetDashboardSummary struct{}

type GetOccupancyReport struct{ Date time.Time }

type GetRevenueReport struct{ Date time.Time }

func (GetDashboardSummary) Kind() dispatch.Kind { return "dashboard.summary" }
func (GetOccupancyReport) Kind() dispatch.Kind  { return "dashboard.occupancy" }
func (GetRevenueReport) Kind() dispatch.Kind    { return "dashboard.revenue" }

// Plate recognition.

type RecognizePlate struct{ Image []byte }

func (RecognizePlate) Kind() dispatch.Kind { return "lpr.recognize" }
