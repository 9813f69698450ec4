package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleTypeOccupancy aggregates the spaces of one vehicle type.
type VehicleTypeOccupancy struct {
	VehicleTypeID   int    `json:"vehicleTypeId"`
	VehicleTypeName string `json:"vehicleTypeName"`
	TotalSpaces     int    `json:"totalSpaces"`
	ActiveSpaces    int    `json:"activeSpaces"`
	OccupiedSpaces  int    `json:"occupiedSpaces"`
	AvailableSpaces int    `json:"availableSpaces"`
}

type SessionStats struct {
	ActiveSessions int `json:"activeSessions"`
	Entered        int `json:"entered"`
	Exited         int `json:"exited"`
}

type PaymentStats struct {
	PaidTotal      decimal.Decimal                   `json:"paidTotal"`
	PaidCount      int                               `json:"paidCount"`
	PendingCount   int                               `json:"pendingCount"`
	CancelledCount int                               `json:"cancelledCount"`
	TotalsByMethod map[PaymentMethod]decimal.Decimal `json:"totalsByMethod"`
}

type DashboardSummary struct {
	TotalSpaces     int             `json:"totalSpaces"`
	ActiveSpaces    int             `json:"activeSpaces"`
	OccupiedSpaces  int             `json:"occupiedSpaces"`
	AvailableSpaces int             `json:"availableSpaces"`
	OccupancyRate   decimal.Decimal `json:"occupancyRate"`
	ActiveSessions  int             `json:"activeSessions"`
	TodayRevenue    decimal.Decimal `json:"todayRevenue"`
	PendingPayments int             `json:"pendingPayments"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}

type OccupancyReport struct {
	Date            string                 `json:"date"`
	SessionsEntered int                    `json:"sessionsEntered"`
	SessionsExited  int                    `json:"sessionsExited"`
	ActiveSessions  int                    `json:"activeSessions"`
	ByVehicleType   []VehicleTypeOccupancy `json:"byVehicleType"`
}

type RevenueReport struct {
	Date           string                            `json:"date"`
	TotalRevenue   decimal.Decimal                   `json:"totalRevenue"`
	PaymentCount   int                               `json:"paymentCount"`
	PendingCount   int                               `json:"pendingCount"`
	CancelledCount int                               `json:"cancelledCount"`
	ByMethod       map[PaymentMethod]decimal.Decimal `json:"byMethod"`
}
