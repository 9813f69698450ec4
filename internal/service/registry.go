package service

import (
	"errors"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
)

// Register binds every request kind to its handler.
func Register(d *dispatch.Dispatcher, s *Services) error {
	return errors.Join(
		dispatch.Handle(d, s.VehicleTypes.Create),
		dispatch.Handle(d, s.VehicleTypes.Get),
		dispatch.Handle(d, s.VehicleTypes.List),
		dispatch.Handle(d, s.VehicleTypes.Update),
		dispatch.Handle(d, s.VehicleTypes.Deactivate),

		dispatch.Handle(d, s.RateConfigs.Create),
		dispatch.Handle(d, s.RateConfigs.Get),
		dispatch.Handle(d, s.RateConfigs.GetActive),
		dispatch.Handle(d, s.RateConfigs.List),
		dispatch.Handle(d, s.RateConfigs.Update),
		dispatch.Handle(d, s.RateConfigs.Deactivate),

		dispatch.Handle(d, s.Vehicles.Register),
		dispatch.Handle(d, s.Vehicles.Get),
		dispatch.Handle(d, s.Vehicles.GetByPlate),
		dispatch.Handle(d, s.Vehicles.List),

		dispatch.Handle(d, s.Spaces.Create),
		dispatch.Handle(d, s.Spaces.Get),
		dispatch.Handle(d, s.Spaces.Update),
		dispatch.Handle(d, s.Spaces.List),
		dispatch.Handle(d, s.Spaces.Count),

		dispatch.Handle(d, s.Sessions.Start),
		dispatch.Handle(d, s.Sessions.End),
		dispatch.Handle(d, s.Sessions.Get),
		dispatch.Handle(d, s.Sessions.GetByTicket),
		dispatch.Handle(d, s.Sessions.ListActive),
		dispatch.Handle(d, s.Sessions.List),

		dispatch.Handle(d, s.Payments.Calculate),
		dispatch.Handle(d, s.Payments.Process),
		dispatch.Handle(d, s.Payments.Cancel),
		dispatch.Handle(d, s.Payments.Get),
		dispatch.Handle(d, s.Payments.Status),
		dispatch.Handle(d, s.Payments.GetBySession),

		dispatch.Handle(d, s.Auth.Login),
		dispatch.Handle(d, s.Auth.Register),
		dispatch.Handle(d, s.Auth.GetUser),

		dispatch.Handle(d, s.Dashboard.Summary),
		dispatch.Handle(d, s.Dashboard.Occupancy),
		dispatch.Handle(d, s.Dashboard.Revenue),

		dispatch.Handle(d, s.Plates.Recognize),
	)
}
