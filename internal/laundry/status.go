// Package laundry implements the snapshot pipeline: deriving machine
// status from the shared sensor reading, reconciling it into the
// floor roster, and detecting busy-to-free transitions.
package laundry

import (
	"laundrify-backend/internal/model"
)

// DeriveStatus maps the sensor pair onto a machine status:
//
//	laundry + motion  -> in_use    (machine is running)
//	laundry, no motion -> finishing (done, waiting for pickup)
//	no laundry         -> available
//
// Motion without laundry also reads as available: with this sensor
// pairing it means a door slam or a read race, not a running machine.
func DeriveStatus(hasLaundry, hasMotion bool) model.MachineStatus {
	switch {
	case hasLaundry && hasMotion:
		return model.StatusInUse
	case hasLaundry:
		return model.StatusFinishing
	default:
		return model.StatusAvailable
	}
}
