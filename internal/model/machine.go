package model

// MachineType distinguishes washers from dryers.
type MachineType string

const (
	MachineTypeWasher MachineType = "washer"
	MachineTypeDryer  MachineType = "dryer"
)

// MachineStatus is the closed set of states a machine can be in.
type MachineStatus string

const (
	StatusAvailable MachineStatus = "available"
	StatusInUse     MachineStatus = "in_use"
	StatusFinishing MachineStatus = "finishing"

	// StatusOutOfOrder is kept so payloads from older deployments still
	// decode. The reconciler never produces it.
	//
	// Deprecated: machines are marked unusable via Notes instead.
	StatusOutOfOrder MachineStatus = "out_of_order"
)

// Machine is one washer or dryer in the roster. The ID is a composite:
// floor digits, then a type slot (0 for washers, 5 for dryers), then
// the machine's ordinal on its floor. Only HasLaundry, HasMotion and
// Status change at runtime; everything else is fixed at startup.
type Machine struct {
	ID         int           `json:"id"`
	Type       MachineType   `json:"type"`
	HasLaundry bool          `json:"hasLaundry"`
	HasMotion  bool          `json:"hasMotion"`
	Status     MachineStatus `json:"status"`
	Number     int           `json:"number"`
	Notes      string        `json:"notes,omitempty"`
}

// Busy reports whether the machine is occupied in any form: laundry
// inside, drum moving, or both.
func (m Machine) Busy() bool {
	return m.HasLaundry || m.HasMotion
}
