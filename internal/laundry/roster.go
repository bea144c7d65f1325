package laundry

import (
	"fmt"

	"laundrify-backend/internal/model"
)

// Type slots in the composite machine id: floor digits, then the
// slot, then the machine's ordinal on its floor. Washer 2 on floor 3
// is 302; dryer 1 on floor 14 is 1451.
const (
	washerSlot = 0
	dryerSlot  = 5
)

// MachineID builds the composite id for a machine.
func MachineID(floorID int, t model.MachineType, seq int) int {
	slot := washerSlot
	if t == model.MachineTypeDryer {
		slot = dryerSlot
	}
	return floorID*100 + slot*10 + seq
}

// FloorOf derives the floor id from a machine's composite id: the
// digits ahead of the type slot and ordinal.
func FloorOf(machineID int) int {
	return machineID / 100
}

// BuildFloors enumerates the static machine roster. The roster never
// changes at runtime; only the sensor-driven fields of each machine do.
func BuildFloors(numFloors, washersPerFloor, dryersPerFloor int) []model.Floor {
	floors := make([]model.Floor, 0, numFloors)
	for f := 1; f <= numFloors; f++ {
		machines := make([]model.Machine, 0, washersPerFloor+dryersPerFloor)
		for w := 1; w <= washersPerFloor; w++ {
			machines = append(machines, model.Machine{
				ID:     MachineID(f, model.MachineTypeWasher, w),
				Type:   model.MachineTypeWasher,
				Status: model.StatusAvailable,
				Number: w,
			})
		}
		for d := 1; d <= dryersPerFloor; d++ {
			machines = append(machines, model.Machine{
				ID:     MachineID(f, model.MachineTypeDryer, d),
				Type:   model.MachineTypeDryer,
				Status: model.StatusAvailable,
				Number: d,
			})
		}
		floors = append(floors, model.Floor{
			ID:       f,
			Name:     fmt.Sprintf("Floor %d", f),
			Machines: machines,
		})
	}
	return floors
}

// Flatten collects every machine of the roster into one slice, in
// floor order.
func Flatten(floors []model.Floor) []model.Machine {
	var machines []model.Machine
	for _, floor := range floors {
		machines = append(machines, floor.Machines...)
	}
	return machines
}
