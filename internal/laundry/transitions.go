package laundry

import (
	"laundrify-backend/internal/model"
)

// Transition records a machine going from busy to free between two
// reconciliations.
type Transition struct {
	MachineID   int
	MachineType model.MachineType
	FloorID     int
}

// DetectTransitions diffs two flattened rosters and returns the
// machines that went from busy to fully idle, matched by id. A
// machine with no previous reading produces no transition, so the
// first snapshot after startup never notifies anyone.
func DetectTransitions(previous, updated []model.Machine) []Transition {
	if len(previous) == 0 {
		return nil
	}

	prev := make(map[int]model.Machine, len(previous))
	for _, m := range previous {
		prev[m.ID] = m
	}

	var transitions []Transition
	for _, m := range updated {
		p, ok := prev[m.ID]
		if !ok {
			continue
		}
		if p.Busy() && !m.HasLaundry && !m.HasMotion {
			transitions = append(transitions, Transition{
				MachineID:   m.ID,
				MachineType: m.Type,
				FloorID:     FloorOf(m.ID),
			})
		}
	}
	return transitions
}
