package laundry

import (
	"laundrify-backend/internal/model"
	"laundrify-backend/internal/snapshot"
)

// Reconcile applies a snapshot to the prior roster and returns a new
// one. The feed carries one sensor for the whole building, so the
// reading is written to every machine. Identity fields (id, type,
// number, notes) pass through untouched. The input roster is never
// mutated; callers decide what to do with the result.
func Reconcile(snap snapshot.Snapshot, prior []model.Floor) []model.Floor {
	status := DeriveStatus(snap.HasLaundry, snap.HasMotion)

	next := make([]model.Floor, len(prior))
	for i, floor := range prior {
		machines := make([]model.Machine, len(floor.Machines))
		for j, m := range floor.Machines {
			m.HasLaundry = snap.HasLaundry
			m.HasMotion = snap.HasMotion
			m.Status = status
			machines[j] = m
		}
		floor.Machines = machines
		next[i] = floor
	}
	return next
}
