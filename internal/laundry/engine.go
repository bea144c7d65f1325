package laundry

import (
	"sync"

	"go.uber.org/zap"

	"laundrify-backend/internal/live"
	"laundrify-backend/internal/model"
	"laundrify-backend/internal/snapshot"
)

// Dispatcher receives busy-to-free transitions for notification fan-out.
type Dispatcher interface {
	Dispatch(t Transition)
}

// Engine owns the committed floor roster and runs the snapshot
// pipeline: reconcile, diff against the last committed roster, commit,
// dispatch. Each pass runs to completion under the roster lock before
// the next one starts, so a diff always sees the previous event's
// fully committed state. That also dedupes notification bursts for
// free: repeated "everything free" snapshots diff free against free
// and produce no further transitions.
type Engine struct {
	mu         sync.RWMutex
	floors     []model.Floor
	machines   []model.Machine // flattened committed roster; nil until the first snapshot
	dispatcher Dispatcher
	hub        *live.Hub[[]model.Floor]
	logger     *zap.Logger
}

// NewEngine creates an engine over the static roster. The roster
// counts as unobserved until the first snapshot arrives, so the first
// reconciliation emits zero transitions.
func NewEngine(floors []model.Floor, d Dispatcher, logger *zap.Logger) *Engine {
	return &Engine{
		floors:     floors,
		dispatcher: d,
		hub:        live.NewHub[[]model.Floor](),
		logger:     logger,
	}
}

// HandleSnapshot runs one pipeline pass for a snapshot event.
func (e *Engine) HandleSnapshot(snap snapshot.Snapshot) {
	e.mu.Lock()
	updated := Reconcile(snap, e.floors)
	flat := Flatten(updated)
	transitions := DetectTransitions(e.machines, flat)
	e.floors = updated
	e.machines = flat
	e.mu.Unlock()

	e.logger.Debug("snapshot reconciled",
		zap.Bool("hasLaundry", snap.HasLaundry),
		zap.Bool("hasMotion", snap.HasMotion),
		zap.Int("transitions", len(transitions)))

	for _, t := range transitions {
		e.dispatcher.Dispatch(t)
	}
	e.hub.Broadcast(updated)
}

// Floors returns the committed roster. The returned slices are
// replaced wholesale on every snapshot, never mutated in place, so
// callers may read them without copying.
func (e *Engine) Floors() []model.Floor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.floors
}

// MachinesForFloor returns the machines of one floor, or false if the
// floor id is unknown.
func (e *Engine) MachinesForFloor(floorID int) ([]model.Machine, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, floor := range e.floors {
		if floor.ID == floorID {
			return floor.Machines, true
		}
	}
	return nil, false
}

// Watch subscribes to roster updates. The caller must release the
// channel with Unwatch when done.
func (e *Engine) Watch() chan []model.Floor {
	return e.hub.Subscribe()
}

// Unwatch releases a channel obtained from Watch.
func (e *Engine) Unwatch(ch chan []model.Floor) {
	e.hub.Unsubscribe(ch)
}
