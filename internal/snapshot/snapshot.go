// Package snapshot receives readings from the laundry-room sensor
// feed. The feed carries a single shared reading for the whole
// building (one sensor box, not per-machine telemetry).
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Snapshot is one point-in-time reading from the sensor pair.
type Snapshot struct {
	HasLaundry bool
	HasMotion  bool
}

// payload mirrors the wire format: integer flags, both required.
type payload struct {
	HasLaundry *int `json:"haslaundry"`
	HasMotion  *int `json:"hasmotion"`
}

// ErrMalformed marks a payload missing one of the required fields.
var ErrMalformed = errors.New("snapshot: payload missing required fields")

// Decode parses a raw feed payload. A payload missing either field
// yields ErrMalformed so callers skip the update instead of applying
// a zero-filled reading.
func Decode(raw []byte) (Snapshot, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	if p.HasLaundry == nil || p.HasMotion == nil {
		return Snapshot{}, ErrMalformed
	}
	return Snapshot{
		HasLaundry: *p.HasLaundry != 0,
		HasMotion:  *p.HasMotion != 0,
	}, nil
}

// Handler receives decoded snapshots in delivery order.
type Handler func(Snapshot)

// Source is a push-only feed of sensor readings.
type Source interface {
	// Subscribe registers the handler and starts delivery. Events are
	// delivered one at a time, in order.
	Subscribe(h Handler) error
	Close()
}
