package model

// Floor groups the machines of one dormitory floor. The floor set is
// enumerated once at startup and never changes at runtime.
type Floor struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Machines []Machine `json:"machines"`
}
