package model

// EntityType is the closed set of backend collections this client talks to.
// Wire paths and display fields hang off the type so relationship wiring is
// checked at compile time instead of carried around as loose strings.
type EntityType int

const (
	EntityUser EntityType = iota
	EntityProject
	EntityObservationLog
)

// String returns the collection segment used in backend URLs
// (`/collections/{EntityType}`).
func (t EntityType) String() string {
	switch t {
	case EntityUser:
		return "User"
	case EntityProject:
		return "Project"
	case EntityObservationLog:
		return "ObservationLog"
	default:
		return "Unknown"
	}
}

// DisplayField names the attribute used as a human-readable label when the
// entity appears in a selection list.
func (t EntityType) DisplayField() string {
	if t == EntityObservationLog {
		return "title"
	}
	return "name"
}

// Label is the singular human-facing name for UI copy.
func (t EntityType) Label() string {
	switch t {
	case EntityUser:
		return "user"
	case EntityProject:
		return "project"
	case EntityObservationLog:
		return "observation log"
	default:
		return "entity"
	}
}
