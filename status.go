package persist

// Status is the lifecycle state of an entity in a PersistenceContext.
type Status uint8

// Lifecycle states.
const (
	// StatusNew entities are not tracked by the context.
	StatusNew Status = iota
	// StatusManaged entities are tracked with a snapshot of their stored state.
	StatusManaged
	// StatusRemoved entities are being deleted.
	StatusRemoved
)

var statusNames = [...]string{
	StatusNew:     "NEW",
	StatusManaged: "MANAGED",
	StatusRemoved: "REMOVED",
}

// String returns the status name.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "UNKNOWN"
}
