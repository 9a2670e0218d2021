package types

// EntityState is the tracking state of one entity within a session.
type EntityState int

// Tracking states. Create moves an entity to Added, Update to Modified and
// Delete to Deleted; a successful commit settles them to Unchanged (or
// Detached for deletes). Stale marks an entity whose reload from the store
// failed during a rollback; its field values are not trustworthy until the
// next successful read.
const (
	StateDetached EntityState = iota
	StateUnchanged
	StateAdded
	StateModified
	StateDeleted
	StateStale
)

var stateNames = map[EntityState]string{
	StateDetached:  "detached",
	StateUnchanged: "unchanged",
	StateAdded:     "added",
	StateModified:  "modified",
	StateDeleted:   "deleted",
	StateStale:     "stale",
}

func (s EntityState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Pending reports whether the state carries a change not yet committed.
func (s EntityState) Pending() bool {
	return s == StateAdded || s == StateModified || s == StateDeleted
}

// Valid reports whether s is one of the declared states.
func (s EntityState) Valid() bool {
	_, ok := stateNames[s]
	return ok
}
