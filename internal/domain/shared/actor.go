package shared

// Actor is the already-authorized caller on whose behalf a mutation runs.
// Authentication happens at the edge; the domain only records who acted.
type Actor struct {
	ID   string
	Name string
}

// SystemActor is used by the seed and reconcile tooling
var SystemActor = Actor{ID: "system", Name: "system"}

// AnonymousActor is used when no identity is configured at the edge
var AnonymousActor = Actor{ID: "anonymous", Name: "anonymous"}

// IsZero reports whether no identity was supplied
func (a Actor) IsZero() bool {
	return a.ID == ""
}
