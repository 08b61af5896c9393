package vcs

// ActorType distinguishes human and AI-originated actions throughout the
// version-control core (branch creators, version authors, mergers).
type ActorType string

const (
	ActorUser ActorType = "user"
	ActorAI   ActorType = "ai"
)

// Valid reports whether t is one of the known actor types.
func (t ActorType) Valid() bool {
	switch t {
	case ActorUser, ActorAI:
		return true
	}
	return false
}

// Actor identifies who performed an operation.
type Actor struct {
	Type ActorType `json:"type"`
	ID   string    `json:"id"`
}
