package order

// Status is an order's workflow stage
type Status string

const (
	StatusNew           Status = "New"
	StatusVerified      Status = "Verified"
	StatusManufacturing Status = "Manufacturing"
	StatusQualityCheck  Status = "Quality_Check"
	StatusDocumentation Status = "Documentation"
	StatusDispatch      Status = "Dispatch"
	StatusCompleted     Status = "Completed"
	StatusDeleted       Status = "Deleted"
)

// Stages lists the workflow stages in pipeline order. Deleted is not a stage.
var Stages = []Status{
	StatusNew,
	StatusVerified,
	StatusManufacturing,
	StatusQualityCheck,
	StatusDocumentation,
	StatusDispatch,
	StatusCompleted,
}

// IsValid returns true for any known status including Deleted
func (s Status) IsValid() bool {
	if s == StatusDeleted {
		return true
	}
	return s.IsStage()
}

// IsStage returns true for statuses counted on the stage board
func (s Status) IsStage() bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

// IsTerminal returns true for the absorbing Deleted status
func (s Status) IsTerminal() bool {
	return s == StatusDeleted
}

// CanTransitionTo reports whether a move to target is allowed.
// The table is open: any live order may move to any status, backward or
// to itself; nothing leaves Deleted.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() {
		return false
	}
	return target.IsValid()
}

// Priority ranks orders on the floor
type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// IsValid returns true if the priority is known
func (p Priority) IsValid() bool {
	return p == PriorityNormal || p == PriorityHigh
}
