package mapdoc

// Rejection is the reason an edit was refused. Rejections are expected,
// frequent outcomes of user input; they are returned as values and never
// treated as failures of the program.
type Rejection uint8

const (
	// Accepted means the edit was applied.
	Accepted Rejection = iota
	// NotAdjacent means the cell is not one grid step from the path tail.
	NotAdjacent
	// AlreadyOccupied means the cell is already part of the path.
	AlreadyOccupied
	// NotTail means a path cell other than the tail was targeted for removal.
	NotTail
	// OnPath means a decoration would sit on a path cell.
	OnPath
	// EmptyPath means there is no path cell to remove.
	EmptyPath
	// NothingThere means no decoration occupies the targeted cell.
	NothingThere
	// Busy means the session is waiting on storage or file I/O.
	Busy
	// UnknownDecoration means the decoration type is not one of the
	// placeable types.
	UnknownDecoration
)

// OK reports whether the edit was applied.
func (r Rejection) OK() bool {
	return r == Accepted
}

// String returns the name of the rejection.
func (r Rejection) String() string {
	switch r {
	case Accepted:
		return "Accepted"
	case NotAdjacent:
		return "NotAdjacent"
	case AlreadyOccupied:
		return "AlreadyOccupied"
	case NotTail:
		return "NotTail"
	case OnPath:
		return "OnPath"
	case EmptyPath:
		return "EmptyPath"
	case NothingThere:
		return "NothingThere"
	case Busy:
		return "Busy"
	case UnknownDecoration:
		return "UnknownDecoration"
	default:
		return "Unknown"
	}
}

// Message returns a short user-facing explanation.
func (r Rejection) Message() string {
	switch r {
	case Accepted:
		return ""
	case NotAdjacent:
		return "Path must connect to the end (snake rule)"
	case AlreadyOccupied:
		return "Tile already has path"
	case NotTail:
		return "Can only delete from the end (snake rule)"
	case OnPath:
		return "Cannot place decoration on path"
	case EmptyPath:
		return "Path is empty"
	case NothingThere:
		return "No decoration here"
	case Busy:
		return "Waiting for save/load to finish"
	case UnknownDecoration:
		return "Unknown decoration type"
	default:
		return "Edit rejected"
	}
}
