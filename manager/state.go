package manager

// State is a lifecycle phase of a Manager.
type State int32

const (
	Uninitialized State = iota
	Initializing
	Running
	Disposing
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Initializing:
		return "Initializing"
	case Running:
		return "Running"
	case Disposing:
		return "Disposing"
	case Disposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}
