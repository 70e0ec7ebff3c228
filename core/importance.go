package core

// Importance is the per-call priority of an entry. It is independent of
// Level and only drives buffering decisions.
type Importance uint8

const (
	// NiceToHave entries may be buffered longest and dropped first
	NiceToHave Importance = iota
	// Important entries are buffered in the regular buffer
	Important
	// Critical entries are never buffered
	Critical
)

// String returns the string representation of the importance
func (i Importance) String() string {
	switch i {
	case NiceToHave:
		return "NiceToHave"
	case Important:
		return "Important"
	case Critical:
		return "Critical"
	default:
		return "Unknown"
	}
}
