package core

// Entry is one admitted log call. It is created when a destination
// accepts the call and is not modified afterwards; whichever buffer holds
// it owns it.
type Entry struct {
	Level    Level
	Category string
	Message  string
	Attrs    *Attributes
	Err      error
}

// NewEntry builds an Entry, substituting empty attributes for nil.
func NewEntry(level Level, category, message string, attrs *Attributes, err error) Entry {
	if attrs == nil {
		attrs = &Attributes{}
	}
	return Entry{
		Level:    level,
		Category: category,
		Message:  message,
		Attrs:    attrs,
		Err:      err,
	}
}

// Importance returns the importance of the entry's attributes.
func (e Entry) Importance() Importance {
	if e.Attrs == nil {
		return NiceToHave
	}
	return e.Attrs.Importance
}
