package traycontrols

// MenuID is an opaque identifier of a menu entry. Identifiers are generated by
// the toolkit or the application and must be unique within a [Manager].
type MenuID string

// String implements fmt.Stringer.
func (id MenuID) String() string {
	return string(id)
}

// Handle is a menu entry owned by the toolkit.
type Handle interface {
	// ID returns a stable identifier of the entry.
	ID() MenuID

	// Text returns the label of the entry.
	Text() string

	// SetText updates the label of the entry.
	SetText(text string)
}

// CheckHandle is a menu entry that can be checked.
type CheckHandle interface {
	Handle

	// IsChecked reports whether the entry is currently checked.
	IsChecked() bool

	// SetChecked updates checked state of the entry.
	SetChecked(checked bool)
}

// IconHandle is a menu entry decorated with an icon.
type IconHandle interface {
	Handle

	// SetIcon replaces the icon of the entry. The format of icon is defined by
	// the toolkit, PNG is the most common one.
	SetIcon(icon []byte)
}
