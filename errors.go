package traycontrols

import "errors"

var (
	// ErrNilControl is returned when a nil [MenuControl] is inserted.
	ErrNilControl = errors.New("control is nil")

	// ErrNilHandle is returned when a control without a handle is inserted.
	ErrNilHandle = errors.New("control has no handle")

	// ErrEmptyID is returned when a handle reports an empty identifier.
	ErrEmptyID = errors.New("menu id is empty")

	// ErrDuplicateID is returned by [Manager.Insert] if the identifier is
	// already registered and the manager uses [DuplicateReject].
	ErrDuplicateID = errors.New("menu id already registered")

	// ErrUnknownControl is returned for controls that are not one of the
	// types defined by this package.
	ErrUnknownControl = errors.New("unknown menu control")

	// ErrNotRadioMember is returned by [Manager.Select] if the identifier is
	// not a radio of the group.
	ErrNotRadioMember = errors.New("not a radio member of the group")
)
