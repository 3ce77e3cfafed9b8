package traycontrols

// MenuControl is an entry stored by [Manager]. It is one of [MenuItem],
// [IconMenuItem], or [CheckMenu].
//
// Type parameter G is the group type of checkable entries.
type MenuControl[G comparable] interface {
	// ID returns identifier of the underlying handle.
	ID() MenuID

	// Text returns label of the underlying handle.
	Text() string

	menuControl(G)
}

// MenuItem is a plain clickable entry.
type MenuItem[G comparable] struct {
	Item Handle
}

func (c MenuItem[G]) ID() MenuID { return c.Item.ID() }
func (c MenuItem[G]) Text() string { return c.Item.Text() }
func (MenuItem[G]) menuControl(G) {}

// IconMenuItem is a clickable entry with an icon.
type IconMenuItem[G comparable] struct {
	Item IconHandle
}

func (c IconMenuItem[G]) ID() MenuID { return c.Item.ID() }
func (c IconMenuItem[G]) Text() string { return c.Item.Text() }
func (IconMenuItem[G]) menuControl(G) {}

// CheckMenu is a checkable entry. Its behavior is defined by Kind.
type CheckMenu[G comparable] struct {
	Kind CheckMenuKind[G]
}

func (c CheckMenu[G]) ID() MenuID { return c.Kind.Handle().ID() }
func (c CheckMenu[G]) Text() string { return c.Kind.Handle().Text() }
func (CheckMenu[G]) menuControl(G) {}

// CheckMenuKind describes the role of a checkable entry. It is one of
// [CheckBox], [Radio], or [Separate].
type CheckMenuKind[G comparable] interface {
	// Handle returns the underlying checkable handle.
	Handle() CheckHandle

	checkMenuKind(G)
}

// CheckBox is a checkbox that is toggled independently of other entries.
// Group is used for lookup only, checking a CheckBox never affects the other
// members of its group.
type CheckBox[G comparable] struct {
	Item  CheckHandle
	Group G
}

func (k CheckBox[G]) Handle() CheckHandle { return k.Item }
func (CheckBox[G]) checkMenuKind(G) {}

// Radio is a member of a mutually exclusive group. At most one Radio per
// Group is checked at a time.
//
// Default is an optional identifier of the radio that is selected when the
// group has no selection. Empty Default means there is none.
type Radio[G comparable] struct {
	Item    CheckHandle
	Default MenuID
	Group   G
}

func (k Radio[G]) Handle() CheckHandle { return k.Item }
func (Radio[G]) checkMenuKind(G) {}

// Separate is a checkbox that does not belong to any group.
type Separate[G comparable] struct {
	Item CheckHandle
}

func (k Separate[G]) Handle() CheckHandle { return k.Item }
func (Separate[G]) checkMenuKind(G) {}

// NewMenuItem returns a plain [MenuControl].
func NewMenuItem[G comparable](item Handle) MenuControl[G] {
	return MenuItem[G]{Item: item}
}

// NewIconMenuItem returns a [MenuControl] decorated with an icon.
func NewIconMenuItem[G comparable](item IconHandle) MenuControl[G] {
	return IconMenuItem[G]{Item: item}
}

// NewCheckBox returns a [CheckBox] control that is a member of group.
func NewCheckBox[G comparable](item CheckHandle, group G) MenuControl[G] {
	return CheckMenu[G]{Kind: CheckBox[G]{Item: item, Group: group}}
}

// NewRadio returns a [Radio] control that is a member of group. Pass an empty
// def if the group has no default selection.
func NewRadio[G comparable](item CheckHandle, group G, def MenuID) MenuControl[G] {
	return CheckMenu[G]{Kind: Radio[G]{Item: item, Default: def, Group: group}}
}

// NewSeparate returns a [Separate] control.
func NewSeparate[G comparable](item CheckHandle) MenuControl[G] {
	return CheckMenu[G]{Kind: Separate[G]{Item: item}}
}

// CheckHandleOf returns the checkable handle of c, if c is a [CheckMenu].
func CheckHandleOf[G comparable](c MenuControl[G]) (CheckHandle, bool) {
	cm, ok := c.(CheckMenu[G])
	if !ok || cm.Kind == nil {
		return nil, false
	}

	return cm.Kind.Handle(), true
}

// handleOf returns the handle wrapped by c.
func handleOf[G comparable](c MenuControl[G]) (Handle, error) {
	var h Handle

	switch c := c.(type) {
	case MenuItem[G]:
		if c.Item != nil {
			h = c.Item
		}
	case IconMenuItem[G]:
		if c.Item != nil {
			h = c.Item
		}
	case CheckMenu[G]:
		switch k := c.Kind.(type) {
		case CheckBox[G], Radio[G], Separate[G]:
			if ch := k.Handle(); ch != nil {
				h = ch
			}
		default:
			return nil, ErrUnknownControl
		}
	default:
		return nil, ErrUnknownControl
	}

	if h == nil {
		return nil, ErrNilHandle
	}

	return h, nil
}

// roleOf returns a short name of the role of c, used in logs.
func roleOf[G comparable](c MenuControl[G]) string {
	switch c := c.(type) {
	case MenuItem[G]:
		return "item"
	case IconMenuItem[G]:
		return "icon"
	case CheckMenu[G]:
		switch c.Kind.(type) {
		case CheckBox[G]:
			return "checkbox"
		case Radio[G]:
			return "radio"
		case Separate[G]:
			return "separate"
		}
	}

	return "unknown"
}
