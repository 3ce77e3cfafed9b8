package dbusmenu

import (
	"slices"

	"github.com/godbus/dbus/v5"

	"github.com/shelepuginivan/traycontrols"
)

type ToggleType string

// Toggle types of menu items.
const (
	// The item cannot be checked.
	ToggleNone ToggleType = ""

	// The item is a checkbox.
	ToggleCheckmark ToggleType = "checkmark"

	// The item is a radio button.
	ToggleRadio ToggleType = "radio"
)

// Item is an entry of [Menu]. It implements [traycontrols.CheckHandle] and
// [traycontrols.IconHandle].
//
// Setters emit com.canonical.dbusmenu.ItemsPropertiesUpdated with the changed
// properties.
type Item struct {
	menu     *Menu
	node     int32
	id       traycontrols.MenuID
	parent   *Item
	children []*Item

	separator bool
	label     string
	enabled   bool
	visible   bool
	toggle    ToggleType
	checked   bool
	icon      []byte
}

// ID returns identifier of the item.
func (i *Item) ID() traycontrols.MenuID {
	return i.id
}

// NodeID returns ID of the layout node of the item.
func (i *Item) NodeID() int32 {
	return i.node
}

// Text returns label of the item.
func (i *Item) Text() string {
	i.menu.mu.RLock()
	defer i.menu.mu.RUnlock()

	return i.label
}

// SetText updates label of the item.
func (i *Item) SetText(text string) {
	i.set("label", func() bool {
		if i.label == text {
			return false
		}

		i.label = text
		return true
	})
}

// IsChecked reports whether the item is checked.
func (i *Item) IsChecked() bool {
	i.menu.mu.RLock()
	defer i.menu.mu.RUnlock()

	return i.checked
}

// SetChecked updates checked state of the item. It has no effect on items
// that cannot be checked.
func (i *Item) SetChecked(checked bool) {
	i.set("toggle-state", func() bool {
		if i.toggle == ToggleNone || i.checked == checked {
			return false
		}

		i.checked = checked
		return true
	})
}

// SetIcon updates icon of the item. icon must be PNG encoded. Pass nil to
// remove the icon.
func (i *Item) SetIcon(icon []byte) {
	i.menu.mu.Lock()

	if len(icon) == 0 {
		hadIcon := len(i.icon) > 0
		i.icon = nil
		i.menu.mu.Unlock()

		if hadIcon {
			i.menu.emitRemoved(i.node, "icon-data")
		}

		return
	}

	i.icon = slices.Clone(icon)
	props := i.properties([]string{"icon-data"})
	i.menu.mu.Unlock()

	i.menu.emitUpdated(i.node, props)
}

// SetEnabled updates whether the item can be activated.
func (i *Item) SetEnabled(enabled bool) {
	i.set("enabled", func() bool {
		if i.enabled == enabled {
			return false
		}

		i.enabled = enabled
		return true
	})
}

// SetVisible updates whether the item is shown by hosts.
func (i *Item) SetVisible(visible bool) {
	i.set("visible", func() bool {
		if i.visible == visible {
			return false
		}

		i.visible = visible
		return true
	})
}

// set runs change under the menu lock and emits property if change reports
// that something was changed.
func (i *Item) set(property string, change func() bool) {
	i.menu.mu.Lock()

	if !change() {
		i.menu.mu.Unlock()
		return
	}

	props := i.properties([]string{property})
	i.menu.mu.Unlock()

	i.menu.emitUpdated(i.node, props)
}

// properties returns dbusmenu properties of the item. If names is empty, all
// properties are returned. Caller must hold the menu lock.
func (i *Item) properties(names []string) map[string]dbus.Variant {
	all := make(map[string]dbus.Variant)

	if i.separator {
		all["type"] = dbus.MakeVariant("separator")
	} else {
		all["type"] = dbus.MakeVariant("standard")
		all["label"] = dbus.MakeVariant(i.label)
	}

	all["enabled"] = dbus.MakeVariant(i.enabled)
	all["visible"] = dbus.MakeVariant(i.visible)

	if i.toggle != ToggleNone {
		state := int32(0)
		if i.checked {
			state = 1
		}

		all["toggle-type"] = dbus.MakeVariant(string(i.toggle))
		all["toggle-state"] = dbus.MakeVariant(state)
	}

	if len(i.icon) > 0 {
		all["icon-data"] = dbus.MakeVariant(i.icon)
	}

	if len(i.children) > 0 || i.parent == nil {
		all["children-display"] = dbus.MakeVariant("submenu")
	}

	if len(names) == 0 {
		return all
	}

	props := make(map[string]dbus.Variant, len(names))
	for _, name := range names {
		if value, ok := all[name]; ok {
			props[name] = value
		}
	}

	return props
}

// layout returns the wire layout of the item and its children down to depth
// levels. Negative depth means no limit. Caller must hold the menu lock.
func (i *Item) layout(depth int32, names []string) layout {
	l := layout{
		ID:         i.node,
		Properties: i.properties(names),
		Children:   make([]dbus.Variant, 0, len(i.children)),
	}

	if depth == 0 {
		return l
	}

	for _, child := range i.children {
		l.Children = append(l.Children, dbus.MakeVariant(child.layout(depth-1, names)))
	}

	return l
}

// walk calls fn for the item and all its descendants.
func (i *Item) walk(fn func(*Item)) {
	fn(i)

	for _, child := range i.children {
		child.walk(fn)
	}
}

var (
	_ traycontrols.CheckHandle = (*Item)(nil)
	_ traycontrols.IconHandle  = (*Item)(nil)
)
