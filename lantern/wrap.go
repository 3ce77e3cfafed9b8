//go:build windows || darwin

package lantern

import (
	"github.com/getlantern/systray"

	"github.com/shelepuginivan/traycontrols"
)

type menuItem struct {
	*systray.MenuItem
}

// Clicked returns the ClickedCh.
func (m *menuItem) Clicked() <-chan struct{} {
	return m.ClickedCh
}

// Wrap returns [Entry] backed by m.
func Wrap(m *systray.MenuItem) Entry {
	return &menuItem{MenuItem: m}
}

// AddItem adds a plain item to the root of the tray menu.
func AddItem(id traycontrols.MenuID, title, tooltip string) *Item {
	return NewItem(id, title, Wrap(systray.AddMenuItem(title, tooltip)))
}

// AddCheckItem adds a checkable item to the root of the tray menu.
func AddCheckItem(id traycontrols.MenuID, title, tooltip string, checked bool) *Item {
	return NewCheckItem(id, title, Wrap(systray.AddMenuItemCheckbox(title, tooltip, checked)))
}

// AddSubItem adds a plain item to the submenu of parent. It returns nil if
// parent was not created by this package.
func AddSubItem(parent *Item, id traycontrols.MenuID, title, tooltip string) *Item {
	m, ok := parent.entry.(*menuItem)
	if !ok {
		return nil
	}

	return NewItem(id, title, Wrap(m.AddSubMenuItem(title, tooltip)))
}

// AddSubCheckItem adds a checkable item to the submenu of parent. It returns
// nil if parent was not created by this package.
func AddSubCheckItem(parent *Item, id traycontrols.MenuID, title, tooltip string, checked bool) *Item {
	m, ok := parent.entry.(*menuItem)
	if !ok {
		return nil
	}

	return NewCheckItem(id, title, Wrap(m.AddSubMenuItemCheckbox(title, tooltip, checked)))
}

var _ Entry = (*menuItem)(nil)
