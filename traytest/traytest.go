// Package traytest provides in-memory menu handles for testing code that uses
// package traycontrols without a tray toolkit.
package traytest

import (
	"sync"

	"github.com/shelepuginivan/traycontrols"
)

// Item is an in-memory implementation of [traycontrols.CheckHandle] and
// [traycontrols.IconHandle]. It records every call to SetChecked.
type Item struct {
	mu      sync.Mutex
	id      traycontrols.MenuID
	text    string
	checked bool
	icon    []byte
	calls   []bool
}

// NewItem returns a new unchecked [Item].
func NewItem(id traycontrols.MenuID, text string) *Item {
	return &Item{id: id, text: text}
}

// NewCheckedItem returns a new checked [Item].
func NewCheckedItem(id traycontrols.MenuID, text string) *Item {
	return &Item{id: id, text: text, checked: true}
}

func (i *Item) ID() traycontrols.MenuID {
	return i.id
}

func (i *Item) Text() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.text
}

func (i *Item) SetText(text string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.text = text
}

func (i *Item) IsChecked() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.checked
}

func (i *Item) SetChecked(checked bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.checked = checked
	i.calls = append(i.calls, checked)
}

// Toggle inverts checked state, like a toolkit does when a check item is
// clicked. Toggle is not recorded as a SetChecked call.
func (i *Item) Toggle() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.checked = !i.checked
}

func (i *Item) SetIcon(icon []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.icon = icon
}

// Icon returns the last icon passed to SetIcon.
func (i *Item) Icon() []byte {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.icon
}

// Calls returns arguments of every SetChecked call, in order.
func (i *Item) Calls() []bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	calls := make([]bool, len(i.calls))
	copy(calls, i.calls)

	return calls
}

// Reset forgets recorded SetChecked calls.
func (i *Item) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.calls = nil
}
