// Package dbusmenu implements the application side of com.canonical.dbusmenu.
// [Menu] is exported on the session bus and shown by tray hosts, its entries
// are [Item] values that can be registered in a traycontrols.Manager.
//
// Hosts report interactions with the com.canonical.dbusmenu.Event method.
// Clicks are delivered to the callback set with [Menu.OnClicked] as bare
// identifiers, after checkable items toggle their state.
package dbusmenu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	"go.uber.org/zap"

	"github.com/shelepuginivan/traycontrols"
)

const (
	MenuInterface = "com.canonical.dbusmenu"
	DefaultPath   = dbus.ObjectPath("/MenuBar")

	// Version of the com.canonical.dbusmenu interface.
	Version = 3
)

// ErrUnknownNode is returned for layout node IDs that are not in the menu.
var ErrUnknownNode = errors.New("unknown layout node")

// Emitter emits D-Bus signals. It is implemented by [dbus.Conn].
type Emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...any) error
}

// Menu is an exported com.canonical.dbusmenu object.
type Menu struct {
	mu        sync.RWMutex
	conn      Emitter
	bus       *dbus.Conn
	props     *prop.Properties
	path      dbus.ObjectPath
	log       *zap.Logger
	root      *Item
	nodes     map[int32]*Item
	ids       map[traycontrols.MenuID]*Item
	lastNode  int32
	revision  uint32
	onClicked func(traycontrols.MenuID)
	status    string
}

// Option configures [Menu].
type Option func(*Menu)

// WithPath sets object path of the menu. The default is [DefaultPath].
func WithPath(path dbus.ObjectPath) Option {
	return func(m *Menu) {
		m.path = path
	}
}

// WithLogger sets logger of the menu.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Menu) {
		if logger != nil {
			m.log = logger
		}
	}
}

// NewMenu returns a new empty [Menu]. The menu is not visible on the bus
// until [Menu.Export] is called, but it can be populated beforehand.
func NewMenu(opts ...Option) *Menu {
	m := &Menu{
		path:      DefaultPath,
		log:       zap.NewNop(),
		nodes:     make(map[int32]*Item),
		ids:       make(map[traycontrols.MenuID]*Item),
		onClicked: func(traycontrols.MenuID) {},
		status:    "normal",
	}

	for _, opt := range opts {
		opt(m)
	}

	m.root = &Item{menu: m, node: 0, enabled: true, visible: true}
	m.nodes[0] = m.root

	return m
}

// Path returns object path of the menu.
func (m *Menu) Path() dbus.ObjectPath {
	return m.path
}

// Export exports the menu and its properties on conn.
func (m *Menu) Export(conn *dbus.Conn) error {
	if err := conn.Export(&server{menu: m}, m.path, MenuInterface); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	m.mu.Lock()
	status := m.status
	m.mu.Unlock()

	props, err := prop.Export(conn, m.path, prop.Map{
		MenuInterface: map[string]*prop.Prop{
			"Version": {
				Value:    uint32(Version),
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"Status": {
				Value:    status,
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"TextDirection": {
				Value:    "ltr",
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"IconThemePath": {
				Value:    []string{},
				Writable: false,
				Emit:     prop.EmitTrue,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("export: failed to export properties: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.bus = conn
	m.props = props
	m.mu.Unlock()

	return nil
}

// Close removes the menu from the bus it was exported on.
func (m *Menu) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bus == nil {
		return nil
	}

	if err := m.bus.Export(nil, m.path, MenuInterface); err != nil {
		return err
	}

	m.bus = nil
	m.conn = nil
	m.props = nil

	return nil
}

// OnClicked registers callback that runs whenever a host reports a click on
// an item with a non-empty identifier. Checkable items are already toggled
// when callback runs.
func (m *Menu) OnClicked(callback func(id traycontrols.MenuID)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if callback == nil {
		callback = func(traycontrols.MenuID) {}
	}

	m.onClicked = callback
}

// SetStatus sets status of the menu. Possible values are "normal" and
// "notice".
func (m *Menu) SetStatus(status string) {
	m.mu.Lock()
	m.status = status
	props := m.props
	m.mu.Unlock()

	if props != nil {
		props.SetMust(MenuInterface, "Status", status)
	}
}

// Revision returns revision of the layout. It is incremented on every
// structural change.
func (m *Menu) Revision() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.revision
}

// Item returns item with the given identifier.
func (m *Menu) Item(id traycontrols.MenuID) (*Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.ids[id]
	return item, ok
}

// Append adds a plain item to parent. Nil parent is the root of the menu.
func (m *Menu) Append(parent *Item, id traycontrols.MenuID, label string) *Item {
	return m.append(parent, &Item{id: id, label: label, enabled: true, visible: true})
}

// AppendIcon adds an item with PNG encoded icon to parent.
func (m *Menu) AppendIcon(parent *Item, id traycontrols.MenuID, label string, icon []byte) *Item {
	return m.append(parent, &Item{id: id, label: label, enabled: true, visible: true, icon: icon})
}

// AppendCheck adds a checkable item to parent.
func (m *Menu) AppendCheck(parent *Item, id traycontrols.MenuID, label string, toggle ToggleType, checked bool) *Item {
	if toggle == ToggleNone {
		toggle = ToggleCheckmark
	}

	return m.append(parent, &Item{
		id:      id,
		label:   label,
		enabled: true,
		visible: true,
		toggle:  toggle,
		checked: checked,
	})
}

// AppendSeparator adds a separator to parent.
func (m *Menu) AppendSeparator(parent *Item) *Item {
	return m.append(parent, &Item{separator: true, enabled: true, visible: true})
}

// AppendSubmenu adds an item to parent that is displayed as a submenu once it
// has children.
func (m *Menu) AppendSubmenu(parent *Item, id traycontrols.MenuID, label string) *Item {
	return m.Append(parent, id, label)
}

// Remove removes item with the given identifier and all its children.
func (m *Menu) Remove(id traycontrols.MenuID) bool {
	m.mu.Lock()

	item, ok := m.ids[id]
	if !ok {
		m.mu.Unlock()
		return false
	}

	parent := item.parent
	for idx, child := range parent.children {
		if child == item {
			parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
			break
		}
	}

	item.walk(func(i *Item) {
		delete(m.nodes, i.node)

		if i.id != "" && m.ids[i.id] == i {
			delete(m.ids, i.id)
		}
	})

	m.revision++
	revision := m.revision
	m.mu.Unlock()

	m.emitLayoutUpdated(revision, parent.node)

	return true
}

// Snapshot returns the current layout of the menu.
func (m *Menu) Snapshot() *LayoutNode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return newLayoutNode(m.root.layout(-1, nil))
}

// Click handles a click on the layout node, as if it was reported by a host.
func (m *Menu) Click(node int32) error {
	m.mu.Lock()

	item, ok := m.nodes[node]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("click %d: %w", node, ErrUnknownNode)
	}

	if !item.enabled {
		m.mu.Unlock()
		return nil
	}

	var props map[string]dbus.Variant

	if item.toggle != ToggleNone {
		item.checked = !item.checked
		props = item.properties([]string{"toggle-state"})
	}

	id := item.id
	callback := m.onClicked
	m.mu.Unlock()

	if props != nil {
		m.emitUpdated(node, props)
	}

	if id != "" {
		callback(id)
	}

	return nil
}

func (m *Menu) append(parent *Item, item *Item) *Item {
	m.mu.Lock()

	if parent == nil {
		parent = m.root
	}

	m.lastNode++

	item.menu = m
	item.node = m.lastNode
	item.parent = parent
	parent.children = append(parent.children, item)

	m.nodes[item.node] = item
	if item.id != "" {
		m.ids[item.id] = item
	}

	m.revision++
	revision := m.revision
	m.mu.Unlock()

	m.emitLayoutUpdated(revision, parent.node)

	return item
}

func (m *Menu) emitter() Emitter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.conn
}

// emitLayoutUpdated emits com.canonical.dbusmenu.LayoutUpdated.
func (m *Menu) emitLayoutUpdated(revision uint32, parent int32) {
	m.emit("LayoutUpdated", revision, parent)
}

// emitUpdated emits com.canonical.dbusmenu.ItemsPropertiesUpdated with
// updated properties of a single node.
func (m *Menu) emitUpdated(node int32, props map[string]dbus.Variant) {
	if len(props) == 0 {
		return
	}

	m.emit(
		"ItemsPropertiesUpdated",
		[]UpdatedProperties{{NodeID: node, Properties: props}},
		[]RemovedProperties{},
	)
}

// emitRemoved emits com.canonical.dbusmenu.ItemsPropertiesUpdated with
// removed properties of a single node.
func (m *Menu) emitRemoved(node int32, names ...string) {
	m.emit(
		"ItemsPropertiesUpdated",
		[]UpdatedProperties{},
		[]RemovedProperties{{NodeID: node, Properties: names}},
	)
}

func (m *Menu) emit(member string, values ...any) {
	conn := m.emitter()
	if conn == nil {
		return
	}

	if err := conn.Emit(m.path, MenuInterface+"."+member, values...); err != nil {
		m.log.Warn("failed to emit signal",
			zap.String("signal", member),
			zap.Error(err),
		)
	}
}
