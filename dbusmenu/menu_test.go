package dbusmenu

import (
	"sync"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelepuginivan/traycontrols"
)

type signal struct {
	name   string
	values []any
}

type recorder struct {
	mu      sync.Mutex
	signals []signal
}

func (r *recorder) Emit(path dbus.ObjectPath, name string, values ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.signals = append(r.signals, signal{name: name, values: values})
	return nil
}

func (r *recorder) named(name string) []signal {
	r.mu.Lock()
	defer r.mu.Unlock()

	var signals []signal
	for _, s := range r.signals {
		if s.name == name {
			signals = append(signals, s)
		}
	}

	return signals
}

func newRecordedMenu() (*Menu, *recorder) {
	rec := &recorder{}
	m := NewMenu()
	m.conn = rec

	return m, rec
}

func TestMenu_Append(t *testing.T) {
	m, rec := newRecordedMenu()

	color := m.AppendSubmenu(nil, "color", "Color")
	m.AppendCheck(color, "red", "Red", ToggleRadio, true)
	m.AppendSeparator(nil)
	m.Append(nil, "quit", "Quit")

	assert.Equal(t, uint32(4), m.Revision())
	assert.Len(t, rec.named(MenuInterface+".LayoutUpdated"), 4)

	root := m.Snapshot()
	require.Len(t, root.Children, 3)
	assert.Equal(t, "submenu", root.Properties["children-display"])

	submenu := root.Children[0]
	assert.Equal(t, "Color", submenu.Properties["label"])
	assert.Equal(t, "submenu", submenu.Properties["children-display"])
	require.Len(t, submenu.Children, 1)

	red := submenu.Children[0]
	assert.Equal(t, "radio", red.Properties["toggle-type"])
	assert.Equal(t, int32(1), red.Properties["toggle-state"])

	assert.Equal(t, "separator", root.Children[1].Properties["type"])
	assert.NotContains(t, root.Children[1].Properties, "label")
	assert.Equal(t, "Quit", root.Children[2].Properties["label"])
}

func TestMenu_Remove(t *testing.T) {
	m, _ := newRecordedMenu()

	color := m.AppendSubmenu(nil, "color", "Color")
	m.AppendCheck(color, "red", "Red", ToggleRadio, false)
	m.Append(nil, "quit", "Quit")

	assert.True(t, m.Remove("color"))
	assert.False(t, m.Remove("color"))

	_, ok := m.Item("red")
	assert.False(t, ok)

	root := m.Snapshot()
	require.Len(t, root.Children, 1)
	assert.Equal(t, "Quit", root.Children[0].Properties["label"])
}

func TestMenu_Click(t *testing.T) {
	m, rec := newRecordedMenu()

	added := m.AppendCheck(nil, "added", "Added", ToggleCheckmark, false)
	quit := m.Append(nil, "quit", "Quit")

	var clicked []traycontrols.MenuID
	m.OnClicked(func(id traycontrols.MenuID) {
		clicked = append(clicked, id)
		assert.True(t, added.IsChecked())
	})

	require.NoError(t, m.Click(added.NodeID()))
	assert.Equal(t, []traycontrols.MenuID{"added"}, clicked)

	updated := rec.named(MenuInterface + ".ItemsPropertiesUpdated")
	require.Len(t, updated, 1)

	props := updated[0].values[0].([]UpdatedProperties)
	require.Len(t, props, 1)
	assert.Equal(t, added.NodeID(), props[0].NodeID)
	assert.Equal(t, int32(1), props[0].Properties["toggle-state"].Value())

	m.OnClicked(func(id traycontrols.MenuID) {
		clicked = append(clicked, id)
	})

	require.NoError(t, m.Click(quit.NodeID()))
	assert.Equal(t, []traycontrols.MenuID{"added", "quit"}, clicked)
	assert.False(t, quit.IsChecked())

	assert.ErrorIs(t, m.Click(42), ErrUnknownNode)
}

func TestMenu_ClickDisabled(t *testing.T) {
	m, _ := newRecordedMenu()

	item := m.AppendCheck(nil, "added", "Added", ToggleCheckmark, false)
	item.SetEnabled(false)

	called := false
	m.OnClicked(func(traycontrols.MenuID) { called = true })

	require.NoError(t, m.Click(item.NodeID()))
	assert.False(t, called)
	assert.False(t, item.IsChecked())
}

func TestItem_Setters(t *testing.T) {
	m, rec := newRecordedMenu()

	item := m.AppendIcon(nil, "red", "Red", []byte{1})
	plain := m.Append(nil, "quit", "Quit")

	item.SetText("Red")
	item.SetText("Crimson")
	plain.SetChecked(true)
	item.SetIcon(nil)
	item.SetIcon(nil)

	assert.Equal(t, "Crimson", item.Text())
	assert.False(t, plain.IsChecked())

	updated := rec.named(MenuInterface + ".ItemsPropertiesUpdated")
	require.Len(t, updated, 2)

	props := updated[0].values[0].([]UpdatedProperties)
	assert.Equal(t, "Crimson", props[0].Properties["label"].Value())

	removed := updated[1].values[1].([]RemovedProperties)
	assert.Equal(t, []RemovedProperties{{NodeID: item.NodeID(), Properties: []string{"icon-data"}}}, removed)
}

func TestServer(t *testing.T) {
	m, _ := newRecordedMenu()
	s := &server{menu: m}

	color := m.AppendSubmenu(nil, "color", "Color")
	red := m.AppendCheck(color, "red", "Red", ToggleRadio, false)

	revision, l, err := s.GetLayout(0, 1, []string{"label"})
	require.Nil(t, err)
	assert.Equal(t, m.Revision(), revision)
	require.Len(t, l.Children, 1)

	child := l.Children[0].Value().(layout)
	assert.Equal(t, color.NodeID(), child.ID)
	assert.Empty(t, child.Children)
	assert.Equal(t, map[string]dbus.Variant{"label": dbus.MakeVariant("Color")}, child.Properties)

	_, _, err = s.GetLayout(42, -1, nil)
	assert.NotNil(t, err)

	props, err := s.GetGroupProperties([]int32{red.NodeID(), 42}, []string{"toggle-state"})
	require.Nil(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, int32(0), props[0].Properties["toggle-state"].Value())

	value, err := s.GetProperty(red.NodeID(), "label")
	require.Nil(t, err)
	assert.Equal(t, "Red", value.Value())

	_, err = s.GetProperty(red.NodeID(), "shortcut")
	assert.NotNil(t, err)

	assert.Nil(t, s.Event(red.NodeID(), "hovered", dbus.MakeVariant(""), 0))
	assert.False(t, red.IsChecked())
	assert.Nil(t, s.Event(red.NodeID(), "clicked", dbus.MakeVariant(""), 0))
	assert.True(t, red.IsChecked())

	notFound, err := s.EventGroup([]event{
		{ID: red.NodeID(), EventID: "clicked"},
		{ID: 42, EventID: "clicked"},
	})
	require.Nil(t, err)
	assert.Equal(t, []int32{42}, notFound)
	assert.False(t, red.IsChecked())

	_, notFound, err = s.AboutToShowGroup([]int32{0, 42})
	require.Nil(t, err)
	assert.Equal(t, []int32{42}, notFound)
}

func TestMenu_WithManager(t *testing.T) {
	type menuGroup int

	const radioColor menuGroup = 0

	m, _ := newRecordedMenu()
	manager := traycontrols.New[menuGroup]()

	color := m.AppendSubmenu(nil, "color", "Color")
	for _, c := range []struct {
		id    traycontrols.MenuID
		label string
	}{
		{"red", "Red"},
		{"green", "Green"},
		{"blue", "Blue"},
	} {
		item := m.AppendCheck(color, c.id, c.label, ToggleRadio, false)
		require.NoError(t, manager.Insert(traycontrols.NewRadio(item, radioColor, "red")))
	}

	m.OnClicked(func(id traycontrols.MenuID) {
		require.NoError(t, manager.Update(id, nil))
	})

	red, _ := m.Item("red")
	green, _ := m.Item("green")
	blue, _ := m.Item("blue")

	assert.True(t, red.IsChecked())

	require.NoError(t, m.Click(green.NodeID()))
	assert.False(t, red.IsChecked())
	assert.True(t, green.IsChecked())
	assert.False(t, blue.IsChecked())

	selected, ok := manager.Checked(radioColor)
	require.True(t, ok)
	assert.Equal(t, traycontrols.MenuID("green"), selected)

	// Clicking the selected radio falls back to the default.
	require.NoError(t, m.Click(green.NodeID()))
	assert.True(t, red.IsChecked())
	assert.False(t, green.IsChecked())
}
