package dbusmenu

import (
	"github.com/godbus/dbus/v5"
)

// LayoutNode is a node of the menu layout, as seen by tray hosts.
type LayoutNode struct {
	ID         int32
	Properties map[string]any
	Children   []*LayoutNode
}

// layout is the wire representation of a layout node, (ia{sv}av).
type layout struct {
	ID         int32
	Properties map[string]dbus.Variant
	Children   []dbus.Variant
}

// newLayoutNode converts wire layout to [LayoutNode].
func newLayoutNode(l layout) *LayoutNode {
	node := &LayoutNode{
		ID:         l.ID,
		Properties: make(map[string]any, len(l.Properties)),
		Children:   make([]*LayoutNode, 0, len(l.Children)),
	}

	for key, value := range l.Properties {
		node.Properties[key] = value.Value()
	}

	for _, child := range l.Children {
		childLayout, ok := child.Value().(layout)
		if !ok {
			continue
		}

		node.Children = append(node.Children, newLayoutNode(childLayout))
	}

	return node
}

// UpdatedProperties is an element of the first argument of the
// com.canonical.dbusmenu.ItemsPropertiesUpdated signal.
type UpdatedProperties struct {
	// ID of the layout node.
	NodeID int32

	// Updated properties.
	Properties map[string]dbus.Variant
}

// RemovedProperties is an element of the second argument of the
// com.canonical.dbusmenu.ItemsPropertiesUpdated signal.
type RemovedProperties struct {
	// ID of the layout node.
	NodeID int32

	// Names of removed properties.
	Properties []string
}

// event is an element of the argument of com.canonical.dbusmenu.EventGroup.
type event struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}
