package dbusmenu

import (
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// server implements methods of com.canonical.dbusmenu.
type server struct {
	menu *Menu
}

// GetLayout returns revision of the layout and layout of node parentID down
// to recursionDepth levels. Only propertyNames are included, or all
// properties if propertyNames is empty.
func (s *server) GetLayout(parentID int32, recursionDepth int32, propertyNames []string) (uint32, layout, *dbus.Error) {
	s.menu.mu.RLock()
	defer s.menu.mu.RUnlock()

	item, ok := s.menu.nodes[parentID]
	if !ok {
		return 0, layout{}, dbus.MakeFailedError(ErrUnknownNode)
	}

	return s.menu.revision, item.layout(recursionDepth, propertyNames), nil
}

// GetGroupProperties returns properties of the given nodes. Unknown nodes
// are skipped.
func (s *server) GetGroupProperties(ids []int32, propertyNames []string) ([]UpdatedProperties, *dbus.Error) {
	s.menu.mu.RLock()
	defer s.menu.mu.RUnlock()

	props := make([]UpdatedProperties, 0, len(ids))

	for _, id := range ids {
		item, ok := s.menu.nodes[id]
		if !ok {
			continue
		}

		props = append(props, UpdatedProperties{
			NodeID:     id,
			Properties: item.properties(propertyNames),
		})
	}

	return props, nil
}

// GetProperty returns a single property of the node.
func (s *server) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	s.menu.mu.RLock()
	defer s.menu.mu.RUnlock()

	item, ok := s.menu.nodes[id]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(ErrUnknownNode)
	}

	value, ok := item.properties(nil)[name]
	if !ok {
		return dbus.Variant{}, dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs", []any{"unknown property " + name})
	}

	return value, nil
}

// Event is called by hosts when the user interacts with a node. Only
// "clicked" events are handled.
func (s *server) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	if eventID != "clicked" {
		return nil
	}

	if err := s.menu.Click(id); err != nil {
		s.menu.log.Debug("event on unknown node",
			zap.Int32("node", id),
			zap.Uint32("timestamp", timestamp),
		)
		return dbus.MakeFailedError(err)
	}

	return nil
}

// EventGroup is like Event but for multiple events at once. It returns IDs
// of nodes that were not found.
func (s *server) EventGroup(events []event) ([]int32, *dbus.Error) {
	notFound := make([]int32, 0)

	for _, e := range events {
		if e.EventID != "clicked" {
			continue
		}

		if err := s.menu.Click(e.ID); err != nil {
			notFound = append(notFound, e.ID)
		}
	}

	if len(events) > 0 && len(notFound) == len(events) {
		return notFound, dbus.MakeFailedError(ErrUnknownNode)
	}

	return notFound, nil
}

// AboutToShow is called by hosts before the node is shown. The layout is
// always up to date, so no update is needed.
func (s *server) AboutToShow(id int32) (bool, *dbus.Error) {
	s.menu.mu.RLock()
	defer s.menu.mu.RUnlock()

	if _, ok := s.menu.nodes[id]; !ok {
		return false, dbus.MakeFailedError(ErrUnknownNode)
	}

	return false, nil
}

// AboutToShowGroup is like AboutToShow but for multiple nodes at once.
func (s *server) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	s.menu.mu.RLock()
	defer s.menu.mu.RUnlock()

	notFound := make([]int32, 0)

	for _, id := range ids {
		if _, ok := s.menu.nodes[id]; !ok {
			notFound = append(notFound, id)
		}
	}

	return []int32{}, notFound, nil
}
