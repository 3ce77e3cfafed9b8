package sni

import "github.com/godbus/dbus/v5"

// server implements methods of org.kde.StatusNotifierItem.
type server struct {
	item *Item
}

func (s *server) Activate(x, y int32) *dbus.Error {
	s.item.mu.Lock()
	callback := s.item.onActivate
	s.item.mu.Unlock()

	callback(x, y)
	return nil
}

func (s *server) SecondaryActivate(x, y int32) *dbus.Error {
	s.item.mu.Lock()
	callback := s.item.onSecondaryActivate
	s.item.mu.Unlock()

	callback(x, y)
	return nil
}

func (s *server) ContextMenu(x, y int32) *dbus.Error {
	s.item.mu.Lock()
	callback := s.item.onContextMenu
	s.item.mu.Unlock()

	callback(x, y)
	return nil
}

func (s *server) Scroll(delta int32, orientation string) *dbus.Error {
	s.item.mu.Lock()
	callback := s.item.onScroll
	s.item.mu.Unlock()

	callback(delta, orientation)
	return nil
}
