package traycontrols

import (
	"slices"

	"go.uber.org/zap"
)

// group tracks members of a single group key.
type group struct {
	// Handles of checkboxes and radios of the group.
	members map[MenuID]CheckHandle

	// Subset of members that are radios.
	radios map[MenuID]struct{}

	// Identifier of the selected radio. Empty if nothing is selected. It can
	// point to a default radio that is not inserted yet.
	checked MenuID

	// Default radio of the group, restored when the selected radio is
	// unchecked.
	fallback MenuID
}

func newGroup() *group {
	return &group{
		members: make(map[MenuID]CheckHandle),
		radios:  make(map[MenuID]struct{}),
	}
}

func (g *group) isRadio(id MenuID) bool {
	_, ok := g.radios[id]
	return ok
}

func (g *group) ids() []MenuID {
	ids := make([]MenuID, 0, len(g.members))
	for id := range g.members {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// join adds handle to group key, creating the group if necessary.
func (m *Manager[G]) join(key G, id MenuID, handle CheckHandle, radio bool) *group {
	g, ok := m.groups[key]
	if !ok {
		g = newGroup()
		m.groups[key] = g
	}

	g.members[id] = handle
	if radio {
		g.radios[id] = struct{}{}
	}

	return g
}

// leave removes id from group key. Empty groups are dropped.
func (m *Manager[G]) leave(key G, id MenuID) {
	g, ok := m.groups[key]
	if !ok {
		return
	}

	delete(g.members, id)
	delete(g.radios, id)

	if g.checked == id {
		g.checked = ""
		m.log.Debug("radio group selection cleared",
			zap.Any("group", key),
			zap.Stringer("id", id),
		)
	}

	if len(g.members) == 0 {
		delete(m.groups, key)
	}
}

// applyDefault resolves default declared by a newly inserted radio.
func (m *Manager[G]) applyDefault(key G, g *group, def MenuID) {
	if def == "" {
		return
	}

	switch m.opts.defaults {
	case DefaultLastWins:
		g.fallback = def
		if g.checked != def {
			m.selectRadio(key, g, def)
		}
	default:
		if g.fallback == "" {
			g.fallback = def
		}

		if g.checked == "" {
			m.selectRadio(key, g, def)
		}
	}
}

// reconcile makes checked state of a newly inserted radio agree with the
// selection of its group.
func (m *Manager[G]) reconcile(key G, g *group, id MenuID, handle CheckHandle) {
	switch {
	case g.checked == id:
		if !handle.IsChecked() {
			handle.SetChecked(true)
		}
	case g.checked != "":
		if handle.IsChecked() {
			handle.SetChecked(false)
		}
	case handle.IsChecked():
		m.selectRadio(key, g, id)
	}
}

// selectRadio makes id the selection of the group. Every other member,
// checkboxes included, is unchecked exactly once. id does not have to be a
// member: a default can be selected before its radio is inserted.
func (m *Manager[G]) selectRadio(key G, g *group, id MenuID) {
	for member, handle := range g.members {
		if member == id {
			if !handle.IsChecked() {
				handle.SetChecked(true)
			}
			continue
		}

		handle.SetChecked(false)
	}

	previous := g.checked
	g.checked = id
	m.stats.FanOuts++

	m.log.Debug("radio group selection changed",
		zap.Any("group", key),
		zap.Stringer("previous", previous),
		zap.Stringer("id", id),
	)
}

// restore handles the selected radio being unchecked. The default radio is
// selected if it is a member of the group, otherwise the group is left without
// selection.
func (m *Manager[G]) restore(key G, g *group) {
	if g.fallback != "" && g.isRadio(g.fallback) {
		m.selectRadio(key, g, g.fallback)
		return
	}

	m.log.Debug("radio group selection cleared",
		zap.Any("group", key),
		zap.Stringer("id", g.checked),
	)

	g.checked = ""
}
