package traycontrols

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Stats contains counters of operations performed by [Manager].
type Stats struct {
	Inserts    uint64
	Overwrites uint64
	Removes    uint64
	Updates    uint64
	Misses     uint64
	FanOuts    uint64
}

// Manager stores menu controls by their identifiers and keeps checkable
// groups consistent.
//
// All methods are safe for concurrent use. Radio fan-out happens under the
// same lock as the update that caused it, so other goroutines never observe a
// group with two checked radios.
type Manager[G comparable] struct {
	mu       sync.Mutex
	controls map[MenuID]MenuControl[G]
	groups   map[G]*group
	opts     options
	log      *zap.Logger
	stats    Stats
}

// New returns a new empty [Manager].
func New[G comparable](opts ...Option) *Manager[G] {
	o := options{
		logger:     zap.NewNop(),
		duplicates: DuplicateOverwrite,
		defaults:   DefaultFirstWins,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return &Manager[G]{
		controls: make(map[MenuID]MenuControl[G]),
		groups:   make(map[G]*group),
		opts:     o,
		log:      o.logger,
	}
}

// Insert registers control under identifier of its handle.
//
// If the identifier is already registered, the behavior depends on
// [DuplicatePolicy]. With [DuplicateOverwrite], the previous control is
// removed first (including its group membership).
//
// Inserting a [Radio] applies its default according to [DefaultPolicy] and
// reconciles checked state of the handle with the selection of the group.
func (m *Manager[G]) Insert(control MenuControl[G]) error {
	if control == nil {
		return fmt.Errorf("insert: %w", ErrNilControl)
	}

	handle, err := handleOf(control)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	id := handle.ID()
	if id == "" {
		return fmt.Errorf("insert: %w", ErrEmptyID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, exists := m.controls[id]; exists {
		if m.opts.duplicates == DuplicateReject {
			return fmt.Errorf("insert %s: %w", id, ErrDuplicateID)
		}

		m.log.Debug("overwriting menu control",
			zap.Stringer("id", id),
			zap.String("previous", roleOf(prev)),
			zap.String("role", roleOf(control)),
		)

		m.detach(id, prev)
		m.stats.Overwrites++
	}

	m.controls[id] = control
	m.stats.Inserts++

	if cm, ok := control.(CheckMenu[G]); ok {
		switch kind := cm.Kind.(type) {
		case CheckBox[G]:
			m.join(kind.Group, id, kind.Item, false)
		case Radio[G]:
			g := m.join(kind.Group, id, kind.Item, true)
			m.applyDefault(kind.Group, g, kind.Default)
			m.reconcile(kind.Group, g, id, kind.Item)
		case Separate[G]:
			// Not a member of any group.
		}
	}

	m.log.Debug("inserted menu control",
		zap.Stringer("id", id),
		zap.String("role", roleOf(control)),
	)

	return nil
}

// Get returns control registered under id.
func (m *Manager[G]) Get(id MenuID) (MenuControl[G], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	control, ok := m.controls[id]
	return control, ok
}

// Remove unregisters control with the given id and returns it.
//
// If the control is a member of a group, it leaves the group. If it was the
// selected radio, the group is left without selection.
func (m *Manager[G]) Remove(id MenuID) (MenuControl[G], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	control, ok := m.controls[id]
	if !ok {
		return nil, false
	}

	m.detach(id, control)
	m.stats.Removes++

	m.log.Debug("removed menu control",
		zap.Stringer("id", id),
		zap.String("role", roleOf(control)),
	)

	return control, true
}

// Update calls fn with control registered under id and synchronizes the
// group of the control afterwards. If id is not registered, fn is called with
// nil and false.
//
// fn is expected to apply toolkit side effects, such as checking the item or
// changing its label. If the control is a [Radio] that is checked after fn
// returns, every other member of its group is unchecked, including checkboxes
// sharing the group. If the control is the
// selected radio and it is unchecked after fn returns, the default radio of
// the group is selected, or the group is left without selection if there is
// no default. Synchronization happens even if fn returns an error.
//
// fn runs while the manager is locked. It must not call methods of the
// manager.
//
// Update returns the error returned by fn.
func (m *Manager[G]) Update(id MenuID, fn func(control MenuControl[G], ok bool) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	control, ok := m.controls[id]

	m.stats.Updates++
	if !ok {
		m.stats.Misses++
		m.log.Debug("update of unknown menu control", zap.Stringer("id", id))
	}

	var err error
	if fn != nil {
		err = fn(control, ok)
	}

	if ok {
		m.sync(id, control)
	}

	return err
}

// Select checks radio id of group and unchecks the other members. It is the
// programmatic equivalent of clicking the radio. Selecting the radio that is
// already selected does nothing.
func (m *Manager[G]) Select(group G, id MenuID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[group]
	if !ok || !g.isRadio(id) {
		return fmt.Errorf("select %s: %w", id, ErrNotRadioMember)
	}

	if g.checked == id && g.members[id].IsChecked() {
		return nil
	}

	m.selectRadio(group, g, id)

	return nil
}

// Len returns the number of registered controls.
func (m *Manager[G]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.controls)
}

// IDs returns sorted identifiers of registered controls.
func (m *Manager[G]) IDs() []MenuID {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]MenuID, 0, len(m.controls))
	for id := range m.controls {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Checked returns identifier of the selected radio of group. It returns false
// if the group has no selection.
//
// The selection can be a default that was declared by a member but never
// inserted. Such identifier is not registered, so [Manager.Get] does not find
// it.
func (m *Manager[G]) Checked(group G) (MenuID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[group]
	if !ok || g.checked == "" {
		return "", false
	}

	return g.checked, true
}

// Default returns the default radio of group, if any.
func (m *Manager[G]) Default(group G) (MenuID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[group]
	if !ok || g.fallback == "" {
		return "", false
	}

	return g.fallback, true
}

// Members returns sorted identifiers of checkboxes and radios of group.
func (m *Manager[G]) Members(group G) []MenuID {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[group]
	if !ok {
		return nil
	}

	return g.ids()
}

// Groups returns keys of groups that have at least one member. The order is
// unspecified.
func (m *Manager[G]) Groups() []G {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]G, 0, len(m.groups))
	for key := range m.groups {
		keys = append(keys, key)
	}

	return keys
}

// Stats returns operation counters of the manager.
func (m *Manager[G]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stats
}

// detach removes control from the registry and from its group.
func (m *Manager[G]) detach(id MenuID, control MenuControl[G]) {
	delete(m.controls, id)

	cm, ok := control.(CheckMenu[G])
	if !ok {
		return
	}

	switch kind := cm.Kind.(type) {
	case CheckBox[G]:
		m.leave(kind.Group, id)
	case Radio[G]:
		m.leave(kind.Group, id)
	case Separate[G]:
		// Not a member of any group.
	}
}

// sync reconciles the group of control after it was updated.
func (m *Manager[G]) sync(id MenuID, control MenuControl[G]) {
	cm, ok := control.(CheckMenu[G])
	if !ok {
		return
	}

	switch kind := cm.Kind.(type) {
	case Radio[G]:
		g, ok := m.groups[kind.Group]
		if !ok {
			return
		}

		switch {
		case kind.Item.IsChecked():
			if g.checked == id {
				return
			}

			m.selectRadio(kind.Group, g, id)
		case g.checked == id:
			m.restore(kind.Group, g)
		}
	case CheckBox[G], Separate[G]:
		// Checkboxes are toggled independently.
	}
}
