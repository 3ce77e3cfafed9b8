package sni

import (
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	StatusNotifierWatcherInterface = "org.kde.StatusNotifierWatcher"
	StatusNotifierWatcherPath      = dbus.ObjectPath("/StatusNotifierWatcher")
)

// watcher registers an item in the StatusNotifierWatcher and registers it
// again when the watcher changes owner, e.g. after the panel restarts.
type watcher struct {
	mu      sync.Mutex
	closed  bool
	conn    *dbus.Conn
	service string
	name    string
	log     *zap.Logger
	signals chan *dbus.Signal
}

func newWatcher(conn *dbus.Conn, service, name string, log *zap.Logger) *watcher {
	return &watcher{
		conn:    conn,
		service: service,
		name:    name,
		log:     log,
		signals: make(chan *dbus.Signal, 16),
	}
}

// register calls RegisterStatusNotifierItem of the watcher.
func (w *watcher) register() error {
	call := w.conn.Object(
		w.service,
		StatusNotifierWatcherPath,
	).Call(StatusNotifierWatcherInterface+".RegisterStatusNotifierItem", 0, w.name)
	if call.Err != nil {
		return fmt.Errorf("failed to register item: %w", call.Err)
	}

	return nil
}

// subscribe starts delivery of NameOwnerChanged signals of the watcher name.
func (w *watcher) subscribe() {
	// Whenever the watcher name gets a new owner, D-Bus sends NameOwnerChanged
	// signal with non-empty NewOwner argument.
	w.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, w.service),
	)

	w.conn.Signal(w.signals)
}

// watch registers the item again whenever the watcher name gets a new owner.
// It returns when the watcher is closed.
func (w *watcher) watch() {
	for signal := range w.signals {
		if !isNewOwner(signal, w.service) {
			continue
		}

		if err := w.register(); err != nil {
			w.log.Warn("failed to register item in new watcher", zap.Error(err))
			continue
		}

		w.log.Info("status notifier item registered in new watcher", zap.String("name", w.name))
	}
}

func (w *watcher) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.closed = true

	w.conn.RemoveMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, w.service),
	)

	w.conn.RemoveSignal(w.signals)
	close(w.signals)
}

// isNewOwner reports whether signal announces a new owner of the watcher
// name service.
func isNewOwner(signal *dbus.Signal, service string) bool {
	if signal.Name != "org.freedesktop.DBus.NameOwnerChanged" {
		return false
	}

	if len(signal.Body) < 3 {
		return false
	}

	name, ok := signal.Body[0].(string)
	if !ok || name != service {
		return false
	}

	newOwner, ok := signal.Body[2].(string)
	return ok && newOwner != ""
}

// isWatcherMissing reports whether err means that no watcher owns the watcher
// name.
func isWatcherMissing(err error) bool {
	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) {
		return isMissingName(dbusErr.Name)
	}

	var dbusErrPtr *dbus.Error
	if errors.As(err, &dbusErrPtr) {
		return isMissingName(dbusErrPtr.Name)
	}

	return false
}

func isMissingName(name string) bool {
	return name == "org.freedesktop.DBus.Error.ServiceUnknown" ||
		name == "org.freedesktop.DBus.Error.NameHasNoOwner"
}
