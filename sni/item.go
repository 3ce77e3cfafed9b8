// Package sni exports a tray icon with the [StatusNotifierItem] protocol.
//
// The item references a com.canonical.dbusmenu object, such as
// dbusmenu.Menu, which hosts show as its context menu.
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/StatusNotifierItem/
package sni

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	"go.uber.org/zap"
)

const (
	StatusNotifierItemInterface = "org.kde.StatusNotifierItem"
	StatusNotifierItemPath      = dbus.ObjectPath("/StatusNotifierItem")
)

type ItemCategory string

// StatusNotifierItem categories.
const (
	// The item describes the status of a generic application, for instance the
	// current state of a media player.
	ItemCategoryApplicationStatus ItemCategory = "ApplicationStatus"

	// The item describes the status of communication oriented applications, like
	// an instant messenger or an email client.
	ItemCategoryCommunications ItemCategory = "Communications"

	// The item describes services of the system not seen as a stand alone
	// application by the user.
	ItemCategorySystemServices ItemCategory = "SystemServices"

	// The item describes the state and control of a particular hardware.
	ItemCategoryHardware ItemCategory = "Hardware"
)

type ItemStatus string

// StatusNotifierItem statuses.
const (
	// The item doesn't convey important information to the user. Hosts are
	// likely to hide it.
	ItemStatusPassive ItemStatus = "Passive"

	// The item is active and should be shown.
	ItemStatusActive ItemStatus = "Active"

	// The item carries really important information for the user.
	ItemStatusNeedsAttention ItemStatus = "NeedsAttention"
)

var (
	ErrClosed    = errors.New("item is closed")
	ErrListening = errors.New("item is already listening")
)

// instances is used to build unique bus names of items of the process.
var instances atomic.Uint32

// Emitter emits D-Bus signals. It is implemented by [dbus.Conn].
type Emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...any) error
}

// Item is a tray icon exported on the session bus.
type Item struct {
	mu      sync.Mutex
	log     *zap.Logger
	conn    Emitter
	bus     *dbus.Conn
	props   *prop.Properties
	watcher *watcher
	service string
	name    string
	closed  bool

	id       string
	category ItemCategory
	title    string
	status   ItemStatus
	tooltip  string
	iconName string
	icon     *Icon
	isMenu   bool
	menu     dbus.ObjectPath
	windowID uint32

	onActivate          func(x, y int32)
	onSecondaryActivate func(x, y int32)
	onContextMenu       func(x, y int32)
	onScroll            func(delta int32, orientation string)
}

// Option configures [Item].
type Option func(*Item)

// WithLogger sets logger of the item.
func WithLogger(logger *zap.Logger) Option {
	return func(item *Item) {
		if logger != nil {
			item.log = logger
		}
	}
}

// WithCategory sets category of the item. The default is
// [ItemCategoryApplicationStatus].
func WithCategory(category ItemCategory) Option {
	return func(item *Item) {
		item.category = category
	}
}

// WithMenu sets path of the com.canonical.dbusmenu object of the item. If
// isMenu is true, hosts show the menu instead of calling Activate.
func WithMenu(path dbus.ObjectPath, isMenu bool) Option {
	return func(item *Item) {
		item.menu = path
		item.isMenu = isMenu
	}
}

// NewItem returns a new [Item]. Parameter id is a unique identifier of the
// application, such as its name.
func NewItem(id string, opts ...Option) *Item {
	item := &Item{
		log:      zap.NewNop(),
		id:       id,
		title:    id,
		category: ItemCategoryApplicationStatus,
		status:   ItemStatusActive,
		menu:     "/NO_DBUSMENU",
		service:  StatusNotifierWatcherInterface,

		onActivate:          func(int32, int32) {},
		onSecondaryActivate: func(int32, int32) {},
		onContextMenu:       func(int32, int32) {},
		onScroll:            func(int32, string) {},
	}

	for _, opt := range opts {
		opt(item)
	}

	return item
}

// Name returns bus name of the item. It is empty until [Item.Listen] is
// called.
func (item *Item) Name() string {
	item.mu.Lock()
	defer item.mu.Unlock()

	return item.name
}

// Listen requests a unique bus name for the item, exports it, and registers it
// in the StatusNotifierWatcher. The item is registered again whenever the
// watcher restarts. If no watcher is running, the item waits for one to
// appear.
func (item *Item) Listen(conn *dbus.Conn) error {
	item.mu.Lock()
	defer item.mu.Unlock()

	if item.closed {
		return fmt.Errorf("listen: %w", ErrClosed)
	}

	if item.bus != nil {
		return fmt.Errorf("listen: %w", ErrListening)
	}

	name := fmt.Sprintf("%s-%d-%d", StatusNotifierItemInterface, os.Getpid(), instances.Add(1))

	reply, err := conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("listen: failed to request name %s: %w", name, err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("listen: name %s already taken", name)
	}

	if err := conn.Export(&server{item: item}, StatusNotifierItemPath, StatusNotifierItemInterface); err != nil {
		unexport(conn, name)
		return fmt.Errorf("listen: failed to export %s: %w", StatusNotifierItemInterface, err)
	}

	props, err := prop.Export(conn, StatusNotifierItemPath, prop.Map{
		StatusNotifierItemInterface: item.properties(),
	})
	if err != nil {
		unexport(conn, name)
		return fmt.Errorf("listen: failed to export properties: %w", err)
	}

	// Subscribe before the first registration, so that a watcher started in
	// between is not missed.
	w := newWatcher(conn, item.service, name, item.log)
	w.subscribe()
	go w.watch()

	switch err := w.register(); {
	case err == nil:
		item.log.Info("status notifier item registered", zap.String("name", name))
	case isWatcherMissing(err):
		item.log.Warn("status notifier watcher is not running, waiting for it",
			zap.String("name", name),
			zap.String("watcher", item.service),
		)
	default:
		w.close()
		unexport(conn, name)
		return fmt.Errorf("listen: %w", err)
	}

	item.name = name
	item.bus = conn
	item.conn = conn
	item.props = props
	item.watcher = w

	return nil
}

// Close unexports the item and releases its bus name.
func (item *Item) Close() error {
	item.mu.Lock()
	defer item.mu.Unlock()

	if item.closed {
		return nil
	}

	item.closed = true

	if item.bus == nil {
		return nil
	}

	item.watcher.close()

	if err := unexport(item.bus, item.name); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	item.bus = nil
	item.conn = nil
	item.props = nil

	return nil
}

// unexport removes objects of the item from conn and releases name.
func unexport(conn *dbus.Conn, name string) error {
	if err := conn.Export(nil, StatusNotifierItemPath, StatusNotifierItemInterface); err != nil {
		return err
	}

	if err := conn.Export(nil, StatusNotifierItemPath, "org.freedesktop.DBus.Properties"); err != nil {
		return err
	}

	if _, err := conn.ReleaseName(name); err != nil {
		return fmt.Errorf("failed to release name %s: %w", name, err)
	}

	return nil
}

// SetTitle updates title of the item and emits NewTitle.
func (item *Item) SetTitle(title string) {
	item.mu.Lock()
	item.title = title
	item.mu.Unlock()

	item.update("NewTitle", "Title", title)
}

// SetTooltip updates text of the tooltip and emits NewToolTip.
func (item *Item) SetTooltip(tooltip string) {
	item.mu.Lock()
	item.tooltip = tooltip
	value := item.tooltipValue()
	item.mu.Unlock()

	item.update("NewToolTip", "ToolTip", value)
}

// SetStatus updates status of the item and emits NewStatus.
func (item *Item) SetStatus(status ItemStatus) {
	item.mu.Lock()
	item.status = status
	item.mu.Unlock()

	item.update("NewStatus", "Status", string(status), string(status))
}

// SetIcon updates pixmap of the item and emits NewIcon.
func (item *Item) SetIcon(icon *Icon) {
	item.mu.Lock()
	item.icon = icon
	value := item.pixmaps()
	item.mu.Unlock()

	item.update("NewIcon", "IconPixmap", value)
}

// SetIconName updates themed icon name of the item and emits NewIcon.
func (item *Item) SetIconName(name string) {
	item.mu.Lock()
	item.iconName = name
	item.mu.Unlock()

	item.update("NewIcon", "IconName", name)
}

// OnActivate registers callback for primary activation, usually a left
// click.
func (item *Item) OnActivate(callback func(x, y int32)) {
	item.mu.Lock()
	defer item.mu.Unlock()

	item.onActivate = callback
}

// OnSecondaryActivate registers callback for secondary activation, usually a
// middle click.
func (item *Item) OnSecondaryActivate(callback func(x, y int32)) {
	item.mu.Lock()
	defer item.mu.Unlock()

	item.onSecondaryActivate = callback
}

// OnContextMenu registers callback that runs when a host asks the item to
// show its context menu itself.
func (item *Item) OnContextMenu(callback func(x, y int32)) {
	item.mu.Lock()
	defer item.mu.Unlock()

	item.onContextMenu = callback
}

// OnScroll registers callback for scroll events. Orientation is either
// "horizontal" or "vertical".
func (item *Item) OnScroll(callback func(delta int32, orientation string)) {
	item.mu.Lock()
	defer item.mu.Unlock()

	item.onScroll = callback
}

// update sets exported property and emits signal. Caller must not hold the
// lock.
func (item *Item) update(signal, property string, value any, args ...any) {
	item.mu.Lock()
	props := item.props
	conn := item.conn
	item.mu.Unlock()

	if props != nil {
		props.SetMust(StatusNotifierItemInterface, property, value)
	}

	if conn == nil {
		return
	}

	if err := conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+"."+signal, args...); err != nil {
		item.log.Warn("failed to emit signal",
			zap.String("signal", signal),
			zap.Error(err),
		)
	}
}

// properties returns exported properties of the item. Caller must hold the
// lock.
func (item *Item) properties() map[string]*prop.Prop {
	readonly := func(value any) *prop.Prop {
		return &prop.Prop{Value: value, Writable: false, Emit: prop.EmitTrue}
	}

	return map[string]*prop.Prop{
		"Category":            readonly(string(item.category)),
		"Id":                  readonly(item.id),
		"Title":               readonly(item.title),
		"Status":              readonly(string(item.status)),
		"WindowId":            readonly(item.windowID),
		"IconName":            readonly(item.iconName),
		"IconPixmap":          readonly(item.pixmaps()),
		"OverlayIconName":     readonly(""),
		"OverlayIconPixmap":   readonly([]pixmap{}),
		"AttentionIconName":   readonly(""),
		"AttentionIconPixmap": readonly([]pixmap{}),
		"AttentionMovieName":  readonly(""),
		"ToolTip":             readonly(item.tooltipValue()),
		"ItemIsMenu":          readonly(item.isMenu),
		"Menu":                readonly(item.menu),
	}
}

// pixmaps returns wire value of IconPixmap. Caller must hold the lock.
func (item *Item) pixmaps() []pixmap {
	if item.icon == nil {
		return []pixmap{}
	}

	return []pixmap{item.icon.pixmap()}
}

// tooltipValue returns wire value of ToolTip. Caller must hold the lock.
func (item *Item) tooltipValue() tooltip {
	return tooltip{
		Icon:  []pixmap{},
		Title: item.tooltip,
	}
}

// tooltip is the wire representation of ToolTip, (sa(iiay)ss).
type tooltip struct {
	IconName    string
	Icon        []pixmap
	Title       string
	Description string
}
