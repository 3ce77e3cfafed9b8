// Package lantern adapts menu items of github.com/getlantern/systray to
// traycontrols handles.
//
// getlantern/systray does not toggle checkable items on click and reports
// clicks on per-item channels. [Watch] listens on the channels of all items,
// toggles checkable items, and delivers clicks as identifiers.
package lantern

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shelepuginivan/traycontrols"
)

// Entry is the subset of *systray.MenuItem used by [Item].
type Entry interface {
	SetTitle(title string)
	Checked() bool
	Check()
	Uncheck()
	SetIcon(icon []byte)
	Clicked() <-chan struct{}
}

// Item is a menu entry backed by [Entry]. It implements
// [traycontrols.CheckHandle] and [traycontrols.IconHandle].
type Item struct {
	id        traycontrols.MenuID
	entry     Entry
	checkable bool

	mu   sync.Mutex
	text string
}

// NewItem returns a plain [Item]. SetChecked has no effect on it.
func NewItem(id traycontrols.MenuID, text string, entry Entry) *Item {
	return &Item{id: id, entry: entry, text: text}
}

// NewCheckItem returns a checkable [Item]. It is toggled by [Watch] on click.
func NewCheckItem(id traycontrols.MenuID, text string, entry Entry) *Item {
	return &Item{id: id, entry: entry, text: text, checkable: true}
}

func (i *Item) ID() traycontrols.MenuID {
	return i.id
}

// Text returns title of the item. The title is tracked by the item, because
// entries do not report it.
func (i *Item) Text() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.text
}

func (i *Item) SetText(text string) {
	i.mu.Lock()
	i.text = text
	i.mu.Unlock()

	i.entry.SetTitle(text)
}

func (i *Item) IsChecked() bool {
	return i.entry.Checked()
}

func (i *Item) SetChecked(checked bool) {
	if !i.checkable {
		return
	}

	if checked {
		i.entry.Check()
	} else {
		i.entry.Uncheck()
	}
}

func (i *Item) SetIcon(icon []byte) {
	i.entry.SetIcon(icon)
}

// Checkable reports whether the item is toggled on click.
func (i *Item) Checkable() bool {
	return i.checkable
}

// Watch delivers clicks on items to handler until ctx is done. Checkable items
// are toggled before handler is called. Handler is called from a separate
// goroutine for each item.
func Watch(ctx context.Context, logger *zap.Logger, handler func(id traycontrols.MenuID), items ...*Item) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, item := range items {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case _, ok := <-item.entry.Clicked():
					if !ok {
						return nil
					}

					if item.checkable {
						item.SetChecked(!item.IsChecked())
					}

					logger.Debug("menu item clicked", zap.Stringer("id", item.id))
					handler(item.id)
				}
			}
		})
	}

	return g.Wait()
}

var (
	_ traycontrols.CheckHandle = (*Item)(nil)
	_ traycontrols.IconHandle  = (*Item)(nil)
)
