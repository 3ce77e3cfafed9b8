//go:build !windows && !darwin

package main

import (
	"context"
	"fmt"
	"image/color"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/shelepuginivan/traycontrols"
	"github.com/shelepuginivan/traycontrols/dbusmenu"
	"github.com/shelepuginivan/traycontrols/sni"
)

const iconSize = 32

// dbusBuilder creates entries of an exported dbusmenu.Menu.
type dbusBuilder struct {
	menu *dbusmenu.Menu
}

func (b *dbusBuilder) Submenu(label string) checkFactory {
	parent := b.menu.AppendSubmenu(nil, "", label)

	return func(id traycontrols.MenuID, label string, radio bool) traycontrols.CheckHandle {
		toggle := dbusmenu.ToggleCheckmark
		if radio {
			toggle = dbusmenu.ToggleRadio
		}

		return b.menu.AppendCheck(parent, id, label, toggle, false)
	}
}

func (b *dbusBuilder) Separator() {
	b.menu.AppendSeparator(nil)
}

func (b *dbusBuilder) Item(id traycontrols.MenuID, label string) traycontrols.Handle {
	return b.menu.Append(nil, id, label)
}

// runTray shows the tray icon with StatusNotifierItem and blocks until ctx is
// done or the quit item is clicked.
func runTray(ctx context.Context, a *app) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("tray: failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	menu := dbusmenu.NewMenu(dbusmenu.WithLogger(a.log.Named("dbusmenu")))
	item := sni.NewItem("traydemo",
		sni.WithLogger(a.log.Named("sni")),
		sni.WithMenu(menu.Path(), true),
	)

	item.SetTitle(a.cfg.Title)
	item.SetTooltip(a.cfg.Title)

	a.setIcon = func(c color.Color) {
		item.SetIcon(sni.NewSolidIcon(iconSize, iconSize, c))
	}
	a.quit = cancel

	if err := a.populate(&dbusBuilder{menu: menu}); err != nil {
		return fmt.Errorf("tray: %w", err)
	}

	menu.OnClicked(a.handleClick)

	if err := menu.Export(conn); err != nil {
		return fmt.Errorf("tray: %w", err)
	}
	defer menu.Close()

	if err := item.Listen(conn); err != nil {
		return fmt.Errorf("tray: %w", err)
	}
	defer item.Close()

	a.log.Info("tray is ready", zap.String("name", item.Name()))

	<-ctx.Done()

	return nil
}
