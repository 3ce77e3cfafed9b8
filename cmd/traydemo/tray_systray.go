//go:build windows || darwin

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"runtime"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"github.com/shelepuginivan/traycontrols"
	"github.com/shelepuginivan/traycontrols/lantern"
)

const iconSize = 32

// systrayBuilder creates entries of the getlantern/systray menu and collects
// them for lantern.Watch.
type systrayBuilder struct {
	items []*lantern.Item
}

func (b *systrayBuilder) Submenu(label string) checkFactory {
	parent := lantern.AddItem("", label, label)

	return func(id traycontrols.MenuID, label string, _ bool) traycontrols.CheckHandle {
		item := lantern.AddSubCheckItem(parent, id, label, label, false)
		b.items = append(b.items, item)

		return item
	}
}

func (b *systrayBuilder) Separator() {
	systray.AddSeparator()
}

func (b *systrayBuilder) Item(id traycontrols.MenuID, label string) traycontrols.Handle {
	item := lantern.AddItem(id, label, label)
	b.items = append(b.items, item)

	return item
}

// runTray shows the tray icon with getlantern/systray and blocks until ctx is
// done or the quit item is clicked.
func runTray(ctx context.Context, a *app) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var err error

	onReady := func() {
		systray.SetTitle(a.cfg.Title)
		systray.SetTooltip(a.cfg.Title)

		a.setIcon = func(c color.Color) {
			icon, iconErr := encodeIcon(c)
			if iconErr != nil {
				a.log.Warn("failed to encode icon", zap.Error(iconErr))
				return
			}

			systray.SetIcon(icon)
		}
		a.quit = cancel

		b := &systrayBuilder{}
		if err = a.populate(b); err != nil {
			systray.Quit()
			return
		}

		go func() {
			if watchErr := lantern.Watch(ctx, a.log.Named("systray"), a.handleClick, b.items...); watchErr != nil {
				a.log.Warn("menu watcher stopped", zap.Error(watchErr))
			}
		}()

		go func() {
			<-ctx.Done()
			systray.Quit()
		}()

		a.log.Info("tray is ready")
	}

	systray.Run(onReady, cancel)

	if err != nil {
		return fmt.Errorf("tray: %w", err)
	}

	return nil
}

// encodeIcon returns a square icon filled with c, encoded as PNG, or as ICO
// with the PNG embedded on Windows.
func encodeIcon(c color.Color) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	for y := range iconSize {
		for x := range iconSize {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	if runtime.GOOS != "windows" {
		return buf.Bytes(), nil
	}

	const headerSize = 6 + 16

	ico := make([]byte, 0, headerSize+buf.Len())
	ico = binary.LittleEndian.AppendUint16(ico, 0) // reserved
	ico = binary.LittleEndian.AppendUint16(ico, 1) // icon
	ico = binary.LittleEndian.AppendUint16(ico, 1) // number of images
	ico = append(ico, iconSize, iconSize, 0, 0)
	ico = binary.LittleEndian.AppendUint16(ico, 1)  // color planes
	ico = binary.LittleEndian.AppendUint16(ico, 32) // bits per pixel
	ico = binary.LittleEndian.AppendUint32(ico, uint32(buf.Len()))
	ico = binary.LittleEndian.AppendUint32(ico, headerSize)

	return append(ico, buf.Bytes()...), nil
}
