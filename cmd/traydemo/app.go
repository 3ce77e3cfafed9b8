package main

import (
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/shelepuginivan/traycontrols"
)

// checkFactory creates a checkable item in a submenu.
type checkFactory func(id traycontrols.MenuID, label string, radio bool) traycontrols.CheckHandle

// menuBuilder creates menu entries of a tray toolkit.
type menuBuilder interface {
	Submenu(label string) checkFactory
	Separator()
	Item(id traycontrols.MenuID, label string) traycontrols.Handle
}

// app handles clicks on the tray menu.
type app struct {
	cfg     *Config
	log     *zap.Logger
	manager *traycontrols.Manager[string]

	// colors of radio items that recolour the tray icon.
	colors map[traycontrols.MenuID]color.NRGBA

	setIcon func(c color.Color)
	quit    func()
}

func newApp(cfg *Config, log *zap.Logger) (*app, error) {
	duplicates, err := cfg.duplicatePolicy()
	if err != nil {
		return nil, err
	}

	defaults, err := cfg.defaultPolicy()
	if err != nil {
		return nil, err
	}

	return &app{
		cfg: cfg,
		log: log,
		manager: traycontrols.New[string](
			traycontrols.WithLogger(log.Named("menu")),
			traycontrols.WithDuplicatePolicy(duplicates),
			traycontrols.WithDefaultPolicy(defaults),
		),
		colors:  make(map[traycontrols.MenuID]color.NRGBA),
		setIcon: func(color.Color) {},
		quit:    func() {},
	}, nil
}

// populate creates menu entries with b and registers them in the manager.
func (a *app) populate(b menuBuilder) error {
	for _, group := range a.cfg.Groups {
		add := b.Submenu(group.Label)
		radio := group.Kind == kindRadio

		for _, item := range group.Items {
			id := traycontrols.MenuID(item.ID)
			handle := add(id, item.Label, radio)

			var control traycontrols.MenuControl[string]
			if radio {
				control = traycontrols.NewRadio(handle, group.Name, traycontrols.MenuID(group.Default))
			} else {
				control = traycontrols.NewCheckBox(handle, group.Name)
			}

			if err := a.manager.Insert(control); err != nil {
				return fmt.Errorf("group %s: %w", group.Name, err)
			}

			if radio && item.Color != "" {
				c, err := parseColor(item.Color)
				if err != nil {
					return fmt.Errorf("item %s: %w", item.ID, err)
				}

				a.colors[id] = c
			}
		}
	}

	b.Separator()

	quit := b.Item(quitID, a.cfg.QuitLabel)
	if err := a.manager.Insert(traycontrols.NewMenuItem[string](quit)); err != nil {
		return fmt.Errorf("quit: %w", err)
	}

	a.refreshIcon()

	return nil
}

// handleClick is called by the tray toolkit with identifier of the clicked
// item. Checkable items are already toggled.
func (a *app) handleClick(id traycontrols.MenuID) {
	var (
		recolor string
		quit    bool
	)

	err := a.manager.Update(id, func(control traycontrols.MenuControl[string], ok bool) error {
		if !ok {
			return nil
		}

		switch c := control.(type) {
		case traycontrols.CheckMenu[string]:
			switch kind := c.Kind.(type) {
			case traycontrols.Separate[string]:
				a.log.Info("separate check item clicked", zap.String("text", c.Text()))
			case traycontrols.CheckBox[string]:
				a.log.Info("checkbox clicked",
					zap.String("group", kind.Group),
					zap.String("text", c.Text()),
					zap.Bool("checked", kind.Item.IsChecked()),
				)
			case traycontrols.Radio[string]:
				if kind.Default == c.ID() {
					a.log.Debug("default radio clicked", zap.Stringer("id", c.ID()))
				}

				a.log.Info("radio clicked",
					zap.String("group", kind.Group),
					zap.String("text", c.Text()),
				)

				if _, ok := a.colors[c.ID()]; ok {
					recolor = kind.Group
				}
			default:
				return fmt.Errorf("click %s: %w", id, traycontrols.ErrUnknownControl)
			}
		case traycontrols.IconMenuItem[string]:
			a.log.Info("icon item clicked", zap.String("text", c.Text()))
		case traycontrols.MenuItem[string]:
			a.log.Info("item clicked", zap.String("text", c.Text()))
			quit = c.ID() == quitID
		default:
			return fmt.Errorf("click %s: %w", id, traycontrols.ErrUnknownControl)
		}

		return nil
	})
	if err != nil {
		a.log.Error("failed to handle click", zap.Error(err))
	}

	// The selection is read after Update, because toggling the selected radio
	// off restores the default.
	if recolor != "" {
		a.recolor(recolor)
	}

	if quit {
		a.quit()
	}
}

// recolor sets tray icon to the colour of the selected radio of group.
func (a *app) recolor(group string) {
	id, ok := a.manager.Checked(group)
	if !ok {
		return
	}

	if c, ok := a.colors[id]; ok {
		a.log.Debug("tray icon recoloured", zap.Stringer("id", id))
		a.setIcon(c)
	}
}

// refreshIcon sets tray icon to the colour of the first selected coloured
// radio.
func (a *app) refreshIcon() {
	for _, group := range a.cfg.Groups {
		id, ok := a.manager.Checked(group.Name)
		if !ok {
			continue
		}

		if c, ok := a.colors[id]; ok {
			a.setIcon(c)
			return
		}
	}
}
