package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"
	"golift.io/cnfg"
	"golift.io/cnfgfile"
	"gopkg.in/yaml.v3"

	"github.com/shelepuginivan/traycontrols"
)

const (
	defaultTitle     = "Tray Controls"
	defaultLogFiles  = 5
	defaultLogFileMb = 10
	defaultEnvPrefix = "TRAY"

	// Identifier of the quit item.
	quitID traycontrols.MenuID = "quit"
)

// Kinds of menu groups.
const (
	kindRadio    = "radio"
	kindCheckBox = "checkbox"
)

var (
	ErrNoGroupName     = errors.New("group has no name")
	ErrDuplicateGroup  = errors.New("duplicate group name")
	ErrInvalidKind     = errors.New("invalid group kind")
	ErrNoItemID        = errors.New("item has no id")
	ErrDuplicateItem   = errors.New("duplicate item id")
	ErrInvalidDefault  = errors.New("default is not an item of the group")
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidPolicy   = errors.New("invalid policy")
	ErrInvalidDumpType = errors.New("invalid dump format")
)

// Config is the configuration of the demo application. It is read from a
// TOML, YAML, XML, or JSON file, then overridden with environment variables.
type Config struct {
	Title       string   `json:"title" toml:"title" xml:"title" yaml:"title"`
	QuitLabel   string   `json:"quitLabel" toml:"quit_label" xml:"quit_label" yaml:"quitLabel"`
	Debug       bool     `json:"debug" toml:"debug" xml:"debug" yaml:"debug"`
	LogFile     string   `json:"logFile" toml:"log_file" xml:"log_file" yaml:"logFile"`
	LogFiles    int      `json:"logFiles" toml:"log_files" xml:"log_files" yaml:"logFiles"`
	LogFileMb   int      `json:"logFileMb" toml:"log_file_mb" xml:"log_file_mb" yaml:"logFileMb"`
	MetricsAddr string   `json:"metricsAddr" toml:"metrics_addr" xml:"metrics_addr" yaml:"metricsAddr"`
	Duplicates  string   `json:"duplicates" toml:"duplicates" xml:"duplicates" yaml:"duplicates"`
	Defaults    string   `json:"defaults" toml:"defaults" xml:"defaults" yaml:"defaults"`
	Groups      []*Group `json:"groups" toml:"groups" xml:"group" yaml:"groups"`
}

// Group is a submenu of checkable items that share a group key.
type Group struct {
	Name    string  `json:"name" toml:"name" xml:"name" yaml:"name"`
	Label   string  `json:"label" toml:"label" xml:"label" yaml:"label"`
	Kind    string  `json:"kind" toml:"kind" xml:"kind" yaml:"kind"`
	Default string  `json:"default" toml:"default" xml:"default" yaml:"default"`
	Items   []*Item `json:"items" toml:"items" xml:"item" yaml:"items"`
}

// Item is a checkable menu item. Checking a radio item with Color recolours
// the tray icon.
type Item struct {
	ID    string `json:"id" toml:"id" xml:"id" yaml:"id"`
	Label string `json:"label" toml:"label" xml:"label" yaml:"label"`
	Color string `json:"color,omitempty" toml:"color,omitempty" xml:"color,omitempty" yaml:"color,omitempty"`
}

// defaultConfig returns configuration that reproduces the classic demo menu.
func defaultConfig() *Config {
	return &Config{
		Title:      defaultTitle,
		QuitLabel:  "Quit",
		LogFiles:   defaultLogFiles,
		LogFileMb:  defaultLogFileMb,
		Duplicates: traycontrols.DuplicateOverwrite.String(),
		Defaults:   traycontrols.DefaultFirstWins.String(),
		Groups: []*Group{
			{
				Name:    "color",
				Label:   "Color",
				Kind:    kindRadio,
				Default: "red",
				Items: []*Item{
					{ID: "red", Label: "Red", Color: "#ff0000"},
					{ID: "green", Label: "Green", Color: "#00ff00"},
					{ID: "blue", Label: "Blue", Color: "#0000ff"},
				},
			},
			{
				Name:    "language",
				Label:   "Language",
				Kind:    kindRadio,
				Default: "english",
				Items: []*Item{
					{ID: "english", Label: "English"},
					{ID: "chinese", Label: "Chinese"},
					{ID: "japanese", Label: "Japanese"},
				},
			},
			{
				Name:  "change",
				Label: "Change",
				Kind:  kindCheckBox,
				Items: []*Item{
					{ID: "added", Label: "Added"},
					{ID: "removed", Label: "Removed"},
					{ID: "connected", Label: "Connected"},
					{ID: "disconnected", Label: "Disconnected"},
				},
			},
		},
	}
}

// loadConfig reads configuration file, if path is not empty, and applies
// environment variables with prefix.
func loadConfig(path, prefix string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		file, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}

		// Groups from the file replace the default menu instead of being
		// merged into it.
		cfg.Groups = nil

		if err := cnfgfile.Unmarshal(cfg, file); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}

	if _, err := cnfg.UnmarshalENV(cfg, prefix); err != nil {
		return nil, fmt.Errorf("environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that groups and items are well formed.
func (c *Config) Validate() error {
	if _, err := c.duplicatePolicy(); err != nil {
		return err
	}

	if _, err := c.defaultPolicy(); err != nil {
		return err
	}

	groups := make(map[string]struct{})
	items := map[string]struct{}{string(quitID): {}}

	for idx, group := range c.Groups {
		if group.Name == "" {
			return fmt.Errorf("group %d: %w", idx, ErrNoGroupName)
		}

		if _, ok := groups[group.Name]; ok {
			return fmt.Errorf("group %s: %w", group.Name, ErrDuplicateGroup)
		}

		groups[group.Name] = struct{}{}

		if group.Kind != kindRadio && group.Kind != kindCheckBox {
			return fmt.Errorf("group %s: %w: %q", group.Name, ErrInvalidKind, group.Kind)
		}

		hasDefault := group.Default == ""

		for _, item := range group.Items {
			if item.ID == "" {
				return fmt.Errorf("group %s: %w", group.Name, ErrNoItemID)
			}

			if _, ok := items[item.ID]; ok {
				return fmt.Errorf("group %s: %w: %s", group.Name, ErrDuplicateItem, item.ID)
			}

			items[item.ID] = struct{}{}

			if item.Color != "" {
				if _, err := parseColor(item.Color); err != nil {
					return fmt.Errorf("item %s: %w", item.ID, err)
				}
			}

			if item.ID == group.Default {
				hasDefault = true
			}
		}

		if !hasDefault || (group.Kind == kindCheckBox && group.Default != "") {
			return fmt.Errorf("group %s: %w: %s", group.Name, ErrInvalidDefault, group.Default)
		}
	}

	return nil
}

func (c *Config) duplicatePolicy() (traycontrols.DuplicatePolicy, error) {
	switch c.Duplicates {
	case "", traycontrols.DuplicateOverwrite.String():
		return traycontrols.DuplicateOverwrite, nil
	case traycontrols.DuplicateReject.String():
		return traycontrols.DuplicateReject, nil
	default:
		return 0, fmt.Errorf("duplicates: %w: %q", ErrInvalidPolicy, c.Duplicates)
	}
}

func (c *Config) defaultPolicy() (traycontrols.DefaultPolicy, error) {
	switch c.Defaults {
	case "", traycontrols.DefaultFirstWins.String():
		return traycontrols.DefaultFirstWins, nil
	case traycontrols.DefaultLastWins.String():
		return traycontrols.DefaultLastWins, nil
	default:
		return 0, fmt.Errorf("defaults: %w: %q", ErrInvalidPolicy, c.Defaults)
	}
}

// dump writes c to w in the given format.
func (c *Config) dump(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "toml":
		return toml.NewEncoder(w).Encode(c)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(c); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDumpType, format)
	}
}

// parseColor parses color in #rrggbb or #rrggbbaa format.
func parseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}

	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return color.NRGBA{
		R: uint8(value >> 24),
		G: uint8(value >> 16),
		B: uint8(value >> 8),
		A: uint8(value),
	}, nil
}

// exists reports whether file at path exists.
func exists(path string) bool {
	file, err := homedir.Expand(path)
	if err != nil {
		return false
	}

	_, err = os.Stat(file)
	return err == nil
}
