// Command traydemo shows a tray icon with radio groups, checkboxes, and a
// quit item. Selecting a colour recolours the icon.
//
// The menu is read from a configuration file, see --dump for the format.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golift.io/version"
)

const defaultConfigFile = "~/.config/traydemo/traydemo.conf"

// flags are command line arguments of the application.
type flags struct {
	ConfigFile string
	EnvPrefix  string
	Dump       string
	Debug      bool
	verReq     bool
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}

	fs := flag.NewFlagSet("traydemo", flag.ContinueOnError)
	fs.StringVarP(&f.ConfigFile, "config", "c", defaultConfigFile, "Config file (TOML, YAML, XML, or JSON)")
	fs.StringVarP(&f.EnvPrefix, "prefix", "p", defaultEnvPrefix, "Environment variable prefix")
	fs.StringVar(&f.Dump, "dump", "", "Print the default config in the given format (toml or yaml) and exit")
	fs.BoolVarP(&f.Debug, "debug", "d", false, "Enable debug logging")
	fs.BoolVarP(&f.verReq, "version", "v", false, "Print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing config file is only an error if it was requested explicitly.
	if !fs.Changed("config") && !exists(f.ConfigFile) {
		f.ConfigFile = ""
	}

	return f, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "traydemo:", err)
		os.Exit(1)
	}
}

func run() error {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	if f.verReq {
		fmt.Println(version.Print("traydemo"))
		return nil
	}

	if f.Dump != "" {
		return defaultConfig().dump(os.Stdout, f.Dump)
	}

	cfg, err := loadConfig(f.ConfigFile, f.EnvPrefix)
	if err != nil {
		return err
	}

	cfg.Debug = cfg.Debug || f.Debug

	log, logFile, err := newLogger(cfg)
	if err != nil {
		return err
	}

	defer logFile.Close()
	defer log.Sync() //nolint:errcheck

	log.Info("starting",
		zap.String("version", version.Version),
		zap.Int("pid", os.Getpid()),
		zap.String("config", f.ConfigFile),
	)

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, cfg.MetricsAddr, newMetricsHandler(a.manager), log)
		})
	}

	// Some toolkits must run on the main goroutine.
	trayErr := runTray(ctx, a)
	stop()

	if err := g.Wait(); err != nil {
		return err
	}

	return trayErr
}
