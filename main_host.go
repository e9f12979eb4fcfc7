//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"sparkcalc/app"
	"sparkcalc/hal"
	"sparkcalc/internal/buildinfo"
	"sparkcalc/internal/config"
	"sparkcalc/sparkos/tasks/calculator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		headless   bool
		hz         int
		ticks      uint64
		keys       string
		configPath string
		scale      int
		version    bool
	)
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.IntVar(&hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&keys, "keys", "", "Type these keys at startup in headless mode ('<' is backspace, '~' is escape).")
	flag.StringVar(&configPath, "config", "", "Config file (default "+config.DefaultPath+" if present).")
	flag.IntVar(&scale, "scale", 2, "Window scale factor.")
	flag.BoolVar(&version, "version", false, "Print version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return nil
	}

	fs := afero.NewOsFs()
	var (
		cfg   config.Config
		found bool
		err   error
	)
	if configPath != "" {
		cfg, err = config.Load(fs, configPath)
		found = true
	} else {
		configPath = config.DefaultPath
		cfg, found, err = config.LoadOptional(fs, configPath)
	}
	if err != nil {
		return err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["hz"] || !found {
		cfg.Headless.Hz = hz
	}
	if set["scale"] || !found {
		cfg.Window.Scale = scale
	}

	appCfg := app.Config{AllowExit: true, SessionID: uuid.NewString()}
	if !cfg.Theme.IsZero() {
		th, err := cfg.Theme.Resolve(calculator.DefaultTheme())
		if err != nil {
			return err
		}
		appCfg.Theme = th
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sys atomic.Pointer[app.System]
	newApp := func(h hal.HAL) func() error {
		s := app.NewWithConfig(h, appCfg)
		sys.Store(s)
		return s.Step
	}

	if found {
		w := config.NewWatcher(fs, configPath)
		w.OnChange = func(c config.Config) {
			th, err := c.Theme.Resolve(calculator.DefaultTheme())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}
			if s := sys.Load(); s != nil {
				s.SetTheme(th)
			}
		}
		w.OnError = func(err error) { fmt.Fprintln(os.Stderr, err) }
		go func() {
			if err := w.Run(ctx); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}()
	}

	if headless {
		hcfg := hal.HeadlessConfig{Hz: cfg.Headless.Hz, Ticks: ticks, Keys: keys}
		if keys == "" {
			hcfg.Stdin = os.Stdin
		}
		err := hal.RunHeadless(ctx, newApp, hcfg)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	return hal.RunWindow(newApp, hal.WindowConfig{Title: cfg.Window.Title, Scale: cfg.Window.Scale})
}
