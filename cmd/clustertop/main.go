package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"clustertop/internal/tui"
)

// version is set via -ldflags at build time.
var version = "dev"

const (
	defaultURL     = "http://localhost:8080"
	defaultRefresh = 5
	debugLogFile   = "clustertop.log"
)

type options struct {
	url         string
	refresh     int
	configPath  string
	debug       bool
	showVersion bool
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Println("clustertop " + version)
		return
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "clustertop: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("clustertop", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  clustertop [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.url, "url", "", "cluster API base URL (default: config file, then "+defaultURL+")")
	fs.StringVar(&opts.url, "u", "", "shorthand for -url")
	fs.IntVar(&opts.refresh, "refresh", -1, "auto-refresh interval in seconds, 0 disables (default: config file, then 5)")
	fs.IntVar(&opts.refresh, "r", -1, "shorthand for -refresh")
	fs.StringVar(&opts.configPath, "config", "", "path to config file")
	fs.BoolVar(&opts.debug, "debug", false, "log API requests to "+debugLogFile)
	fs.BoolVar(&opts.debug, "d", false, "shorthand for -debug")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// resolveSettings applies precedence: CLI flag, then config file, then
// built-in default. A refresh of 0 disables the timer; the flag's -1
// sentinel means "not set".
func resolveSettings(opts *options, cfg *tui.Config) (string, int) {
	url := opts.url
	if url == "" {
		url = cfg.URL
	}
	if url == "" {
		url = defaultURL
	}
	refresh := opts.refresh
	if refresh < 0 {
		if cfg.Refresh > 0 {
			refresh = cfg.Refresh
		} else {
			refresh = defaultRefresh
		}
	}
	return url, refresh
}

// setupLogging routes slog to the debug file when enabled, nowhere otherwise.
// The log file is truncated on every start.
func setupLogging(debug bool) {
	if !debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clustertop: open debug log: %v\n", err)
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func run(opts *options) error {
	setupLogging(opts.debug)

	cfgPath, err := tui.EnsureDefaultConfig(opts.configPath)
	if err != nil {
		return err
	}
	cfg, err := tui.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	url, refreshSec := resolveSettings(opts, cfg)

	store := tui.NewTokenStore("")
	worker := tui.NewWorker(tui.NewClient(url), store)

	var refresh time.Duration
	if refreshSec > 0 {
		refresh = time.Duration(refreshSec) * time.Second
	}

	app := tui.NewApp(worker, store, tui.BuildTheme(cfg.Theme), refresh)
	p := tea.NewProgram(app, tea.WithAltScreen())
	worker.SetProgram(p)
	go worker.Run()

	_, runErr := p.Run()

	worker.Shutdown()
	<-worker.Done()

	if runErr != nil {
		return fmt.Errorf("tui: %w", runErr)
	}
	return nil
}
