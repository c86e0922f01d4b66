// SnapBasket — snap a photo of your ingredients, get recipes back.
//
// Usage:
//
//	snapbasket [-verbose] [-quiet]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/snapbasket/snapbasket/internal/assets"
	"github.com/snapbasket/snapbasket/internal/capture"
	"github.com/snapbasket/snapbasket/internal/catalog"
	"github.com/snapbasket/snapbasket/internal/config"
	"github.com/snapbasket/snapbasket/internal/connectivity"
	"github.com/snapbasket/snapbasket/internal/conversation"
	"github.com/snapbasket/snapbasket/internal/display"
	"github.com/snapbasket/snapbasket/internal/gateway"
	"github.com/snapbasket/snapbasket/internal/logger"
	"github.com/snapbasket/snapbasket/internal/state"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".snapbasket/logs/snapbasket.log", "file to write logs to (use \"stderr\" to log to console)")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Third-party libraries that use the default log package share the
	// same output so they don't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	store := state.NewFileStore(cfg.State.File, log)
	basket := state.LoadBasket(store)
	favorites := state.LoadFavorites(store)
	recipes := catalog.NewEmbedded(log)
	client := gateway.NewClient(cfg.Backend.DetectURL, cfg.Backend.RecommendURL(), log)
	monitor := connectivity.NewMonitor(cfg.Backend.BaseURL, log,
		connectivity.WithProbeInterval(cfg.Backend.ProbeInterval))
	camera := capture.NewCameraSource(cfg.Camera.Device, cfg.Camera.Width, cfg.Camera.Height, log)
	staticCache := assets.NewCache(cfg.Backend.BaseURL, cfg.Cache.Dir, cfg.Cache.Generation, cfg.Cache.Essentials, log)
	parser := conversation.NewKeywordParser(log)

	app := &cliApp{
		cfg:       cfg,
		service:   client,
		catalog:   recipes,
		basket:    basket,
		favorites: favorites,
		monitor:   monitor,
		camera:    camera,
		parser:    parser,
		cache:     staticCache,
		log:       log,
	}

	ui := display.NewUI(app)
	app.ui = ui
	app.notifier = conversation.NewToastNotifier(log, ui.Printf)

	go monitor.Run(ctx)

	// Warm the static cache in the background; offline launches just run
	// on whatever a previous generation left behind.
	go func() {
		staticCache.Install(ctx)
		if err := staticCache.Activate(); err != nil {
			log.Warn("assets: %v", err)
		}
	}()

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'snap' to photograph your ingredients, 'help' for commands."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	app.shutdown()
}
