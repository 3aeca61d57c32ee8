package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/scrapeview/pkg/backend"
	"github.com/go-scripts/scrapeview/pkg/common"
	"github.com/go-scripts/scrapeview/pkg/config"
	"github.com/go-scripts/scrapeview/pkg/controller"
	"github.com/go-scripts/scrapeview/pkg/logging"
	"github.com/go-scripts/scrapeview/pkg/navigate"
)

// CLI flags structure
type CLIFlags struct {
	Config     string `help:"Path to configuration file" default:"scrapeview.toml"`
	Server     string `help:"Backend base URL" short:"s"`
	Locale     string `help:"Locale used to order titles"`
	LogFile    string `help:"Log file path, - for stderr"`
	LogLevel   string `help:"Log level (debug, info, warn, error)"`
	ExportDir  string `help:"Directory exported files are saved to" short:"o"`
	ExportMode string `help:"How exports are fetched (download, browser)"`

	TUI    TUICmd    `cmd:"" default:"1" help:"Browse the dataset interactively."`
	Scrape ScrapeCmd `cmd:"" help:"Scrape a URL and print the first page."`
	List   ListCmd   `cmd:"" help:"Print one page of the dataset."`
	Delete DeleteCmd `cmd:"" help:"Delete a row by its index in the listed order."`
	Clear  ClearCmd  `cmd:"" help:"Clear the whole dataset."`
	Export ExportCmd `cmd:"" help:"Save the dataset as CSV or JSON."`
	Init   InitCmd   `cmd:"" help:"Write the effective configuration to the config file."`
}

// App carries what every command needs
type App struct {
	Config     *common.Configuration
	ConfigPath string
	Log        *log.Logger
	Backend    controller.Backend
	Navigator  navigate.Navigator
	Out        io.Writer
	Err        io.Writer
}

// controller builds a controller reporting to the given sinks
func (a *App) controller(ctx context.Context, n controller.Notifier, l controller.Loader, r controller.Renderer) *controller.Controller {
	return controller.New(ctx, controller.Options{
		Backend:   a.Backend,
		Navigator: a.Navigator,
		Notifier:  n,
		Loader:    l,
		Renderer:  r,
		Logger:    a.Log,
		Locale:    a.Config.Locale,
	})
}

// loadConfig loads the configuration file and applies flag overrides
func loadConfig(flags CLIFlags) (*common.Configuration, error) {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return nil, err
	}

	// Override config with command line flags if provided
	if flags.Server != "" {
		cfg.Server = flags.Server
	}
	if flags.Locale != "" {
		cfg.Locale = flags.Locale
	}
	if flags.LogFile != "" {
		cfg.LogFile = flags.LogFile
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.ExportDir != "" {
		cfg.ExportDir = flags.ExportDir
	}
	if flags.ExportMode != "" {
		cfg.ExportMode = flags.ExportMode
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newNavigator picks how exports are fetched
func newNavigator(cfg *common.Configuration, hc *http.Client) (navigate.Navigator, error) {
	if cfg.ExportMode == common.ExportBrowser {
		return navigate.NewBrowser(cfg.ExportDir)
	}
	return navigate.NewDownloader(cfg.ExportDir, hc)
}

// newApp wires the backend client and export navigator
func newApp(cfg *common.Configuration, logger *log.Logger, out, errOut io.Writer) (*App, error) {
	hc := &http.Client{}
	be, err := backend.NewClient(cfg.Server, hc)
	if err != nil {
		return nil, err
	}
	nav, err := newNavigator(cfg, hc)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:    cfg,
		Log:       logger,
		Backend:   be,
		Navigator: nav,
		Out:       out,
		Err:       errOut,
	}, nil
}

func main() {
	var flags CLIFlags

	// Parse command line flags using kong
	ctx := kong.Parse(&flags,
		kong.Name("scrapeview"),
		kong.Description("Browse, search and export data collected by a scraping backend."),
		kong.UsageOnError(),
	)
	if ctx.Error != nil {
		fmt.Printf("Error parsing flags: %v\n", ctx.Error)
		os.Exit(1)
	}

	config, err := loadConfig(flags)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(logging.Options{File: config.LogFile, Level: config.LogLevel})
	if err != nil {
		fmt.Printf("Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	log.SetDefault(logger)

	app, err := newApp(config, logger, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Printf("Error creating client: %v\n", err)
		os.Exit(1)
	}
	app.ConfigPath = flags.Config

	if err := ctx.Run(app); err != nil {
		logger.Error("Command failed", "command", ctx.Command(), "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
}
