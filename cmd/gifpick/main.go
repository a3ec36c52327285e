package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/gifpick/internal/config"
	"github.com/nikbrunner/gifpick/internal/fetch"
	"github.com/nikbrunner/gifpick/internal/giphy"
	"github.com/nikbrunner/gifpick/internal/logger"
	"github.com/nikbrunner/gifpick/internal/model"
	"github.com/nikbrunner/gifpick/internal/route"
	"github.com/nikbrunner/gifpick/internal/tui"
)

var (
	configPath string
	logLevel   string
	logFile    string
	location   string

	cfg       config.Config
	log       = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "gifpick [query...]",
	Short: "Search GIPHY from the terminal and copy GIF links",
	Long: `gifpick - GIF Picker 3000 for the terminal

Usage:
  gifpick                     Open the picker with recommended GIFs
  gifpick <query>             Open the picker searching for <query>
  gifpick search <query>      Quick search → select → copy URL
  gifpick export <query> [p]  Write an HTML gallery of the first page

The GIPHY API key is read from GIPHY_API_KEY or api_key in
~/.config/gifpick/config.toml.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default ~/.config/gifpick/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Write logs to this file")
	rootCmd.Flags().StringVar(&location, "location", "",
		`Start at a location such as "/?search=cats" or "/search/cats"`)

	rootCmd.AddCommand(searchCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and opens the log file. Flags override the file.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	l, closer, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	log, logCloser = l, closer
	log.Debug().Str("command", cmd.Name()).Msg("starting")
	return nil
}

// newClient builds the GIPHY client from the loaded config.
func newClient() (*giphy.Client, error) {
	return giphy.NewClient(giphy.ClientParams{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Rating:   cfg.Rating,
		Lang:     cfg.Lang,
		RandomID: model.NewSessionID(),
		Timeout:  cfg.RequestTimeout,
		Logger:   &log,
	})
}

func fetchOptions() fetch.Options {
	return fetch.Options{
		PageSize:         cfg.PageSize,
		RecommendedCount: cfg.RecommendedCount,
		Debounce:         cfg.Debounce,
		Logger:           &log,
	}
}

// runTUI runs the full interactive picker.
func runTUI(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	start := location
	if query := strings.TrimSpace(strings.Join(args, " ")); query != "" {
		start = route.Location(query)
	}
	router := route.NewRouter(start)
	router.OnChange(func(loc string) {
		log.Debug().Str("location", loc).Msg("location changed")
	})

	app := tui.NewApp(tui.AppParams{
		Source:  client,
		Options: fetchOptions(),
		Router:  router,
		Logger:  &log,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}

	// Print the last location so the session can be resumed with --location.
	fmt.Println(router.Location())
	return nil
}
