// snake is a terminal snake game with optional SSH and browser front ends.
//
// Usage:
//
//	snake play     - Play in this terminal
//	snake serve    - Start SSH server for remote play
//	snake web      - Start HTTP/websocket server for browser play
//	snake config   - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Game config YAML (default: ~/.snake/config.yaml, then ./configs/snake.yaml)
//	--log-level <level> - debug, info, warn or error (default: info)
//	--log-file <path>   - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal",
	Long: `Snake is a terminal snake game. Play it locally, host it over SSH,
or serve it to browsers over websockets.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  web      - Start web server for browser play
  config   - Print the effective configuration

Examples:
  snake play
  snake play --config ./my-snake.yaml
  snake serve --ssh :2222
  snake web --addr :8080`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger. fallback is used when no --log-file
// is given. The returned close func must be called on exit.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w := fallback
	closeFn := func() {}
	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake",
		Level:           level,
	})
	return logger, closeFn, nil
}

// loadLive loads the config and wraps it for hot reload.
func loadLive(logger *log.Logger) (*config.Live, error) {
	cfg, path, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.Info("using built-in config")
	} else {
		logger.Info("loaded config", "path", path)
	}
	return config.NewLive(cfg, path), nil
}

// watchConfig reloads the config file in the background until the command
// context ends.
func watchConfig(cmd *cobra.Command, live *config.Live, logger *log.Logger) {
	if live.Path() == "" {
		logger.Debug("config hot reload off: built-in defaults in use")
		return
	}
	logger.Debug("watching config", "path", live.Path())
	go func() {
		if err := live.Watch(cmd.Context(), logger); err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		}
	}()
}
