package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var flagScreenshotDir string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play snake in this terminal",
	Long: `Start a game of snake in this terminal.

Controls:
  Enter/N      - Start
  X/Esc        - Stop (Enter acknowledges game over)
  P/Space      - Pause/Resume
  Arrows/WASD  - Steer
  Ctrl+S       - Save a PNG screenshot
  Q/Ctrl+C     - Quit

Config changes on disk apply at the next start.

Examples:
  snake play
  snake play --config ./my-snake.yaml
  snake play --log-file /tmp/snake.log --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagScreenshotDir, "screenshots", "", "Screenshot directory (default: ~/.snake/screenshots)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	// Logs would draw over the game, so they go nowhere unless --log-file is set.
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	live, err := loadLive(logger)
	if err != nil {
		return err
	}

	// Ctrl+C reaches the game as a key press; SIGTERM ends it from outside.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)
	watchConfig(cmd, live, logger)

	// Get terminal size early so the first frame fits
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	return tui.Run(ctx, tui.Options{
		Live:          live,
		Logger:        logger,
		ScreenshotDir: flagScreenshotDir,
		Width:         width,
		Height:        height,
	})
}

// serverContext ends on SIGINT or SIGTERM.
func serverContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
