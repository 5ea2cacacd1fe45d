package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/web"
)

var (
	flagWebAddr        string
	flagAllowedOrigins []string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the snake web server",
	Long: `Start an HTTP server that serves snake to browsers.

Each websocket connection gets its own session. Endpoints:
  /                        - Game page
  /ws                      - Websocket game protocol
  /sessions                - Connected sessions (JSON)
  /sessions/<id>/frame.png - Current board of a session (?width= to scale, ?grid=true for lines)
  /healthz                 - Health check

Examples:
  snake web
  snake web --addr :9000
  snake web --allowed-origin https://games.example.com`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", web.DefaultServerConfig().Address, "HTTP listen address (host:port)")
	webCmd.Flags().StringSliceVar(&flagAllowedOrigins, "allowed-origin", nil, "Extra websocket origins to accept (\"*\" for any)")
}

func runWeb(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	live, err := loadLive(logger)
	if err != nil {
		return err
	}

	ctx, stop := serverContext(cmd)
	defer stop()
	cmd.SetContext(ctx)
	watchConfig(cmd, live, logger)

	server := web.NewServer(web.ServerConfig{
		Address:        flagWebAddr,
		AllowedOrigins: flagAllowedOrigins,
	}, live, logger)

	fmt.Printf("Open http://localhost:%s in a browser\n", portOf(flagWebAddr))
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
