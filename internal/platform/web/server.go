// Package web serves the snake game to browsers: a gin router with a static
// client page, one websocket per player session, a session listing and PNG
// frames of running boards.
package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/render"
)

//go:embed static/index.html
var indexHTML []byte

// maxFrameWidth caps the width query of the frame endpoint.
const maxFrameWidth = 2000

// ServerConfig holds configuration for the web server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// AllowedOrigins lists extra Origin values accepted on /ws. Same-origin
	// requests are always accepted; "*" accepts everything.
	AllowedOrigins []string
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address: ":8080",
	}
}

// Server serves one session per websocket connection.
type Server struct {
	config   ServerConfig
	live     *config.Live
	logger   *log.Logger
	players  *registry
	upgrader websocket.Upgrader
	router   *gin.Engine

	// ctx ends every player connection on shutdown.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates the router. All players share live.
func NewServer(cfg ServerConfig, live *config.Live, logger *log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:  cfg,
		live:    live,
		logger:  logger,
		players: newRegistry(),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	router.GET("/", s.handleIndex)
	router.GET("/ws", s.handleWebsocket)
	router.GET("/sessions", s.handleSessions)
	router.GET("/sessions/:id/frame.png", s.handleFrame)
	router.GET("/healthz", s.handleHealth)
	s.router = router

	return s
}

// Handler returns the HTTP handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting web server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.cancel()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Close ends all player connections.
func (s *Server) Close() {
	s.cancel()
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.players.Count(),
	})
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Warn("websocket upgrade failed", "remote", c.Request.RemoteAddr, "error", err)
		return
	}

	p, err := newPlayer(conn, s.live, s.logger)
	if err != nil {
		s.logger.Error("cannot create session", "error", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session unavailable"))
		_ = conn.Close()
		return
	}

	s.players.Register(p)
	s.logger.Info("session started", "session", p.id, "remote", p.remote)
	defer func() {
		s.players.Unregister(p.id)
		s.logger.Info("session ended", "session", p.id, "remote", p.remote)
	}()

	p.run(s.ctx)
}

func (s *Server) handleSessions(c *gin.Context) {
	infos := make([]SessionInfo, 0, s.players.Count())
	for _, p := range s.players.List() {
		if info, ok := p.info(); ok {
			infos = append(infos, info)
		}
	}
	c.JSON(http.StatusOK, infos)
}

// handleFrame renders the board of a session as PNG. ?width= scales it and
// ?grid=true draws the cell grid.
func (s *Server) handleFrame(c *gin.Context) {
	p, ok := s.players.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var opts render.FrameOptions
	if raw := c.Query("width"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid width %q", raw)})
			return
		}
		opts.Width = core.Clamp(w, 0, maxFrameWidth)
	}
	if raw := c.Query("grid"); raw != "" {
		grid, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid grid %q", raw)})
			return
		}
		opts.GridLines = grid
	}

	snap, pal, ok := p.snapshot()
	if !ok {
		c.JSON(http.StatusGone, gin.H{"error": "session closed"})
		return
	}

	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := render.EncodePNG(c.Writer, render.Frame(snap, pal, opts)); err != nil {
		s.logger.Warn("frame encode failed", "session", p.id, "error", err)
	}
}

// checkOrigin accepts same-origin requests and configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // Not a browser
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// requestLogger logs every request at debug level.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
