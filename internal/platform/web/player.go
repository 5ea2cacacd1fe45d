package web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// Connection tuning
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	outboxSize     = 64
)

// player is one websocket connection and the session it plays. All session
// access goes through loop; the socket has one reader and one writer
// goroutine.
type player struct {
	id        string
	remote    string
	connected time.Time

	conn   *websocket.Conn
	loop   *session.Loop
	sess   *session.Session
	out    *outbox
	logger *log.Logger
}

func newPlayer(conn *websocket.Conn, live *config.Live, logger *log.Logger) (*player, error) {
	p := &player{
		id:        uuid.NewString(),
		remote:    conn.RemoteAddr().String(),
		connected: time.Now(),
		conn:      conn,
		loop:      session.NewLoop(outboxSize),
		out:       newOutbox(outboxSize),
	}
	p.logger = logger.With("session", p.id)

	sess, err := session.New(live.Settings(),
		session.WithScheduler(p.loop),
		session.WithListener(p.onEvent),
		session.WithLogger(p.logger),
		session.WithSettingsSource(live.Settings),
	)
	if err != nil {
		return nil, err
	}
	p.sess = sess
	return p, nil
}

// run serves the connection until the client leaves or ctx is done.
func (p *player) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go p.loop.Run(ctx)
	go p.writePump()
	go func() {
		<-ctx.Done()
		p.out.Close() // Server shutdown: the writer says goodbye
	}()

	p.loop.Do(func() {
		p.out.Send(ServerMessage{Type: TypeHello, Session: p.id, Frame: p.frame()})
	})

	p.readPump()

	p.loop.Call(func() {
		if p.sess.State() != session.StateIdle {
			_ = p.sess.Stop()
		}
	})
	p.out.Close()
}

// onEvent forwards session events to the browser. Runs on the loop.
func (p *player) onEvent(evt session.Event) {
	p.out.Send(ServerMessage{Type: evt.Kind.String(), Frame: p.frame()})
}

// frame must run on the loop.
func (p *player) frame() *Frame {
	f := newFrame(p.sess.Snapshot(), p.sess.Settings().Palette)
	f.Steering = p.sess.Listening()
	return f
}

// readPump turns client messages into session commands.
func (p *player) readPump() {
	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.logger.Warn("connection lost", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			p.out.Send(ServerMessage{Type: TypeError, Error: "malformed message"})
			continue
		}
		action, err := core.ParseAction(msg.Action)
		if err != nil {
			p.out.Send(ServerMessage{Type: TypeError, Error: err.Error()})
			continue
		}
		if action == core.ActionQuit {
			return
		}

		p.loop.Do(func() {
			if err := p.sess.Handle(action); err != nil {
				p.logger.Debug("command rejected", "action", action, "error", err)
				p.out.Send(ServerMessage{Type: TypeError, Error: err.Error(), Frame: p.frame()})
			}
		})
	}
}

// writePump is the only goroutine writing to the socket.
func (p *player) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()

	for {
		select {
		case msg := <-p.out.Messages():
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-p.out.Done():
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// snapshot reads the session from outside the loop.
func (p *player) snapshot() (session.Snapshot, session.Palette, bool) {
	var (
		snap session.Snapshot
		pal  session.Palette
	)
	ok := p.loop.Call(func() {
		snap = p.sess.Snapshot()
		pal = p.sess.Settings().Palette
	})
	return snap, pal, ok
}

func (p *player) info() (SessionInfo, bool) {
	snap, _, ok := p.snapshot()
	if !ok {
		return SessionInfo{}, false
	}
	return SessionInfo{
		ID:        p.id,
		State:     snap.State.String(),
		Length:    snap.Length,
		Remote:    p.remote,
		Connected: p.connected.UTC().Format(time.RFC3339),
	}, true
}
