// Package web serves the game to browsers over a websocket. Every connection
// gets its own game driven by loop.Run; the browser sends key up/down events
// and receives JSON snapshots to draw.
package web

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Neruelin/astroids/internal/game"
	"github.com/Neruelin/astroids/internal/loop"
	"github.com/Neruelin/astroids/internal/loop/config"
	"github.com/Neruelin/astroids/internal/loop/server"
)

// Message types.
const (
	MessageKeyDown  = "keydown"
	MessageKeyUp    = "keyup"
	MessageFrame    = "frame"
	MessageOver     = "over"
	MessageShutdown = "shutdown"
)

// ClientMessage is a key event from the browser. Key is a DOM keyCode.
type ClientMessage struct {
	Type string `json:"type"`
	Key  int    `json:"key"`
}

// ServerMessage is sent to the browser once per frame.
type ServerMessage struct {
	Type      string         `json:"type"`
	Frame     *game.Snapshot `json:"frame,omitempty"`
	Remaining float64        `json:"remaining,omitempty"` // Seconds until a shutdown disconnect
}

// Options configures a Handler.
type Options struct {
	Config          game.Config
	Seed            func() uint64 // Seed for each new game
	FPS             int
	IdleTimeout     time.Duration
	ShutdownDisplay time.Duration
	Registry        *server.Registry
	Logger          *log.Logger
	CheckOrigin     func(r *http.Request) bool
}

// Handler upgrades requests to websockets and runs one game per connection.
type Handler struct {
	upgrader websocket.Upgrader
	opts     Options
	logger   *log.Logger
}

// NewHandler creates a websocket game handler.
func NewHandler(opts Options) *Handler {
	if opts.Seed == nil {
		opts.Seed = func() uint64 { return uint64(time.Now().UnixNano()) }
	}
	if opts.Registry == nil {
		opts.Registry = server.NewRegistry(config.MaxSessions, opts.Logger)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		opts:   opts,
		logger: logger.WithPrefix("web"),
	}
}

// ServeHTTP runs a game session for the lifetime of the websocket.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, err := h.opts.Registry.Register("web", r.RemoteAddr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer h.opts.Registry.Unregister(sess)

	g, err := game.New(h.opts.Config, h.opts.Seed())
	if err != nil {
		h.logger.Error("could not create game", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	keys := &keyBuffer{}
	go h.readLoop(conn, keys)

	out := &renderer{conn: conn}
	res, err := loop.Run(r.Context(), g, keys, out, loop.Options{
		FPS:             h.opts.FPS,
		IdleTimeout:     h.opts.IdleTimeout,
		Shutdown:        sess.ShutdownNotice(),
		ShutdownDisplay: h.opts.ShutdownDisplay,
		Logger:          h.logger,
	})
	if err != nil && !isClosed(err) {
		h.logger.Warn("session failed", "id", sess.ID, "error", err)
	}
	h.logger.Info("game finished", "id", sess.ID, "reason", res.Reason, "score", res.Snapshot.Score, "time", res.Snapshot.Time)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, res.Reason.String())
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(config.WriteWait))
}

// readLoop applies key events until the connection fails, then closes keys.
func (h *Handler) readLoop(conn *websocket.Conn, keys *keyBuffer) {
	defer keys.close()

	conn.SetReadLimit(config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(config.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(config.PongWait))
	})

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		if err := keys.apply(msg); err != nil {
			h.logger.Debug("ignoring message", "error", err)
		}
	}
}

func isClosed(err error) bool {
	return errors.Is(err, websocket.ErrCloseSent) || websocket.IsCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}

// renderer writes frames to the socket. It is only used from the loop goroutine.
type renderer struct {
	conn     *websocket.Conn
	lastPing time.Time
	overSent bool
}

func (r *renderer) Render(s *game.Snapshot) error {
	return r.send(ServerMessage{Type: MessageFrame, Frame: s})
}

// GameOver sends the final frame once; later calls only keep the connection alive.
func (r *renderer) GameOver(s *game.Snapshot) error {
	if r.overSent {
		return r.ping()
	}
	r.overSent = true
	return r.send(ServerMessage{Type: MessageOver, Frame: s})
}

func (r *renderer) Shutdown(_ *game.Snapshot, remaining time.Duration) error {
	return r.send(ServerMessage{Type: MessageShutdown, Remaining: remaining.Seconds()})
}

func (r *renderer) send(msg ServerMessage) error {
	if err := r.ping(); err != nil {
		return err
	}
	r.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
	return r.conn.WriteJSON(msg)
}

func (r *renderer) ping() error {
	if time.Since(r.lastPing) < config.PingPeriod {
		return nil
	}
	r.lastPing = time.Now()
	return r.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(config.WriteWait))
}

// keyBuffer holds the browser's key state between frames. Browsers send real
// key-up events, so no hold window is needed.
type keyBuffer struct {
	mu     sync.Mutex
	keys   game.Keys
	closed bool
}

var errUnknownMessage = errors.New("unknown message type")

func (b *keyBuffer) apply(msg ClientMessage) error {
	code, ok := keyFromDOM(msg.Key)
	if !ok {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	switch msg.Type {
	case MessageKeyDown:
		b.keys.Press(code)
	case MessageKeyUp:
		b.keys.Release(code)
	default:
		return errUnknownMessage
	}
	return nil
}

func (b *keyBuffer) close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

// Poll implements loop.InputSource.
func (b *keyBuffer) Poll(k *game.Keys) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	*k = b.keys
	return !b.closed
}

// keyFromDOM maps a DOM keyCode to the ASCII code the game binds. Letters fold
// to lower case and arrows map to the movement letters.
func keyFromDOM(code int) (byte, bool) {
	switch {
	case code >= 'A' && code <= 'Z':
		return byte(code) + ('a' - 'A'), true
	case code == 37:
		return 'a', true
	case code == 38:
		return 'w', true
	case code == 39:
		return 'd', true
	case code == 40:
		return 's', true
	case code >= 0 && code < game.KeyCount:
		return byte(code), true
	}
	return 0, false
}
