// Package hub fans simulated payloads out to browser clients over websockets
// and forwards the commands those clients send back.
package hub

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"ai-transcript-simulator/internal/models"
	"ai-transcript-simulator/internal/observability/logging"
	"ai-transcript-simulator/internal/observability/metrics"
	"ai-transcript-simulator/internal/schema"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local UI development
	},
}

// CommandHandler receives commands decoded from client frames. It is called
// on the client's read goroutine and must not block.
type CommandHandler func(sessionID int64, cmd models.Command)

// ReplayFunc returns the finals to replay to a client as it connects.
type ReplayFunc func() []models.Transcription

// Option is a functional option for a Hub.
type Option func(*Hub)

// WithCommandHandler sets the handler for inbound commands.
func WithCommandHandler(fn CommandHandler) Option {
	return func(h *Hub) {
		h.onCommand = fn
	}
}

// WithReplay sets the source of finals replayed on connect.
func WithReplay(fn ReplayFunc) Option {
	return func(h *Hub) {
		h.replay = fn
	}
}

type client struct {
	conn *websocket.Conn
	id   int64
}

// Hub manages websocket connections. Run owns the client set and all writes;
// other methods talk to it over channels.
type Hub struct {
	clients    map[*websocket.Conn]int64
	broadcast  chan models.Payload
	register   chan client
	unregister chan *websocket.Conn
	done       chan struct{}
	count      atomic.Int64
	sessions   atomic.Int64

	onCommand CommandHandler
	replay    ReplayFunc
	validator *schema.Validator
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// New creates a Hub. A nil m uses metrics.DefaultMetrics.
func New(m *metrics.Metrics, opts ...Option) *Hub {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	h := &Hub{
		clients:    make(map[*websocket.Conn]int64),
		broadcast:  make(chan models.Payload, 100),
		register:   make(chan client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		validator:  schema.New(),
		metrics:    m,
		log:        logging.WithComponent("hub"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Run serves register, unregister and broadcast requests until ctx is done,
// then closes every client. Call it once.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for conn := range h.clients {
			h.drop(conn)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c.conn] = c.id
			h.setCount()
			h.log.Info().Int64("sessionId", c.id).Int("clients", len(h.clients)).Msg("Client connected")
			h.greet(c)

		case conn := <-h.unregister:
			if id, ok := h.clients[conn]; ok {
				h.drop(conn)
				h.log.Info().Int64("sessionId", id).Int("clients", len(h.clients)).Msg("Client disconnected")
			}

		case p := <-h.broadcast:
			if len(h.clients) == 0 {
				continue
			}
			for conn := range h.clients {
				if err := h.write(conn, p); err != nil {
					h.log.Warn().Err(err).Msg("Websocket write failed, dropping client")
					h.drop(conn)
				}
			}
			h.metrics.RecordBroadcast(p.Kind().String())
		}
	}
}

// greet sends the finals so far, if any, then the session id.
func (h *Hub) greet(c client) {
	var hello []models.Payload
	if h.replay != nil {
		if finals := h.replay(); len(finals) > 0 {
			hello = append(hello, models.NewTranscriptions(finals))
		}
	}
	hello = append(hello, models.NewSessionID(c.id))

	for _, p := range hello {
		if err := h.write(c.conn, p); err != nil {
			h.log.Warn().Err(err).Int64("sessionId", c.id).Msg("Greeting failed, dropping client")
			h.drop(c.conn)
			return
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, p models.Payload) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(p); err != nil {
		h.metrics.HubWriteFailures.Inc()
		return err
	}
	return nil
}

func (h *Hub) drop(conn *websocket.Conn) {
	delete(h.clients, conn)
	conn.Close()
	h.setCount()
}

func (h *Hub) setCount() {
	h.count.Store(int64(len(h.clients)))
	h.metrics.HubClients.Set(float64(len(h.clients)))
}

// Broadcast queues a payload for every connected client. Invalid payloads are
// rejected; a full queue drops the payload rather than stalling the emitter.
func (h *Hub) Broadcast(p models.Payload) error {
	if err := h.validator.Validate(p); err != nil {
		h.metrics.RecordRejected("hub")
		return err
	}
	select {
	case h.broadcast <- p:
	default:
		h.log.Warn().Str("kind", p.Kind().String()).Msg("Broadcast queue full, dropping payload")
	}
	return nil
}

// ServeHTTP upgrades the request to a websocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}

	c := client{conn: conn, id: h.sessions.Add(1)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go h.readLoop(c)
}

// readLoop decodes command frames until the client goes away.
func (h *Hub) readLoop(c client) {
	defer func() {
		select {
		case h.unregister <- c.conn:
		case <-h.done:
		}
	}()

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		action, err := models.ParseAction(data)
		if err != nil {
			h.metrics.RecordCommand("invalid")
			h.log.Warn().Err(err).Int64("sessionId", c.id).Msg("Ignoring malformed command")
			continue
		}

		name := action.Command.Kind.String()
		h.metrics.RecordCommand(name)
		h.log.Debug().Int64("sessionId", c.id).Str("command", name).Msg("Command received")
		if h.onCommand != nil {
			h.onCommand(c.id, action.Command)
		}
	}
}
