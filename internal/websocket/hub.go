package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satori-health/meridia/domain/repositories"
	"github.com/satori-health/meridia/internal/tools"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	// Buffered outbound messages per client.
	sendQueueSize = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the web client's domain is fixed
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WriteData is one outbound websocket frame.
type WriteData struct {
	// Type is websocket.TextMessage or websocket.BinaryMessage.
	Type    int
	Payload []byte
}

// Hub tracks active clients and carries the shared backend collaborators
// every session controller needs. Sessions share nothing else.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	stt         repositories.SpeechToText
	generator   repositories.ResponseGenerator
	tts         repositories.TextToSpeech // nil when synthesis is not configured
	store       repositories.ContextStore
	tools       *tools.Dispatcher
	audioConfig repositories.AudioConfig

	logger *zap.Logger
}

// NewHub creates a WebSocket hub. tts may be nil.
func NewHub(
	stt repositories.SpeechToText,
	generator repositories.ResponseGenerator,
	tts repositories.TextToSpeech,
	store repositories.ContextStore,
	dispatcher *tools.Dispatcher,
	audioConfig repositories.AudioConfig,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		stt:         stt,
		generator:   generator,
		tts:         tts,
		store:       store,
		tools:       dispatcher,
		audioConfig: audioConfig,
		logger:      logger,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("clientID", client.id))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.shutdownSend()
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("clientID", client.id))
		}
	}
}

// Client is the middleman between one websocket connection and its
// session controller. The id is per connection, not per session: two
// connections presenting the same session token must not collide in the
// hub's registry.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan WriteData
	controller *Controller
	id         string
	logger     *zap.Logger

	mu     sync.Mutex
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, sessionID string, logger *zap.Logger) *Client {
	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan WriteData, sendQueueSize),
		id:     uuid.New().String(),
		logger: logger,
	}
	client.controller = newController(client, sessionID, hub, logger)
	return client
}

// Send enqueues an outbound frame. It returns false when the channel is
// closed or the queue is full; the message is dropped either way.
func (c *Client) Send(msg WriteData) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		c.logger.Warn("Outbound queue full, dropping message",
			zap.String("clientID", c.id))
		return false
	}
}

// shutdownSend marks the client closed and closes the send channel. Must
// only be called once, by the hub's unregister path.
func (c *Client) shutdownSend() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	close(c.send)
}

// HandleWebSocket upgrades the connection and starts the per-client
// pumps. sessionID is the pre-authenticated session identifier; the
// client may later rebind it with a set_session_id control message.
func HandleWebSocket(hub *Hub, c echo.Context, sessionID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := newClient(hub, conn, sessionID, logger)
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the session
// controller. Text frames carry JSON control messages; binary frames are
// raw audio.
func (c *Client) readPump() {
	defer func() {
		c.controller.Close()
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.controller.HandleControl(message)
		case websocket.BinaryMessage:
			c.controller.HandleAudio(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the send queue to the websocket
// connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
