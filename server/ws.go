package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"airbnb-dashboard/models"
	"airbnb-dashboard/services"
	"airbnb-dashboard/utils"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

// Client message types.
const (
	MsgInit      = "init"
	MsgInput     = "input"
	MsgHeartbeat = "heartbeat"
)

// Server message types.
const (
	MsgOutput = "output"
	MsgError  = "error"
)

// ClientMessage is what the page sends over the websocket.
type ClientMessage struct {
	Type      string                  `json:"type"`
	Selection *models.FilterSelection `json:"selection,omitempty"`
	Input     services.Input          `json:"input,omitempty"`
	Value     json.RawMessage         `json:"value,omitempty"`
}

// ServerMessage is what the server pushes back.
type ServerMessage struct {
	Type   string          `json:"type"`
	Output services.Output `json:"output,omitempty"`
	Rows   int             `json:"rows"`
	Figure any             `json:"figure,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// session is one browser tab. Its selection is owned by the read loop;
// the write pump owns every write to the connection.
type session struct {
	id         string
	conn       *websocket.Conn
	dispatcher *services.Dispatcher
	logger     *utils.Logger
	selection  models.FilterSelection
	send       chan ServerMessage
	done       chan struct{}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sel, err := SelectionFromQuery(r.URL.Query(), s.layout.DefaultSelection())
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("[ws] Upgrade failed: %v", err)
		return
	}

	sess := &session{
		id:         uuid.New().String(),
		conn:       conn,
		dispatcher: s.dispatcher,
		logger:     s.logger,
		selection:  sel,
		send:       make(chan ServerMessage, 16),
		done:       make(chan struct{}),
	}
	wsSessions.Inc()
	s.logger.Info("[ws] Session %s opened from %s", sess.id, r.RemoteAddr)

	go sess.writePump()
	sess.readPump()
}

func (c *session) readPump() {
	connectedAt := time.Now()
	defer func() {
		close(c.send)
		wsSessions.Dec()
		c.logger.Info("[ws] Session %s closed after %s", c.id, time.Since(connectedAt).Round(time.Millisecond))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("[ws] Session %s read error: %v", c.id, err)
			}
			return
		}
		if !c.handle(msg) {
			return
		}
	}
}

// handle processes one client message; false means the session is over.
func (c *session) handle(msg ClientMessage) bool {
	switch msg.Type {
	case MsgHeartbeat:
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return true

	case MsgInit:
		sel := c.selection
		if msg.Selection != nil {
			sel = *msg.Selection
		}
		updates, err := c.dispatcher.Initial(sel)
		if err != nil {
			return c.push(ServerMessage{Type: MsgError, Error: err.Error()})
		}
		c.selection = sel
		return c.pushUpdates(updates)

	case MsgInput:
		updates, err := c.dispatcher.Handle(&c.selection, msg.Input, msg.Value)
		if err != nil {
			return c.push(ServerMessage{Type: MsgError, Error: err.Error()})
		}
		return c.pushUpdates(updates)

	default:
		return c.push(ServerMessage{Type: MsgError, Error: "unknown message type " + msg.Type})
	}
}

func (c *session) pushUpdates(updates []services.Update) bool {
	for _, u := range updates {
		fig, err := figureFor(u)
		if err != nil {
			c.logger.Error("[ws] Session %s: %v", c.id, err)
			if !c.push(ServerMessage{Type: MsgError, Output: u.Output, Error: err.Error()}) {
				return false
			}
			continue
		}
		if !c.push(ServerMessage{Type: MsgOutput, Output: u.Output, Rows: u.Rows(), Figure: fig}) {
			return false
		}
	}
	return true
}

func (c *session) push(msg ServerMessage) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	}
}

func (c *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn("[ws] Session %s write error: %v", c.id, err)
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
