// Package preview streams editor state to external renderers over
// WebSocket. Every frame carries the full state; renderers rebuild from it.
package preview

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/trackforge/internal/codec"
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// Frame types.
const (
	FrameRebuild = "rebuild"
	FrameMap     = "map"
)

const (
	sendBuffer = 32
	writeWait  = 5 * time.Second
)

// Frame is one message to a renderer. Every frame carries the full path and
// decorations, empty lists included; map frames add the game export.
type Frame struct {
	Type        string              `json:"type"`
	Seq         uint64              `json:"seq"`
	Path        []core.Point        `json:"path"`
	Decorations []mapdoc.Decoration `json:"decorations"`
	Map         *codec.GameMap      `json:"map,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to every connected renderer. New subscribers first
// receive the most recent frame.
type Hub struct {
	mu       sync.Mutex
	subs     map[*subscriber]struct{}
	last     []byte
	seq      uint64
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Rebuild publishes a rebuild frame. Its signature matches
// editor.RebuildFunc so the hub can be registered directly on a session.
func (h *Hub) Rebuild(path []core.Point, decorations []mapdoc.Decoration) {
	if path == nil {
		path = []core.Point{}
	}
	if decorations == nil {
		decorations = []mapdoc.Decoration{}
	}
	h.publish(Frame{Type: FrameRebuild, Path: path, Decorations: decorations})
}

// PublishMap publishes the game export of doc.
func (h *Hub) PublishMap(doc *mapdoc.Document) {
	game := codec.ExportGame(doc)
	h.publish(Frame{Type: FrameMap, Path: doc.Path().Cells(), Decorations: doc.Decorations(), Map: &game})
}

func (h *Hub) publish(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	f.Seq = h.seq
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Warn("cannot encode preview frame", "err", err)
		return
	}
	h.last = data

	for sub := range h.subs {
		select {
		case sub.send <- data:
		default:
			// Slow renderer; drop it rather than block the editor.
			h.logger.Warn("dropping slow preview subscriber", "remote", sub.conn.RemoteAddr())
			h.removeLocked(sub)
		}
	}
}

// Subscribers returns the number of connected renderers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) removeLocked(sub *subscriber) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.send)
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

// ServeHTTP upgrades the request to a WebSocket and streams frames until
// the renderer disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("preview upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	if h.last != nil {
		sub.send <- h.last
	}
	h.mu.Unlock()
	h.logger.Info("preview subscriber connected", "remote", conn.RemoteAddr())

	go h.writePump(sub)
	h.readPump(sub)
}

// readPump discards incoming messages and detects disconnects.
func (h *Hub) readPump(sub *subscriber) {
	defer func() {
		h.remove(sub)
		sub.conn.Close()
		h.logger.Info("preview subscriber disconnected", "remote", sub.conn.RemoteAddr())
	}()
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("preview read error", "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	defer sub.conn.Close()
	for data := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(sub)
			return
		}
	}
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
