// Package transport publishes freshly built spectrogram slices to
// websocket clients, so a browser can render the waterfall remotely.
package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	applog "spectro/internal/log"
	"spectro/internal/spectro"
)

// sliceFrame is the JSON wire form of one slice.
type sliceFrame struct {
	Type   string      `json:"type"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Cells  []cellFrame `json:"cells"`
}

type cellFrame struct {
	Y    float64  `json:"y"`
	RGBA [4]uint8 `json:"rgba"`
}

// Broadcaster fans freshly built slices out to every connected
// websocket client. Publish never blocks: when the broadcast channel
// is full the slice is dropped for all clients.
type Broadcaster struct {
	addr      string
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan sliceFrame
	server    *http.Server
}

// NewBroadcaster starts the websocket server on addr (path /ws) and
// the broadcast goroutine.
func NewBroadcaster(addr string) *Broadcaster {
	b := &Broadcaster{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan sliceFrame, 256),
	}
	b.start()
	return b
}

func (b *Broadcaster) start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.handleWebSocket)
	b.server = &http.Server{Addr: b.addr, Handler: mux}

	go func() {
		applog.Infof("transport: websocket server listening on %s", b.addr)
		if err := b.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			applog.Errorf("transport: server error: %v", err)
		}
	}()
	go b.handleBroadcasts()
}

func (b *Broadcaster) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Errorf("transport: upgrade error: %v", err)
		return
	}

	b.clientsMu.Lock()
	b.clients[conn] = true
	total := len(b.clients)
	b.clientsMu.Unlock()
	applog.Infof("transport: client connected, total: %d", total)

	go func() {
		// Block until the client goes away.
		if _, _, err := conn.ReadMessage(); err != nil {
			b.clientsMu.Lock()
			delete(b.clients, conn)
			total := len(b.clients)
			b.clientsMu.Unlock()
			conn.Close()
			applog.Infof("transport: client disconnected, total: %d", total)
		}
	}()
}

func (b *Broadcaster) handleBroadcasts() {
	for frame := range b.broadcast {
		b.clientsMu.Lock()
		for client := range b.clients {
			if err := client.WriteJSON(frame); err != nil {
				applog.Errorf("transport: send error, dropping client: %v", err)
				client.Close()
				delete(b.clients, client)
			}
		}
		b.clientsMu.Unlock()
	}
}

// Publish enqueues one slice for broadcast. Suitable as the engine's
// notify hook: non-blocking, drop-on-full.
func (b *Broadcaster) Publish(s spectro.Slice) {
	frame := sliceFrame{
		Type:   "slice",
		Width:  s.Width,
		Height: s.Height,
		Cells:  make([]cellFrame, len(s.Cells)),
	}
	for i, c := range s.Cells {
		frame.Cells[i] = cellFrame{
			Y:    c.Y,
			RGBA: [4]uint8{c.Color.R, c.Color.G, c.Color.B, c.Color.A},
		}
	}

	select {
	case b.broadcast <- frame:
	default:
		// Channel full; this slice is lost to all clients.
	}
}

// Close disconnects every client and shuts down the server.
func (b *Broadcaster) Close() error {
	close(b.broadcast)

	b.clientsMu.Lock()
	for client := range b.clients {
		client.Close()
		delete(b.clients, client)
	}
	b.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return b.server.Shutdown(ctx)
}
