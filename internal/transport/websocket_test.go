package transport

import (
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"spectro/internal/spectro"
)

// newTestBroadcaster wires the handler into an httptest server instead
// of binding a real port.
func newTestBroadcaster(t *testing.T) (*Broadcaster, string) {
	t.Helper()
	b := &Broadcaster{
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan sliceFrame, 256),
	}
	go b.handleBroadcasts()

	srv := httptest.NewServer(http.HandlerFunc(b.handleWebSocket))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(b.broadcast) })

	return b, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func testSlice() spectro.Slice {
	return spectro.Slice{
		Width:  4,
		Height: 480,
		Cells: []spectro.Cell{
			{Y: 100, Color: color.RGBA{R: 0xff, A: 0xff}},
			{Y: 200, Color: color.RGBA{G: 0xff, A: 0x80}},
		},
	}
}

func TestPublishReachesClient(t *testing.T) {
	b, url := newTestBroadcaster(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The client registers asynchronously on upgrade; publish until a
	// frame arrives or the deadline passes.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	done := make(chan sliceFrame, 1)
	go func() {
		var got sliceFrame
		if err := conn.ReadJSON(&got); err == nil {
			done <- got
		}
	}()

	deadline := time.After(2 * time.Second)
	for {
		b.Publish(testSlice())
		select {
		case got := <-done:
			if got.Type != "slice" || got.Width != 4 || got.Height != 480 {
				t.Fatalf("frame header = %+v", got)
			}
			if len(got.Cells) != 2 {
				t.Fatalf("frame has %d cells, expected 2", len(got.Cells))
			}
			if got.Cells[0].RGBA != [4]uint8{0xff, 0, 0, 0xff} {
				t.Errorf("cell color = %v", got.Cells[0].RGBA)
			}
			if got.Cells[1].RGBA != [4]uint8{0, 0xff, 0, 0x80} {
				t.Errorf("cell alpha not preserved: %v", got.Cells[1].RGBA)
			}
			return
		case <-deadline:
			t.Fatal("no frame received before deadline")
		case <-time.After(10 * time.Millisecond):
			// retry
		}
	}
}

func TestPublishDropsWhenFull(t *testing.T) {
	b := &Broadcaster{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan sliceFrame, 1),
	}
	// No broadcast goroutine: the channel fills immediately and every
	// further publish must drop without blocking.
	for range 10 {
		b.Publish(testSlice())
	}
	if got := len(b.broadcast); got != 1 {
		t.Errorf("channel holds %d frames, expected 1", got)
	}
}
