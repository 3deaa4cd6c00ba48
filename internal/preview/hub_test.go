package preview

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(payload, &f); err != nil {
		t.Fatalf("bad frame %s: %v", payload, err)
	}
	return f
}

func waitForSubscribers(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for h.Subscribers() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, have %d", n, h.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSendsLatestFrameOnConnect(t *testing.T) {
	h := NewHub(nil)
	h.Rebuild([]core.Point{core.P(0, 0)}, nil)
	h.Rebuild([]core.Point{core.P(0, 0), core.P(4, 0)}, nil)

	conn := dial(t, h)
	f := readFrame(t, conn)
	if f.Type != FrameRebuild || f.Seq != 2 || len(f.Path) != 2 {
		t.Errorf("initial frame = %+v, expected the second rebuild", f)
	}
}

func TestHubBroadcastsRebuildAndMap(t *testing.T) {
	h := NewHub(nil)
	conn := dial(t, h)
	waitForSubscribers(t, h, 1)

	decos := []mapdoc.Decoration{mapdoc.NewDecoration(mapdoc.DecorationRock, core.P(8, 8), 1)}
	h.Rebuild([]core.Point{core.P(0, 0)}, decos)
	f := readFrame(t, conn)
	if f.Type != FrameRebuild || len(f.Decorations) != 1 || f.Decorations[0].Type != mapdoc.DecorationRock {
		t.Errorf("rebuild frame = %+v", f)
	}

	doc := mapdoc.FromParts("Preview", []core.Point{core.P(0, 0), core.P(4, 0)}, nil, mapdoc.DefaultSettings())
	h.PublishMap(doc)
	f = readFrame(t, conn)
	if f.Type != FrameMap || f.Map == nil || f.Map.Name != "Preview" || f.Map.Track != "custom" {
		t.Errorf("map frame = %+v", f)
	}
	if f.Seq != 2 {
		t.Errorf("Seq = %d, expected 2", f.Seq)
	}
}

func TestHubEmptyMapKeepsListKeys(t *testing.T) {
	h := NewHub(nil)
	h.Rebuild(nil, nil)

	conn := dial(t, h)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}
	for _, want := range []string{`"path":[]`, `"decorations":[]`} {
		if !strings.Contains(string(payload), want) {
			t.Errorf("frame %s missing %s", payload, want)
		}
	}
}

func TestHubRemovesClosedSubscriber(t *testing.T) {
	h := NewHub(nil)
	conn := dial(t, h)
	waitForSubscribers(t, h, 1)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitForSubscribers(t, h, 0)

	// Publishing with nobody connected is fine.
	h.Rebuild(nil, nil)
}
