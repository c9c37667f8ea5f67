package httpapi

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/joulepoint/fleet-console/internal/model"
)

func dialEvents(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestEventsSendsCurrentSnapshotOnConnect(t *testing.T) {
	api := testAPI(&fakeSnapshots{snapshot: testSnapshot()}, &fakePoller{}, &fakeFleet{})
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	conn := dialEvents(t, server)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snapshot model.DashboardSnapshot
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if len(snapshot.Devices) != 3 {
		t.Fatalf("initial snapshot devices = %d, want 3", len(snapshot.Devices))
	}
}

func TestBroadcastReachesSubscribers(t *testing.T) {
	api := testAPI(&fakeSnapshots{}, &fakePoller{}, &fakeFleet{})
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	conn := dialEvents(t, server)

	// Registration races the broadcast; wait for the hub to see the client.
	deadline := time.Now().Add(2 * time.Second)
	for {
		api.hub.mu.Lock()
		registered := len(api.hub.conns) == 1
		api.hub.mu.Unlock()
		if registered {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	api.hub.Broadcast(testSnapshot())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snapshot model.DashboardSnapshot
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if len(snapshot.Devices) != 3 {
		t.Fatalf("broadcast devices = %d, want 3", len(snapshot.Devices))
	}

	// Nil snapshots are never pushed.
	api.hub.Broadcast(nil)
}

func TestEventsConnectDuringBroadcast(t *testing.T) {
	api := testAPI(&fakeSnapshots{snapshot: testSnapshot()}, &fakePoller{}, &fakeFleet{})
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	// Hammer the hub from the poller path while clients keep joining; the
	// catch-up write and the broadcast write must never hit one connection
	// at the same time.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				api.hub.Broadcast(testSnapshot())
			}
		}
	}()

	for i := 0; i < 50; i++ {
		conn := dialEvents(t, server)
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var snapshot model.DashboardSnapshot
		if err := conn.ReadJSON(&snapshot); err != nil {
			t.Fatalf("connection %d: read during broadcast: %v", i, err)
		}
		if len(snapshot.Devices) != 3 {
			t.Fatalf("connection %d: got %d devices, want 3", i, len(snapshot.Devices))
		}
		_ = conn.Close()
	}

	close(stop)
	wg.Wait()
}
