package inspector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haasonsaas/viewengine/pkg/models"
)

func TestServerHelloThenBroadcastsEvents(t *testing.T) {
	srv := NewServer("run-1", nil)
	mux := http.NewServeMux()
	mux.Handle("/ws", srv.Handler())
	mux.Handle("/healthz", srv.HealthHandler())
	httpServer := httptest.NewServer(mux)
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var hello wsFrame
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("reading hello frame: %v", err)
	}
	if hello.Type != "hello" || hello.Hello == nil || hello.Hello.RunID != "run-1" {
		t.Fatalf("unexpected hello frame: %+v", hello)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && srv.clientCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	if srv.clientCount() != 1 {
		t.Fatalf("clientCount = %d, want 1", srv.clientCount())
	}

	srv.Emit(context.Background(), models.AgentEvent{
		Version:  1,
		Type:     models.AgentEventBuildStarted,
		Sequence: 1,
		RunID:    "run-1",
		View:     &models.ViewEventPayload{RawCount: 5},
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame wsFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("reading event frame: %v", err)
	}
	if frame.Type != "event" || frame.Event == nil {
		t.Fatalf("unexpected frame: %+v", frame)
	}
	if frame.Event.Type != models.AgentEventBuildStarted {
		t.Fatalf("Event.Type = %v, want %v", frame.Event.Type, models.AgentEventBuildStarted)
	}
	if frame.Event.View == nil || frame.Event.View.RawCount != 5 {
		t.Fatalf("unexpected view payload: %+v", frame.Event.View)
	}
}

func TestServerHealthHandlerReportsClientCount(t *testing.T) {
	srv := NewServer("run-2", nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.HealthHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"run_id":"run-2"`) {
		t.Fatalf("body missing run_id: %s", rec.Body.String())
	}
}
