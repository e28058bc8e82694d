package watch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestReloadServer_NewReloadServer(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	if rs.connections == nil {
		t.Error("expected connections map to be initialized")
	}
	if rs.broadcast == nil {
		t.Error("expected broadcast channel to be initialized")
	}
}

func TestReloadServer_HandleWebSocket(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	server := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)
	if rs.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", rs.ConnectionCount())
	}
}

func TestReloadServer_NotifyBuilding(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	server := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)
	rs.NotifyBuilding("main.pulse")

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var msg ReloadMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}

	if msg.Type != "building" {
		t.Errorf("expected type 'building', got %q", msg.Type)
	}
	if msg.File != "main.pulse" {
		t.Errorf("expected file 'main.pulse', got %q", msg.File)
	}
}

func TestReloadServer_NotifySuccess(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	server := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)
	rs.NotifySuccess("main.pulse", 150*time.Millisecond)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var msg ReloadMessage
	json.Unmarshal(message, &msg)

	if msg.Type != "success" {
		t.Errorf("expected type 'success', got %q", msg.Type)
	}
	if msg.Duration != 150.0 {
		t.Errorf("expected duration 150ms, got %.0f", msg.Duration)
	}
}

func TestReloadServer_NotifyErrors(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	server := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	rs.NotifyErrors("main.pulse", []*ErrorInfo{{
		Message: "type mismatch",
		File:    "main.pulse",
		Line:    10,
		Column:  5,
		Code:    "E201",
		Phase:   "type_checker",
	}})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var msg ReloadMessage
	json.Unmarshal(message, &msg)

	if msg.Type != "error" {
		t.Errorf("expected type 'error', got %q", msg.Type)
	}
	if len(msg.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(msg.Diagnostics))
	}
	if msg.Diagnostics[0].Line != 10 {
		t.Errorf("expected line 10, got %d", msg.Diagnostics[0].Line)
	}
}

func TestReloadServer_MultipleConnections(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	server := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conns := make([]*websocket.Conn, 3)
	for i := 0; i < 3; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("failed to connect client %d: %v", i, err)
		}
		conns[i] = conn
		defer conn.Close()
	}

	time.Sleep(100 * time.Millisecond)
	if rs.ConnectionCount() != 3 {
		t.Errorf("expected 3 connections, got %d", rs.ConnectionCount())
	}

	rs.NotifyBuilding("main.pulse")

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, message, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("client %d failed to read message: %v", i, err)
			continue
		}
		var msg ReloadMessage
		json.Unmarshal(message, &msg)
		if msg.Type != "building" {
			t.Errorf("client %d: expected type 'building', got %q", i, msg.Type)
		}
	}
}

func TestReloadServer_ConnectionCount(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	if rs.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections initially, got %d", rs.ConnectionCount())
	}

	server := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, _ := websocket.DefaultDialer.Dial(wsURL, nil)
	time.Sleep(50 * time.Millisecond)

	if rs.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", rs.ConnectionCount())
	}

	conn.Close()
	time.Sleep(100 * time.Millisecond)

	if rs.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after close, got %d", rs.ConnectionCount())
	}
}

func TestReloadServer_OriginCheck(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"no origin", "", true},
		{"localhost http", "http://localhost:3000", true},
		{"localhost https", "https://localhost:3000", true},
		{"127.0.0.1 http", "http://127.0.0.1:3000", true},
		{"external origin", "http://evil.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{Header: http.Header{}}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			result := rs.upgrader.CheckOrigin(req)
			if result != tt.expected {
				t.Errorf("origin %q: expected %v, got %v", tt.origin, tt.expected, result)
			}
		})
	}
}

func TestReloadServer_CloseStopsGoroutine(t *testing.T) {
	rs := NewReloadServer()
	rs.Close()

	time.Sleep(100 * time.Millisecond)
	if rs.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after close, got %d", rs.ConnectionCount())
	}
}

func BenchmarkReloadServer_NotifyBuilding(b *testing.B) {
	rs := NewReloadServer()
	defer rs.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rs.NotifyBuilding("main.pulse")
	}
}
