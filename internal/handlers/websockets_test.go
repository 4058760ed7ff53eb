package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskplanner/internal/service"

	"github.com/gorilla/websocket"
)

func TestWSConnect_RejectsBadToken(t *testing.T) {
	auth := &mockAuth{parseErr: errTestDB}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws?token=bad", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestWSConnect_SendsInitialSummary(t *testing.T) {
	tasks := &mockTasks{summaryResp: service.BoardSummary{
		Total:      4,
		ByStatus:   map[string]int{"new": 1, "done": 3},
		ObservedAt: time.Now().UTC(),
	}}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7},
		Tasks:         tasks,
	}
	srv := httptest.NewServer(newTestRouter(s))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=good&interval=5s"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v (resp=%+v)", err, resp)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var env struct {
		Type string `json:"type"`
		Data struct {
			Total    int            `json:"total"`
			ByStatus map[string]int `json:"by_status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		t.Fatalf("unmarshal %q: %v", msg, err)
	}
	if env.Type != "summary" {
		t.Fatalf("type: got %q, want summary", env.Type)
	}
	if env.Data.Total != 4 || env.Data.ByStatus["done"] != 3 {
		t.Fatalf("unexpected summary: %+v", env.Data)
	}
	if tasks.lastOwnerID != 7 {
		t.Fatalf("summary owner: got %d, want 7", tasks.lastOwnerID)
	}
}
