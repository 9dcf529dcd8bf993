package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"glyphchat/internal/app/chat"
)

func TestWebSocketReceivesBroadcastSignal(t *testing.T) {
	router := newTestRouter(t)

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	conn, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()
	if res != nil {
		res.Body.Close()
	}

	// An accepted submission must push the change signal to the subscriber.
	postRes, err := http.PostForm(server.URL+"/UserMessage", url.Values{"message": {"ping everyone"}})
	if err != nil {
		t.Fatalf("submission failed: %v", err)
	}
	postRes.Body.Close()
	if postRes.StatusCode != http.StatusOK {
		t.Fatalf("submission status = %d, want 200", postRes.StatusCode)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}

	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading signal failed: %v", err)
	}

	var signal chat.Signal
	if err := json.Unmarshal(raw, &signal); err != nil {
		t.Fatalf("signal is not valid JSON: %v (raw %q)", err, raw)
	}
	if signal.Type != chat.TypeBroadcast {
		t.Fatalf("signal.Type = %q, want %q", signal.Type, chat.TypeBroadcast)
	}
}

func TestWebSocketPollRejectionSendsNoSignal(t *testing.T) {
	router := newTestRouter(t)

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	conn, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()
	if res != nil {
		res.Body.Close()
	}

	// A passive poll changes nothing, so no signal may arrive.
	postRes, err := http.PostForm(server.URL+"/UserMessage", url.Values{})
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	postRes.Body.Close()

	if err := conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}

	if _, raw, err := conn.ReadMessage(); err == nil {
		t.Fatalf("unexpected signal %q after passive poll", raw)
	}
}
