package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-telegram/bot"

	"github.com/wonny/gammalert/pkg/config"
	"github.com/wonny/gammalert/pkg/logger"
)

func testSender(cfg config.TelegramConfig, serverURL string) *Sender {
	log := logger.NewWithWriter(io.Discard)

	var opts []bot.Option
	if serverURL != "" {
		opts = append(opts, bot.WithServerURL(serverURL))
	}

	return NewSender(cfg, log, opts...)
}

func TestSend(t *testing.T) {
	var payload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("Expected sendMessage call, got %s", r.URL.Path)
		}
		// The bot library encodes requests as multipart/form-data.
		r.ParseMultipartForm(1 << 20)
		payload = map[string]interface{}{}
		for key, values := range r.MultipartForm.Value {
			if len(values) == 0 {
				continue
			}
			if f, err := strconv.ParseFloat(values[0], 64); err == nil {
				payload[key] = f
			} else {
				payload[key] = values[0]
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":1,"chat":{"id":-1001234567890,"type":"supergroup"}}}`))
	}))
	defer server.Close()

	sender := testSender(config.TelegramConfig{
		BotToken: "123:abc",
		ChatID:   "-1001234567890",
		ThreadID: "42",
	}, server.URL)

	ok := sender.Send(context.Background(), "<b>SPX Market Analysis</b>")
	if !ok {
		t.Fatal("Expected Send to succeed")
	}

	if payload["text"] != "<b>SPX Market Analysis</b>" {
		t.Errorf("Unexpected text: %v", payload["text"])
	}
	if payload["parse_mode"] != "HTML" {
		t.Errorf("Expected parse_mode=HTML, got %v", payload["parse_mode"])
	}
	if id, _ := payload["chat_id"].(float64); int64(id) != -1001234567890 {
		t.Errorf("Expected negative group chat id, got %v", payload["chat_id"])
	}
	if id, _ := payload["message_thread_id"].(float64); int(id) != 42 {
		t.Errorf("Expected thread id 42, got %v", payload["message_thread_id"])
	}
}

func TestSendInvalidChatID(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	sender := testSender(config.TelegramConfig{
		BotToken: "123:abc",
		ChatID:   "abc",
	}, server.URL)

	if sender.Send(context.Background(), "msg") {
		t.Error("Expected Send to fail for non-integer chat id")
	}

	// Rejected before any network call
	if got := calls.Load(); got != 0 {
		t.Errorf("Expected zero network calls, got %d", got)
	}
}

func TestSendInvalidThreadID(t *testing.T) {
	sender := testSender(config.TelegramConfig{
		BotToken: "123:abc",
		ChatID:   "100",
		ThreadID: "not-a-number",
	}, "")

	if sender.Send(context.Background(), "msg") {
		t.Error("Expected Send to fail for non-integer thread id")
	}
}

func TestSendAPIErrorReturnsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was kicked"}`))
	}))
	defer server.Close()

	sender := testSender(config.TelegramConfig{
		BotToken: "123:abc",
		ChatID:   "-100",
	}, server.URL)

	if sender.Send(context.Background(), "msg") {
		t.Error("Expected Send to report false on API error")
	}
}

func TestSendTransportErrorReturnsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Closed before the call

	sender := testSender(config.TelegramConfig{
		BotToken: "123:abc",
		ChatID:   "-100",
	}, server.URL)

	if sender.Send(context.Background(), "msg") {
		t.Error("Expected Send to report false on transport error")
	}
}
