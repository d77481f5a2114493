package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient creates a Client pointing at a test HTTP server.
func newTestClient(server *httptest.Server) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		pollClient: &http.Client{},
		token:      "test-token",
		baseURL:    server.URL,
	}
}

func respond(w http.ResponseWriter, result interface{}) {
	raw, _ := json.Marshal(result)
	json.NewEncoder(w).Encode(apiResponse{OK: true, Result: raw})
}

func TestGetUpdates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottest-token/getUpdates") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		r.ParseForm()
		if r.Form.Get("offset") != "100" {
			t.Errorf("unexpected offset: %s", r.Form.Get("offset"))
		}
		respond(w, []Update{
			{UpdateID: 100, Message: &Message{
				Chat: Chat{ID: 42},
				From: &User{ID: 7, FirstName: "Ana"},
				Text: "hola",
			}},
			{UpdateID: 101, Message: &Message{
				Chat:  Chat{ID: 42},
				Photo: []PhotoSize{{FileID: "small"}, {FileID: "large"}},
			}},
		})
	}))
	defer server.Close()

	updates, err := newTestClient(server).GetUpdates(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("got %d updates", len(updates))
	}
	if updates[0].Message.Text != "hola" {
		t.Errorf("text = %q", updates[0].Message.Text)
	}
	if got := updates[1].Message.BestPhoto(); got != "large" {
		t.Errorf("best photo = %q, want the last rendition", got)
	}
}

func TestGetUpdatesOutlivesPlainCallTimeout(t *testing.T) {
	// An idle long poll holds for the full server-side timeout; the
	// fixed timeout that bounds plain calls must not cut it short.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		respond(w, []Update{})
	}))
	defer server.Close()

	client := newTestClient(server)
	client.httpClient.Timeout = 100 * time.Millisecond

	updates, err := client.GetUpdates(context.Background(), 0, 1)
	if err != nil {
		t.Fatalf("long poll killed before the hold elapsed: %v", err)
	}
	if len(updates) != 0 {
		t.Errorf("got %d updates, want empty batch", len(updates))
	}
}

func TestSendMessageWithKeyboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("chat_id") != "42" {
			t.Errorf("chat_id = %s", r.Form.Get("chat_id"))
		}
		if r.Form.Get("text") != "elige" {
			t.Errorf("text = %s", r.Form.Get("text"))
		}

		var kb replyKeyboard
		if err := json.Unmarshal([]byte(r.Form.Get("reply_markup")), &kb); err != nil {
			t.Fatalf("reply_markup invalid: %v", err)
		}
		if !kb.OneTimeKeyboard {
			t.Error("keyboard should be one-time")
		}
		if len(kb.Keyboard) != 2 || kb.Keyboard[0][0].Text != "CAJA A" {
			t.Errorf("keyboard rows = %+v", kb.Keyboard)
		}

		respond(w, Message{MessageID: 1})
	}))
	defer server.Close()

	err := newTestClient(server).SendMessage(context.Background(), 42, "elige",
		[][]string{{"CAJA A", "CAJA B"}, {"CAJA C"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSendTextOmitsKeyboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("reply_markup") != "" {
			t.Error("plain text must not carry reply_markup")
		}
		respond(w, Message{MessageID: 1})
	}))
	defer server.Close()

	if err := newTestClient(server).SendText(context.Background(), 42, "hola"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchPhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/bottest-token/getFile"):
			r.ParseForm()
			if r.Form.Get("file_id") != "ph-1" {
				t.Errorf("file_id = %s", r.Form.Get("file_id"))
			}
			respond(w, File{FileID: "ph-1", FilePath: "photos/file_1.jpg"})
		case r.URL.Path == "/file/bottest-token/photos/file_1.jpg":
			w.Write([]byte("jpeg-bytes"))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	data, err := newTestClient(server).FetchPhoto(context.Background(), "ph-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestFetchPhotoEmptyFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getFile") {
			respond(w, File{FileID: "ph-1", FilePath: "photos/empty.jpg"})
			return
		}
		// empty body
	}))
	defer server.Close()

	if _, err := newTestClient(server).FetchPhoto(context.Background(), "ph-1"); err == nil {
		t.Fatal("expected error for empty download")
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{OK: false, ErrorCode: 401, Description: "Unauthorized"})
	}))
	defer server.Close()

	_, err := newTestClient(server).GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("error = %v", err)
	}
}
