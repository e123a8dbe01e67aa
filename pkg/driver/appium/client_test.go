package appium

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// writeJSON encodes data as JSON to the response writer.
func writeJSON(w http.ResponseWriter, data any) {
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func TestClient_Connect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/session" && r.Method == "POST" {
			writeJSON(w, map[string]any{
				"value": map[string]any{
					"sessionId": "test-session-123",
					"capabilities": map[string]any{
						"platformName":    "Android",
						"platformVersion": "14",
					},
				},
			})
			return
		}
		if r.URL.Path == "/session/test-session-123/window/rect" {
			writeJSON(w, map[string]any{
				"value": map[string]any{
					"width":  1080.0,
					"height": 1920.0,
				},
			})
			return
		}
		if r.URL.Path == "/session/test-session-123/appium/settings" {
			writeJSON(w, map[string]any{"value": nil})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Connect(context.Background(), map[string]any{
		"platformName": "Android",
	})

	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if client.sessionID != "test-session-123" {
		t.Errorf("Expected sessionID 'test-session-123', got '%s'", client.sessionID)
	}

	if client.platform != "android" {
		t.Errorf("Expected platform 'android', got '%s'", client.platform)
	}

	w, h := client.ScreenSize()
	if w != 1080 || h != 1920 {
		t.Errorf("Expected screen size 1080x1920, got %dx%d", w, h)
	}
}

func TestClient_Disconnect(t *testing.T) {
	deleteCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/session/test-session" && r.Method == "DELETE" {
			deleteCalled = true
			writeJSON(w, map[string]any{"value": nil})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.sessionID = "test-session"

	if err := client.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}

	if !deleteCalled {
		t.Error("DELETE /session was not called")
	}

	if client.sessionID != "" {
		t.Error("sessionID should be cleared after disconnect")
	}
}

func TestClient_FindElement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/session/test-session/element" && r.Method == "POST" {
			writeJSON(w, map[string]any{
				"value": map[string]any{
					w3cElementKey: "elem-123",
				},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.sessionID = "test-session"

	elemID, err := client.FindElement(context.Background(), "accessibility id", "myButton")
	if err != nil {
		t.Fatalf("FindElement failed: %v", err)
	}

	if elemID != "elem-123" {
		t.Errorf("Expected element ID 'elem-123', got '%s'", elemID)
	}
}

func TestClient_FindElement_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"value": map[string]any{
				"error":   "no such element",
				"message": "An element could not be located",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.sessionID = "test-session"

	_, err := client.FindElement(context.Background(), "accessibility id", "ghost")
	if !errors.Is(err, errNoSuchElement) {
		t.Errorf("expected errNoSuchElement, got %v", err)
	}
}

func TestClient_ElementProbes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/session/s/element/e/displayed":
			writeJSON(w, map[string]any{"value": true})
		case "/session/s/element/e/enabled":
			writeJSON(w, map[string]any{"value": false})
		case "/session/s/element/e/text":
			writeJSON(w, map[string]any{"value": "Count: 3"})
		case "/session/s/element/e/rect":
			writeJSON(w, map[string]any{
				"value": map[string]any{"x": 10.0, "y": 200.0, "width": 300.0, "height": 48.0},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.sessionID = "s"
	ctx := context.Background()

	displayed, err := client.IsElementDisplayed(ctx, "e")
	if err != nil || !displayed {
		t.Errorf("IsElementDisplayed = %v, %v", displayed, err)
	}

	enabled, err := client.IsElementEnabled(ctx, "e")
	if err != nil || enabled {
		t.Errorf("IsElementEnabled = %v, %v", enabled, err)
	}

	text, err := client.GetElementText(ctx, "e")
	if err != nil || text != "Count: 3" {
		t.Errorf("GetElementText = %q, %v", text, err)
	}

	x, y, w, h, err := client.GetElementRect(ctx, "e")
	if err != nil || x != 10 || y != 200 || w != 300 || h != 48 {
		t.Errorf("GetElementRect = %d,%d,%d,%d, %v", x, y, w, h, err)
	}
}

func TestClient_GetElementAttribute_Null(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": nil})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.sessionID = "s"

	got, err := client.GetElementAttribute(context.Background(), "e", "content-desc")
	if err != nil {
		t.Fatalf("GetElementAttribute failed: %v", err)
	}
	if got != nil {
		t.Errorf("unset attribute should be nil, got %q", *got)
	}
}

func TestClient_ExecuteMobile(t *testing.T) {
	var gotScript string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/session/s/execute/sync" && r.Method == "POST" {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			gotScript, _ = body["script"].(string)
			writeJSON(w, map[string]any{"value": true})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.sessionID = "s"

	value, err := client.ExecuteMobile(context.Background(), "scrollGesture", map[string]any{
		"direction": "down",
		"percent":   0.3,
	})
	if err != nil {
		t.Fatalf("ExecuteMobile failed: %v", err)
	}
	if gotScript != "mobile: scrollGesture" {
		t.Errorf("script = %q", gotScript)
	}
	if did, ok := value.(bool); !ok || !did {
		t.Errorf("value = %v", value)
	}
}

func TestClient_RequestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.sessionID = "s"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.get(ctx, "/session/s/source"); err == nil {
		t.Error("expected error from cancelled context")
	}
}
