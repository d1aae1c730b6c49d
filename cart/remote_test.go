package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart" {
			t.Errorf("expected path /cart, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("userKey"); got != "a@x.com" {
			t.Errorf("expected userKey a@x.com, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":7,"name":"Mug","price":9.5,"qty":2}]}`))
	}))
	defer server.Close()

	rc := NewRemoteClient(server.URL)
	items, ok := rc.Fetch(context.Background(), "a@x.com")

	if !ok {
		t.Fatal("expected fetch to succeed")
	}
	if len(items) != 1 || items[0].ProductID != 7 || items[0].Quantity != 2 {
		t.Errorf("expected remote cart line, got %+v", items)
	}
}

func TestRemoteFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	rc := NewRemoteClient(server.URL)
	if _, ok := rc.Fetch(context.Background(), "a@x.com"); ok {
		t.Error("expected fetch to report unavailable on 500")
	}
}

func TestRemoteFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	rc := NewRemoteClient(server.URL)
	if _, ok := rc.Fetch(context.Background(), "a@x.com"); ok {
		t.Error("expected fetch to report unavailable on malformed body")
	}
}

func TestRemoteFetchUnreachableHost(t *testing.T) {
	rc := NewRemoteClient("http://127.0.0.1:1")
	if _, ok := rc.Fetch(context.Background(), "a@x.com"); ok {
		t.Error("expected fetch to report unavailable on connection error")
	}
}

func TestRemoteFetchDropsInvalidLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":1,"qty":1},{"id":0,"qty":3},{"id":2,"qty":-1}]}`))
	}))
	defer server.Close()

	rc := NewRemoteClient(server.URL)
	items, ok := rc.Fetch(context.Background(), "a@x.com")

	if !ok {
		t.Fatal("expected fetch to succeed")
	}
	if len(items) != 1 || items[0].ProductID != 1 {
		t.Errorf("expected only the valid line, got %+v", items)
	}
}

func TestRemoteUpsert(t *testing.T) {
	var received struct {
		UserKey string `json:"userKey"`
		Items   Items  `json:"items"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("expected JSON body, got error: %v", err)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	rc := NewRemoteClient(server.URL)
	ok := rc.Upsert(context.Background(), "a@x.com", Items{sampleLine(3, 2.5, 4)})

	if !ok {
		t.Fatal("expected upsert to be acknowledged")
	}
	if received.UserKey != "a@x.com" {
		t.Errorf("expected userKey a@x.com, got %s", received.UserKey)
	}
	if len(received.Items) != 1 || received.Items[0].ProductID != 3 {
		t.Errorf("expected full cart in payload, got %+v", received.Items)
	}
}

func TestRemoteUpsertEmptyCartSendsEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
	}))
	defer server.Close()

	rc := NewRemoteClient(server.URL)
	rc.Upsert(context.Background(), "a@x.com", nil)

	if string(raw["items"]) != "[]" {
		t.Errorf("expected items to encode as [], got %s", raw["items"])
	}
}

func TestRemoteUpsertServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	rc := NewRemoteClient(server.URL)
	if rc.Upsert(context.Background(), "a@x.com", nil) {
		t.Error("expected upsert to report unavailable on 502")
	}
}

func TestRemoteUpsertCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := NewRemoteClient(server.URL)
	if rc.Upsert(ctx, "a@x.com", nil) {
		t.Error("expected cancelled upsert to report unavailable")
	}
}

func TestRemoteClientDisabled(t *testing.T) {
	var rc *RemoteClient
	if rc.Enabled() {
		t.Error("expected nil client to be disabled")
	}
	if NewRemoteClient("").Enabled() {
		t.Error("expected client without base URL to be disabled")
	}
}
