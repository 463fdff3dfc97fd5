package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected method POST, got %s", r.Method)
		}

		if r.URL.Path != "/test" {
			t.Errorf("Expected path /test, got %s", r.URL.Path)
		}

		if r.Header.Get("X-Test-Header") != "test-value" {
			t.Errorf("Expected header X-Test-Header: test-value, got %s", r.Header.Get("X-Test-Header"))
		}

		if r.ContentLength != 3 {
			t.Errorf("Expected content length 3, got %d", r.ContentLength)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"success"}`))
	}))
	defer server.Close()

	client := NewClient(WithTimeout(5 * time.Second))

	resp, err := client.Send(context.Background(), Params{
		URI:    server.URL + "/test",
		Method: "POST",
		Body:   "a=1",
		Headers: map[string]string{
			"X-Test-Header":  "test-value",
			"Content-Length": "3",
		},
	})
	if err != nil {
		t.Fatalf("Error sending request: %v", err)
	}

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status code %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	body, ok := resp.Body.(string)
	if !ok {
		t.Fatalf("Expected string body, got %T", resp.Body)
	}
	if body != `{"message":"success"}` {
		t.Errorf("Unexpected body %s", body)
	}

	if resp.Timing.TotalTime <= 0 {
		t.Errorf("Expected positive total time, got %v", resp.Timing.TotalTime)
	}
}

func TestClient_JSONBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/text" {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("hello"))
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"id":7}`))
	}))
	defer server.Close()

	client := NewClient(WithJSONBodies())

	resp, err := client.Send(context.Background(), Params{URI: server.URL + "/json", Method: "GET"})
	if err != nil {
		t.Fatalf("Error sending request: %v", err)
	}
	raw, ok := resp.Body.(json.RawMessage)
	if !ok {
		t.Fatalf("Expected json.RawMessage body, got %T", resp.Body)
	}
	if string(raw) != `{"id":7}` {
		t.Errorf("Unexpected body %s", raw)
	}

	resp, err = client.Send(context.Background(), Params{URI: server.URL + "/text", Method: "GET"})
	if err != nil {
		t.Fatalf("Error sending request: %v", err)
	}
	if resp.Body != "hello" {
		t.Errorf("Expected plain string body, got %#v", resp.Body)
	}
}

func TestClient_DefaultHeadersDoNotOverride(t *testing.T) {
	var gotAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
	}))
	defer server.Close()

	client := NewClient(
		WithHeader("User-Agent", "chainreq-test"),
		WithHeader("Accept", "text/plain"),
	)

	_, err := client.Send(context.Background(), Params{
		URI:     server.URL,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		t.Fatalf("Error sending request: %v", err)
	}

	if gotAgent != "chainreq-test" {
		t.Errorf("Expected default User-Agent, got %s", gotAgent)
	}
	if gotAccept != "application/json" {
		t.Errorf("Expected params Accept to win, got %s", gotAccept)
	}
}

func TestClient_RequestID(t *testing.T) {
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
	}))
	defer server.Close()

	client := NewClient(WithRequestID("X-Request-ID"))

	for i := 0; i < 2; i++ {
		if _, err := client.Send(context.Background(), Params{URI: server.URL}); err != nil {
			t.Fatalf("Error sending request: %v", err)
		}
	}
	if _, err := client.Send(context.Background(), Params{
		URI:     server.URL,
		Headers: map[string]string{"X-Request-ID": "fixed"},
	}); err != nil {
		t.Fatalf("Error sending request: %v", err)
	}

	if len(ids) != 3 {
		t.Fatalf("Expected 3 requests, got %d", len(ids))
	}
	if ids[0] == "" || ids[0] == ids[1] {
		t.Errorf("Expected distinct generated ids, got %q and %q", ids[0], ids[1])
	}
	if ids[2] != "fixed" {
		t.Errorf("Expected caller id to be kept, got %q", ids[2])
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(WithTimeout(time.Second))
	resp, err := client.Send(context.Background(), Params{URI: url, Method: "GET"})
	if err == nil {
		t.Fatal("Expected an error for a closed server")
	}
	if resp != nil {
		t.Errorf("Expected nil response, got %+v", resp)
	}
}

func TestClient_InvalidURI(t *testing.T) {
	client := NewClient()
	_, err := client.Send(context.Background(), Params{URI: "://bad", Method: "GET"})
	if err == nil {
		t.Fatal("Expected an error for an invalid URI")
	}
}

func TestClient_InsecureSkipVerify(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secure"))
	}))
	defer server.Close()

	if _, err := NewClient().Send(context.Background(), Params{URI: server.URL}); err == nil {
		t.Fatalf("Expected certificate error without InsecureSkipVerify")
	}

	resp, err := NewClient(WithInsecureSkipVerify()).Send(context.Background(), Params{URI: server.URL})
	if err != nil {
		t.Fatalf("Error sending request: %v", err)
	}
	if resp.Body != "secure" {
		t.Errorf("Expected body secure, got %v", resp.Body)
	}
	if resp.Timing.TLSHandshakeTime <= 0 {
		t.Errorf("Expected TLS handshake time to be recorded, got %v", resp.Timing.TLSHandshakeTime)
	}
}
