package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			if r.Method == http.MethodPost {
				require.NoError(t, r.ParseForm())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"name":"` + r.PostForm.Get("name") + `","auth":"` + r.Header.Get("Authorization") + `"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"users":[]}`))
		case "/users/42":
			if r.Method == http.MethodDelete {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			if r.Method == http.MethodPut {
				w.Write([]byte("updated"))
				return
			}
			w.WriteHeader(http.StatusMethodNotAllowed)
		case "/request-id":
			w.Write([]byte(r.Header.Get("X-Request-ID")))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGetCommand(t *testing.T) {
	server := newEchoServer(t)

	out, err := runCLI(t, "get", server.URL+"/users", "--expect", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "▶ REQUEST: GET "+server.URL+"/users")
	assert.Contains(t, out, "◀ RESPONSE:")
	assert.Contains(t, out, `"users"`)
}

func TestGetCommandSuffixes(t *testing.T) {
	server := newEchoServer(t)

	out, err := runCLI(t, "put", server.URL+"/users", "", "/42")
	require.NoError(t, err)
	assert.Contains(t, out, "PUT "+server.URL+"/users/42")
	assert.Contains(t, out, "updated")
}

func TestPostCommandWithForm(t *testing.T) {
	server := newEchoServer(t)

	out, err := runCLI(t, "post", server.URL+"/users",
		"-d", "name=alice",
		"-H", "Authorization: Bearer secret",
		"--expect", "201",
		"--json",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Body: name=alice")
	assert.Contains(t, out, "Content-Type: application/x-www-form-urlencoded")
	assert.Contains(t, out, `"name": "alice"`)
	assert.Contains(t, out, `"auth": "Bearer secret"`)
}

func TestDeleteCommand(t *testing.T) {
	server := newEchoServer(t)

	_, err := runCLI(t, "delete", server.URL+"/users/42", "--expect", "204", "--time", "5s")
	assert.NoError(t, err)
}

func TestStatusMismatchFails(t *testing.T) {
	server := newEchoServer(t)

	out, err := runCLI(t, "get", server.URL+"/missing", "--expect", "200")
	require.Error(t, err)
	assert.Contains(t, out, "Error response status code!")
	assert.Contains(t, out, "expected 200, got 404")
}

func TestRequestIDFlag(t *testing.T) {
	server := newEchoServer(t)

	out, err := runCLI(t, "get", server.URL+"/request-id", "--request-id")
	require.NoError(t, err)
	assert.Regexp(t, `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`, out)
}

func TestTransportErrorFails(t *testing.T) {
	server := newEchoServer(t)
	url := server.URL
	server.Close()

	_, err := runCLI(t, "get", url+"/users", "-t", "1s")
	assert.Error(t, err)
}

func TestVerbCommandRequiresURL(t *testing.T) {
	_, err := runCLI(t, "get")
	assert.Error(t, err)
}

func TestInvalidFormFlag(t *testing.T) {
	_, err := runCLI(t, "post", "http://127.0.0.1:1/users", "-d", "novalue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid form field")
}

func TestSuffixArgsAppendToHost(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	tests := []struct {
		name string
		args []string
		path string
	}{
		{name: "host only", args: []string{server.URL}, path: "/"},
		{name: "host with suffixes", args: []string{server.URL, "/users", "/42"}, path: "/users/42"},
		{name: "path with suffixes", args: []string{server.URL + "/api", "/users", "", "/42"}, path: "/api/users/42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append([]string{"get"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.path, gotPath)
		})
	}
}

func TestHeaderFlagOverridesFormContentType(t *testing.T) {
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
	}))
	defer server.Close()

	_, err := runCLI(t, "post", server.URL+"/x", "-d", "a=1", "-H", "content-type: text/plain")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", contentType)
}

func TestVerboseShowsResponseDetails(t *testing.T) {
	server := newEchoServer(t)

	out, err := runCLI(t, "get", server.URL+"/users", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "◀ RESPONSE: 200 OK")
	assert.Contains(t, out, "Timing:")
	assert.Contains(t, out, "Time to First Byte:")
	assert.Contains(t, out, "Content-Type: application/json")
	assert.Contains(t, out, "✓ PASSED")
}

func TestFailedExpectationStillShowsStatus(t *testing.T) {
	server := newEchoServer(t)

	out, err := runCLI(t, "get", server.URL+"/missing", "--expect", "200")
	require.Error(t, err)
	assert.Contains(t, out, "◀ RESPONSE: 404 Not Found")
}

func TestInsecureFlag(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, r.TLS)
		w.Write([]byte("secure"))
	}))
	defer server.Close()

	_, err := runCLI(t, "get", server.URL+"/")
	assert.Error(t, err)

	out, err := runCLI(t, "get", server.URL+"/", "-k")
	require.NoError(t, err)
	assert.Contains(t, out, "secure")
}
