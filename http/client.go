package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout is applied to every request unless WithTimeout overrides it.
const DefaultTimeout = 30 * time.Second

// Client performs the actual network I/O for a builder.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient      *http.Client
	headers         map[string]string
	jsonBodies      bool
	requestIDHeader string
	logger          *zap.Logger
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithTimeout(10*time.Second),
//	    http.WithHeader("User-Agent", "chainreq"),
//	)
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		headers: make(map[string]string),
		logger:  zap.NewNop(),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTimeout sets the timeout for all requests made by this client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHeader adds a default header to all requests made by this client.
// Headers carried by the Params always win over these defaults.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// WARNING: This should only be used for testing purposes.
func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithJSONBodies makes Send return JSON responses as json.RawMessage
// instead of string.
func WithJSONBodies() ClientOption {
	return func(c *Client) {
		c.jsonBodies = true
	}
}

// WithRequestID stamps every request with a fresh UUID under header,
// unless the request already carries that header.
func WithRequestID(header string) ClientOption {
	return func(c *Client) {
		c.requestIDHeader = header
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Send executes the request described by params and returns the response
// with detailed timing information. Any error returned here is a transport
// failure: the request never produced a response.
func (c *Client) Send(ctx context.Context, params Params) (*Response, error) {
	httpReq, err := params.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, value := range c.headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	if c.requestIDHeader != "" && httpReq.Header.Get(c.requestIDHeader) == "" {
		httpReq.Header.Set(c.requestIDHeader, uuid.NewString())
	}

	timing := TimingInfo{
		StartTime: time.Now(),
	}

	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var connectDone bool
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			now := time.Now()
			timing.DNSLookupTime = now.Sub(dnsStart)
			lastPhaseEnd = now
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				now := time.Now()
				timing.TCPConnectTime = now.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = now
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				now := time.Now()
				timing.TLSHandshakeTime = now.Sub(tlsHandshakeStart)
				lastPhaseEnd = now
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), trace))

	c.logger.Debug("sending request",
		zap.String("method", httpReq.Method),
		zap.String("uri", params.URI),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed", zap.String("uri", params.URI), zap.Error(err))
		return nil, err
	}
	defer httpResp.Body.Close()

	contentTransferStart := time.Now()
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       string(raw),
		Raw:        raw,
		Timing:     timing,
	}
	if c.jsonBodies && len(raw) > 0 && resp.IsJSON() {
		resp.Body = json.RawMessage(raw)
	}

	c.logger.Debug("received response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("total", timing.TotalTime),
		zap.Int("bytes", len(raw)),
	)

	return resp, nil
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
