package http

import (
	"net/http"
	"time"
)

// TimingInfo stores detailed timing information for an HTTP request.
// All durations represent the time spent in each phase of the request.
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte (TTFB) is the time from connection established to receiving the first byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from request start to completion
	TotalTime time.Duration
}

// Response is what a transport hands back for one dispatched request.
type Response struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500)
	StatusCode int

	// Status is the HTTP status string (e.g., "200 OK")
	Status string

	// Headers contains the response headers
	Headers http.Header

	// Body is a string for plain responses, or json.RawMessage when the
	// client was built WithJSONBodies and the response declared JSON.
	// Other transports may put any structured value here.
	Body any

	// Raw holds the body bytes exactly as received
	Raw []byte

	// Timing contains detailed timing information
	Timing TimingInfo
}

// NewResponse makes a Response with a string body, mostly for fake transports.
func NewResponse(statusCode int, body string) *Response {
	return &Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Headers:    make(http.Header),
		Body:       body,
		Raw:        []byte(body),
	}
}

// GetHeader returns the value of the specified header.
func (r *Response) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	return isJSONContentType(r.Headers.Get("Content-Type"))
}

// IsSuccess returns true if the response status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsError returns true if the response status code indicates an error (4xx or 5xx).
func (r *Response) IsError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 600
}
