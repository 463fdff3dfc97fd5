package http

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// Params is the accumulated description of a single request.
// URI is used verbatim; nothing joins, cleans or validates it before dispatch.
type Params struct {
	URI     string
	Method  string
	Body    string
	Headers map[string]string
}

// Clone returns a copy of p that shares no maps with it.
func (p Params) Clone() Params {
	if p.Headers != nil {
		headers := make(map[string]string, len(p.Headers))
		for key, value := range p.Headers {
			headers[key] = value
		}
		p.Headers = headers
	}
	return p
}

// Build constructs an http.Request from the Params.
// This is called internally by Client.Send but is exposed for advanced use cases.
func (p Params) Build(ctx context.Context) (*http.Request, error) {
	method := p.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if p.Body != "" {
		bodyReader = strings.NewReader(p.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.URI, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range p.Headers {
		// net/http derives Content-Length from the body reader
		if strings.EqualFold(key, "Content-Length") {
			continue
		}
		req.Header.Set(key, value)
	}

	return req, nil
}
