package cli

import (
	"fmt"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/chainreq/builder"
	"github.com/wesleyorama2/chainreq/http"
)

// requestOptions are the flags that shape one builder chain.
type requestOptions struct {
	headers   []string
	data      []string
	expect    int
	maxTime   time.Duration
	timeout   time.Duration
	json      bool
	requestID bool
	insecure  bool
	verbose   bool
}

func addRequestFlags(cmd *cobra.Command, o *requestOptions) {
	cmd.Flags().StringArrayVarP(&o.headers, "header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().StringArrayVarP(&o.data, "data", "d", []string{}, "Form field key=value for the request body (can be used multiple times)")
	cmd.Flags().IntVar(&o.expect, "expect", 0, "Expected response status code")
	cmd.Flags().DurationVar(&o.maxTime, "time", 0, "Maximum allowed response time")
	cmd.Flags().DurationVarP(&o.timeout, "timeout", "t", http.DefaultTimeout, "Request timeout")
	cmd.Flags().BoolVar(&o.json, "json", false, "Decode JSON responses before printing")
	cmd.Flags().BoolVar(&o.requestID, "request-id", false, "Send a generated X-Request-ID header")
	cmd.Flags().BoolVarP(&o.insecure, "insecure", "k", false, "Skip TLS certificate verification")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose output")
}

func (o *requestOptions) clientOptions(g *globalOptions) []http.ClientOption {
	opts := []http.ClientOption{
		http.WithTimeout(o.timeout),
		http.WithLogger(g.logger),
	}
	if o.json {
		opts = append(opts, http.WithJSONBodies())
	}
	if o.requestID {
		opts = append(opts, http.WithRequestID("X-Request-ID"))
	}
	if o.insecure {
		opts = append(opts, http.WithInsecureSkipVerify())
	}
	return opts
}

// parse validates the body and header flags.
func (o *requestOptions) parse() (builder.Form, map[string]string, error) {
	form, err := parseForm(o.data)
	if err != nil {
		return nil, nil, err
	}
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return nil, nil, err
	}
	return form, headers, nil
}

// apply configures b with the body, headers and expectations from the flags.
func (o *requestOptions) apply(b *builder.Builder) error {
	form, headers, err := o.parse()
	if err != nil {
		return err
	}
	o.applyParsed(b, form, headers)
	return nil
}

// applyParsed configures b from already parsed flags. Headers given with -H
// are merged over the form headers so that a form body keeps its
// Content-Type unless the caller overrides it.
func (o *requestOptions) applyParsed(b *builder.Builder, form builder.Form, headers map[string]string) {
	b.Body(form)

	if headers != nil {
		current := b.Params().Headers
		merged := make(map[string]string, len(current)+len(headers))
		for key, value := range current {
			merged[textproto.CanonicalMIMEHeaderKey(key)] = value
		}
		for key, value := range headers {
			merged[key] = value
		}
		b.Headers(merged)
	}

	b.Expect(o.expect).Time(o.maxTime)
}

// applyVerb appends suffix with the builder call matching method.
func applyVerb(b *builder.Builder, method, suffix string) {
	switch method {
	case "POST":
		b.Post(suffix)
	case "PUT":
		b.Put(suffix)
	case "DELETE":
		b.Del(suffix)
	default:
		b.Get(suffix)
	}
}

// parseHeaders turns "Key: Value" flags into a map keyed by canonical header
// name; nil when there are none. A later flag for the same header wins.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, header := range raw {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header %q (want \"Key: Value\")", header)
		}
		headers[textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
	}
	return headers, nil
}

// parseForm turns key=value flags into a form; repeated keys become lists.
func parseForm(raw []string) (builder.Form, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	form := make(builder.Form, len(raw))
	for _, field := range raw {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid form field %q (want key=value)", field)
		}
		switch existing := form[key].(type) {
		case nil:
			form[key] = value
		case string:
			form[key] = []any{existing, value}
		case []any:
			form[key] = append(existing, value)
		}
	}
	return form, nil
}

// parseURL splits a URL into base URL and path. The path is empty when the
// URL has none, so suffixes append directly to the host.
func parseURL(fullURL string) (string, string) {
	// Add scheme if missing
	if !strings.HasPrefix(fullURL, "http://") && !strings.HasPrefix(fullURL, "https://") {
		fullURL = "http://" + fullURL
	}

	parsedURL, err := url.Parse(fullURL)
	if err != nil {
		return fullURL, ""
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	if parsedURL.User != nil {
		baseURL = fmt.Sprintf("%s://%s@%s", parsedURL.Scheme, parsedURL.User.String(), parsedURL.Host)
	}

	path := parsedURL.EscapedPath()
	if parsedURL.RawQuery != "" {
		path = path + "?" + parsedURL.RawQuery
	}
	if parsedURL.Fragment != "" {
		path = path + "#" + parsedURL.Fragment
	}

	return baseURL, path
}
