// Package http is the transport used by the request builder. It turns a
// Params value into exactly one network round trip and reports the
// response together with detailed timing metrics.
//
// Basic Usage:
//
//	client := http.NewClient(
//	    http.WithTimeout(10*time.Second),
//	    http.WithRequestID("X-Request-ID"),
//	)
//
//	resp, err := client.Send(ctx, http.Params{
//	    URI:    "https://api.example.com/users",
//	    Method: "GET",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Status: %d\n", resp.StatusCode)
//	fmt.Printf("TTFB: %v\n", resp.Timing.TimeToFirstByte)
//
// Bodies come back as string. With WithJSONBodies, responses that declare a
// JSON content type come back as json.RawMessage instead.
//
// Thread Safety:
//
// Client is safe for concurrent use. Multiple goroutines may invoke Send
// on a Client simultaneously.
package http
