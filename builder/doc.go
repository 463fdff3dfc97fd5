// Package builder provides a fluent builder for firing a single HTTP
// request and asserting basic expectations on its outcome.
//
// A Builder collects the method, URI, form body and headers through chained
// calls, then End sends the request through a Transport, checks the
// recorded expectations and hands the result to a callback:
//
//	builder.New("https://api.example.com").
//	    Get("/users").
//	    Get("/42").
//	    Expect(200).
//	    Time(time.Second).
//	    End(ctx, func(result any, err error) {
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        fmt.Println(result)
//	    })
//
// URI suffixes are concatenated in call order with no normalisation, and
// the method is whichever verb was called last.
//
// # Expectations
//
// Expect and Time record checks that run after a response arrives: the
// status code first, then the deadline. The deadline Time records is fixed
// when Time is called, so work done between Time and End eats into it.
// Zero values mean "no expectation".
//
// By default a violated expectation panics with an *ExpectationError, the
// way a failed assertion halts a test. WithFailureMode(FailRecoverable)
// delivers it through the callback instead. Transport errors always go
// through the callback.
//
// # Results
//
// String bodies, which is what the default http.Client returns, reach the
// callback unchanged. Structured bodies such as json.RawMessage (see
// http.WithJSONBodies) are decoded into generic JSON values first.
package builder
