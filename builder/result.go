package builder

import (
	"encoding/json"
	"fmt"

	"github.com/wesleyorama2/chainreq/pkg/jsonpath"
)

// DecodeError is returned when a structured response body is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// shape converts a transport body into the value handed to the callback.
//
// Only structured bodies are decoded; strings and other primitives pass
// through untouched. A plain HTTP transport therefore yields the raw text,
// and a transport that already produced JSON yields decoded values.
func shape(body any) (any, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return value, nil
	case json.RawMessage:
		if len(value) == 0 {
			return value, nil
		}
		return decode(value)
	case []byte:
		if len(value) == 0 {
			return value, nil
		}
		return decode(value)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		return decode(data)
	}
}

func decode(data []byte) (any, error) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return out, nil
}

// Query extracts a value from a shaped result using a JSONPath expression
// such as "$.users[0].name". String results are treated as JSON text.
func Query(result any, path string) (string, error) {
	var text string
	switch value := result.(type) {
	case string:
		text = value
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("encode result: %w", err)
		}
		text = string(data)
	}
	return jsonpath.Extract(text, path)
}
