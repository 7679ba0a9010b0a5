package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedRequest reports a startup argument that is not a valid request.
var ErrMalformedRequest = errors.New("malformed request")

// ParamsKind classifies how a request's parameters are applied.
type ParamsKind int

const (
	// ParamsAbsent means the operation is invoked with zero arguments.
	ParamsAbsent ParamsKind = iota
	// ParamsPositional means a JSON array spread as positional arguments.
	ParamsPositional
	// ParamsSingle means any other JSON value, passed as one argument.
	ParamsSingle
)

func (k ParamsKind) String() string {
	switch k {
	case ParamsAbsent:
		return "absent"
	case ParamsPositional:
		return "positional"
	case ParamsSingle:
		return "single"
	default:
		return fmt.Sprintf("ParamsKind(%d)", int(k))
	}
}

// DecodeRequest parses the raw startup argument.
// A missing method defaults to DefaultMethod. Any shape violation wraps ErrMalformedRequest.
func DecodeRequest(raw string) (*Request, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty request", ErrMalformedRequest)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: request must be a JSON object", ErrMalformedRequest)
	}

	req := &Request{Method: DefaultMethod}
	if rawMethod, ok := fields["method"]; ok && !isNull(rawMethod) {
		if err := json.Unmarshal(rawMethod, &req.Method); err != nil {
			return nil, fmt.Errorf("%w: method must be a string", ErrMalformedRequest)
		}
	}
	if rawParams, ok := fields["parameters"]; ok && !isNull(rawParams) {
		req.Parameters = rawParams
	}

	return req, nil
}

// Kind reports how the request's parameters should be applied.
func (r *Request) Kind() ParamsKind {
	trimmed := bytes.TrimSpace(r.Parameters)
	if len(trimmed) == 0 || isNull(trimmed) {
		return ParamsAbsent
	}
	if trimmed[0] == '[' {
		return ParamsPositional
	}
	return ParamsSingle
}

// Args returns the raw positional arguments for the request.
// A list is spread; any other value becomes a single argument; absence yields none.
func (r *Request) Args() ([]json.RawMessage, error) {
	switch r.Kind() {
	case ParamsAbsent:
		return nil, nil
	case ParamsPositional:
		var args []json.RawMessage
		if err := json.Unmarshal(r.Parameters, &args); err != nil {
			return nil, fmt.Errorf("%w: parameters: %v", ErrMalformedRequest, err)
		}
		return args, nil
	default:
		return []json.RawMessage{r.Parameters}, nil
	}
}

// EncodeResponse serializes resp as a single JSON line and writes it to w.
func EncodeResponse(w io.Writer, resp *Response) error {
	if resp == nil {
		resp = NewResponse(nil)
	}
	if resp.Result == nil {
		resp.Result = []Result{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
