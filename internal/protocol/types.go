package protocol

import "encoding/json"

// DefaultMethod is used when a request carries no method field.
const DefaultMethod = "query"

// Request represents the JSON-RPC style request the host passes as the single process argument.
type Request struct {
	Method     string          `json:"method"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// Response represents the envelope written to stdout, exactly once per request.
type Response struct {
	Result       []Result `json:"result"`
	DebugMessage string   `json:"debugMessage"`
}

// Result is one selectable row rendered by the host.
type Result struct {
	Title         string  `json:"Title"`
	SubTitle      string  `json:"SubTitle"`
	IcoPath       string  `json:"IcoPath"`
	JSONRPCAction *Action `json:"JsonRPCAction,omitempty"`
	ContextData   any     `json:"ContextData,omitempty"`
}

// Action is the follow-up request the host issues when a Result is activated.
type Action struct {
	Method              string `json:"method"`
	Parameters          []any  `json:"parameters"`
	DontHideAfterAction bool   `json:"dontHideAfterAction"`
}

// NewAction builds an Action, normalising nil parameters to an empty list.
func NewAction(method string, params ...any) *Action {
	if params == nil {
		params = []any{}
	}
	return &Action{Method: method, Parameters: params}
}

// NewResponse wraps results in the standard envelope.
// The result field is always a JSON array, never null.
func NewResponse(results []Result) *Response {
	if results == nil {
		results = []Result{}
	}
	return &Response{Result: results, DebugMessage: ""}
}
