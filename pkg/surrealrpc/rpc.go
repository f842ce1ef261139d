package surrealrpc

import (
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
)

// Error is a JSON-RPC error returned by the server.
type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"message,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Request is an outgoing JSON-RPC request.
type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// rawResponse keeps the undecoded message. The id and the error are sniffed
// with jsonparser so only successful results are fully decoded.
type rawResponse struct {
	data []byte
}

func (res rawResponse) id() (string, error) {
	return jsonparser.GetString(res.data, "id")
}

func (res rawResponse) err() error {
	value, dataType, _, err := jsonparser.Get(res.data, "error")
	if dataType == jsonparser.NotExist || dataType == jsonparser.Null {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if dataType != jsonparser.Object {
		return &Error{Message: string(value)}
	}

	rpcErr := &Error{}
	rpcErr.Message, _ = jsonparser.GetString(value, "message")
	rpcErr.Code, _ = jsonparser.GetInt(value, "code")
	return rpcErr
}

func (res rawResponse) result() (json.RawMessage, error) {
	var decoded struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(res.data, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return decoded.Result, nil
}

// QueryResult is the outcome of one statement of a query call.
type QueryResult struct {
	Status string          `json:"status"`
	Time   string          `json:"time,omitempty"`
	Result json.RawMessage `json:"result"`
}

// QueryError reports the first failed statement of a query.
type QueryError struct {
	Statement int
	Message   string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("statement %d failed: %s", e.Statement, e.Message)
}

func (e *QueryError) Unwrap() error {
	return ErrQuery
}
