// Package fakesdb provides a fake SurrealDB WebSocket server for tests.
// It speaks the JSON-RPC protocol over a gorilla websocket, keeps a session
// per connection and answers with configurable stubs.
package fakesdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	gorilla "github.com/gorilla/websocket"
)

// FailureType selects how a stubbed request fails.
type FailureType string

const (
	// FailureNone answers normally.
	FailureNone FailureType = "none"
	// FailureNoResponse swallows the request.
	FailureNoResponse FailureType = "no_response"
	// FailureDropConnection closes the connection instead of answering.
	FailureDropConnection FailureType = "drop_connection"
)

// Request is a decoded RPC request as seen by the server.
type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params"`
}

// RequestMatcher matches requests by method and, optionally, parameters.
type RequestMatcher struct {
	Method  string
	Matcher func(params []any) bool
}

// StubResponse answers matching requests with Result or Error.
type StubResponse struct {
	Matcher RequestMatcher
	Result  any
	Error   *RPCError
	Failure FailureType
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type response struct {
	ID     string    `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *RPCError `json:"error,omitempty"`
}

type session struct {
	namespace, database, user string
}

// Server is a fake SurrealDB endpoint backed by httptest.
type Server struct {
	Username string
	Password string

	http     *httptest.Server
	upgrader gorilla.Upgrader

	mu       sync.RWMutex
	stubs    []StubResponse
	requests []Request
}

// NewServer starts a server that accepts the given root credentials.
func NewServer(username, password string) *Server {
	s := &Server{Username: username, Password: password}
	s.http = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// URL returns the websocket rpc endpoint.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.http.URL, "http") + "/rpc"
}

func (s *Server) Close() {
	s.http.CloseClientConnections()
	s.http.Close()
}

// AddStubResponse registers a stub. Earlier stubs win.
func (s *Server) AddStubResponse(stub StubResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = append(s.stubs, stub)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Request(nil), s.requests...)
}

// Queries returns the SurrealQL text of every query request.
func (s *Server) Queries() []string {
	var out []string
	for _, r := range s.Requests() {
		if r.Method == "query" && len(r.Params) > 0 {
			if sql, ok := r.Params[0].(string); ok {
				out = append(out, sql)
			}
		}
	}
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var sess session
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			_ = conn.WriteJSON(response{Error: &RPCError{Code: -32700, Message: "Parse error"}})
			continue
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		res, failure := s.handle(&sess, req)
		switch failure {
		case FailureNoResponse:
			continue
		case FailureDropConnection:
			return
		}
		if err := conn.WriteJSON(res); err != nil {
			return
		}
	}
}

func (s *Server) handle(sess *session, req Request) (response, FailureType) {
	res := response{ID: req.ID}

	switch req.Method {
	case "signin":
		creds, _ := firstParam(req).(map[string]any)
		if creds["user"] != s.Username || creds["pass"] != s.Password {
			res.Error = &RPCError{Code: -32000, Message: "There was a problem with authentication"}
			return res, FailureNone
		}
		sess.user = s.Username
		res.Result = "token"
		return res, FailureNone
	case "use":
		if len(req.Params) == 2 {
			sess.namespace, _ = req.Params[0].(string)
			sess.database, _ = req.Params[1].(string)
		}
		return res, FailureNone
	}

	if s.Username != "" && sess.user == "" {
		res.Error = &RPCError{Code: -32000, Message: "Not signed in"}
		return res, FailureNone
	}
	if sess.namespace == "" || sess.database == "" {
		res.Error = &RPCError{Code: -32000, Message: "Specify a namespace and database"}
		return res, FailureNone
	}

	if stub, ok := s.match(req); ok {
		if stub.Error != nil {
			res.Error = stub.Error
		} else {
			res.Result = stub.Result
		}
		return res, stub.Failure
	}

	if req.Method == "query" {
		// one OK result per statement
		sql, _ := firstParam(req).(string)
		var results []map[string]any
		for _, stmt := range strings.Split(sql, ";") {
			if strings.TrimSpace(stmt) != "" {
				results = append(results, map[string]any{"status": "OK", "time": "1µs", "result": []any{}})
			}
		}
		res.Result = results
		return res, FailureNone
	}

	res.Error = &RPCError{Code: -32601, Message: "Method not found"}
	return res, FailureNone
}

func (s *Server) match(req Request) (StubResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, stub := range s.stubs {
		if stub.Matcher.Method == req.Method && (stub.Matcher.Matcher == nil || stub.Matcher.Matcher(req.Params)) {
			return stub, true
		}
	}
	return StubResponse{}, false
}

func firstParam(req Request) any {
	if len(req.Params) == 0 {
		return nil
	}
	return req.Params[0]
}

// MatchMethod matches by method name only.
func MatchMethod(method string) RequestMatcher {
	return RequestMatcher{Method: method}
}

// MatchQueryContaining matches query requests whose SurrealQL contains text.
func MatchQueryContaining(text string) RequestMatcher {
	return RequestMatcher{
		Method: "query",
		Matcher: func(params []any) bool {
			if len(params) == 0 {
				return false
			}
			sql, _ := params[0].(string)
			return strings.Contains(sql, text)
		},
	}
}

// ErrorStubResponse answers every call of method with an RPC error.
func ErrorStubResponse(method string, code int, message string) StubResponse {
	return StubResponse{
		Matcher: MatchMethod(method),
		Error:   &RPCError{Code: code, Message: message},
	}
}
