// Package surrealrpc is a small SurrealDB JSON-RPC client over a gorilla
// websocket connection.
package surrealrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// CloseMessageCode is the websocket close code sent on Close.
	CloseMessageCode = 1000
	DefaultTimeout   = 30 * time.Second
)

var (
	ErrIDInUse         = errors.New("id already in use")
	ErrTimeout         = errors.New("timeout")
	ErrClosed          = errors.New("connection closed")
	ErrInvalidResponse = errors.New("invalid SurrealDB response")
	ErrQuery           = errors.New("error occurred processing the SurrealDB query")
)

type Option func(c *Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// Client multiplexes requests over one websocket. Responses are matched to
// callers by request id.
type Client struct {
	conn     *gorilla.Conn
	connLock sync.Mutex
	timeout  time.Duration
	log      zerolog.Logger

	responseChannels     map[string]chan rawResponse
	responseChannelsLock sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the rpc endpoint, e.g. ws://localhost:8000/rpc.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	dialer := *gorilla.DefaultDialer
	dialer.EnableCompression = true

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		conn:             conn,
		timeout:          DefaultTimeout,
		log:              zerolog.Nop(),
		responseChannels: make(map[string]chan rawResponse),
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.readLoop()
	return c, nil
}

// Send issues method with params and returns the raw result.
func (c *Client) Send(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	select {
	case <-c.done:
		return nil, ErrClosed
	default:
	}

	id := uuid.NewString()
	responseChan, err := c.createResponseChannel(id)
	if err != nil {
		return nil, err
	}
	defer c.removeResponseChannel(id)

	if err := c.write(&Request{ID: id, Method: method, Params: params}); err != nil {
		return nil, err
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("%w: %s", ErrTimeout, method)
	case <-c.done:
		return nil, ErrClosed
	case res := <-responseChan:
		if err := res.err(); err != nil {
			return nil, err
		}
		return res.result()
	}
}

// SignIn authenticates as a root or namespace user.
func (c *Client) SignIn(ctx context.Context, user, pass string) error {
	_, err := c.Send(ctx, "signin", map[string]any{"user": user, "pass": pass})
	return err
}

// Use selects the namespace and database of subsequent queries.
func (c *Client) Use(ctx context.Context, namespace, database string) error {
	_, err := c.Send(ctx, "use", namespace, database)
	return err
}

// Query runs SurrealQL with vars. A failed statement is returned as a
// *QueryError.
func (c *Client) Query(ctx context.Context, sql string, vars map[string]any) ([]QueryResult, error) {
	raw, err := c.Send(ctx, "query", sql, vars)
	if err != nil {
		return nil, err
	}

	var results []QueryResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	for i, r := range results {
		if r.Status != "OK" {
			var msg string
			if err := json.Unmarshal(r.Result, &msg); err != nil {
				msg = string(r.Result)
			}
			return results, &QueryError{Statement: i, Message: msg}
		}
	}
	return results, nil
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.connLock.Lock()
		err = c.conn.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(CloseMessageCode, ""))
		c.connLock.Unlock()
		if cerr := c.conn.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

func (c *Client) createResponseChannel(id string) (chan rawResponse, error) {
	c.responseChannelsLock.Lock()
	defer c.responseChannelsLock.Unlock()

	if _, ok := c.responseChannels[id]; ok {
		return nil, fmt.Errorf("%w: %v", ErrIDInUse, id)
	}
	ch := make(chan rawResponse, 1)
	c.responseChannels[id] = ch
	return ch, nil
}

func (c *Client) removeResponseChannel(id string) {
	c.responseChannelsLock.Lock()
	defer c.responseChannelsLock.Unlock()
	delete(c.responseChannels, id)
}

func (c *Client) getResponseChannel(id string) (chan rawResponse, bool) {
	c.responseChannelsLock.RLock()
	defer c.responseChannelsLock.RUnlock()
	ch, ok := c.responseChannels[id]
	return ch, ok
}

func (c *Client) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.connLock.Lock()
	defer c.connLock.Unlock()
	return c.conn.WriteMessage(gorilla.TextMessage, data)
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Error().Err(err).Msg("websocket read failed")
				c.closeOnce.Do(func() {
					close(c.done)
					c.conn.Close()
				})
			}
			return
		}
		c.handleResponse(rawResponse{data: data})
	}
}

func (c *Client) handleResponse(res rawResponse) {
	id, err := res.id()
	if err != nil {
		// notifications carry no request id
		c.log.Debug().Bytes("message", res.data).Msg("ignoring message without id")
		return
	}
	ch, ok := c.getResponseChannel(id)
	if !ok {
		c.log.Warn().Str("id", id).Msg("unavailable response channel")
		return
	}
	ch <- res
}
