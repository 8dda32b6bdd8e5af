package cache

import (
	"encoding/json"
	"errors"
	"net"
	"time"
)

// Client implements Store over the cache daemon's Unix socket.
// Entries are stamped by the daemon's clock.
type Client struct {
	socketPath string
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

func (c *Client) withConn(fn func(conn net.Conn) error) error {
	conn, err := net.DialTimeout("unix", c.socketPath, 500*time.Millisecond)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func (c *Client) roundTrip(req Request) (Response, error) {
	var resp Response
	err := c.withConn(func(conn net.Conn) error {
		enc := json.NewEncoder(conn)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(&req); err != nil {
			return err
		}
		return json.NewDecoder(conn).Decode(&resp)
	})
	if err != nil {
		return Response{}, err
	}
	if !resp.OK {
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}

// Load is a no-op; the daemon owns the data.
func (c *Client) Load() error { return nil }

func (c *Client) Get(key string) (Entry, bool, error) {
	resp, err := c.roundTrip(Request{Op: "get", Key: key})
	if err != nil {
		return Entry{}, false, &StoreError{Op: "get", Path: c.socketPath, Err: err}
	}
	if !resp.Found {
		return Entry{}, false, nil
	}
	return Entry{FetchedAt: time.UnixMilli(resp.FetchedAt), Value: cloneValue(resp.Value)}, true, nil
}

func (c *Client) Put(key string, value json.RawMessage) error {
	if _, err := c.roundTrip(Request{Op: "put", Key: key, Value: value}); err != nil {
		return &StoreError{Op: "put", Path: c.socketPath, Err: err}
	}
	return nil
}
