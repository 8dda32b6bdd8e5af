package cache

import "encoding/json"

// Simple JSON protocol for the cache daemon over a Unix domain socket.
// One request -> one response using json.Encoder/Decoder per connection.

type Request struct {
	Op    string          `json:"op"` // "get" | "put"
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value,omitempty"`
}

type Response struct {
	OK        bool            `json:"ok"`
	Found     bool            `json:"found,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
	FetchedAt int64           `json:"fetched_at,omitempty"` // epoch milliseconds
	Error     string          `json:"error,omitempty"`
}
