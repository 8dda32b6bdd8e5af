package cache

import (
	"encoding/json"
	"errors"
	"net"
)

// Serve accepts connections on l and answers cache protocol requests against s
// until l is closed.
func Serve(l net.Listener, s Store) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}
		go handleConn(conn, s)
	}
}

func handleConn(conn net.Conn, s Store) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	enc.SetEscapeHTML(false)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		switch req.Op {
		case "get":
			e, found, err := s.Get(req.Key)
			if err != nil {
				_ = enc.Encode(Response{OK: false, Error: err.Error()})
				continue
			}
			if !found {
				_ = enc.Encode(Response{OK: true})
				continue
			}
			_ = enc.Encode(Response{OK: true, Found: true, Value: e.Value, FetchedAt: e.FetchedAt.UnixMilli()})
		case "put":
			if err := s.Put(req.Key, req.Value); err != nil {
				_ = enc.Encode(Response{OK: false, Error: err.Error()})
				continue
			}
			_ = enc.Encode(Response{OK: true})
		default:
			_ = enc.Encode(Response{OK: false, Error: "unknown op"})
		}
	}
}
