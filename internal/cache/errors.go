package cache

import "fmt"

// StoreError reports a failure of the backing storage of a Store.
type StoreError struct {
	Op   string // "load", "get" or "put"
	Path string // file, database or socket path; empty for memory
	Err  error
}

func (e *StoreError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cache: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
