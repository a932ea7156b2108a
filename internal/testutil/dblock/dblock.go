// Package dblock serializes tests that truncate the shared Postgres
// database. Packages run as separate processes, so the lock is a TCP port.
package dblock

import (
	"net"
	"testing"
	"time"
)

const (
	lockAddr    = "127.0.0.1:45433"
	waitTimeout = 2 * time.Minute
)

// Acquire blocks until the lock is held and releases it when t finishes.
func Acquire(t testing.TB) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for {
		ln, err := net.Listen("tcp", lockAddr)
		if err == nil {
			t.Cleanup(func() { _ = ln.Close() })
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for database lock: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
