// Package testing switches the process into test mode when imported by a
// test binary, so wiring code skips Redis and Gotenberg dial-outs.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("WORKLOAD_TEST_MODE", "1")
		if os.Getenv("GOTENBERG_URL") == "" {
			_ = os.Setenv("GOTENBERG_URL", "http://127.0.0.1:0")
		}
		if os.Getenv("CACHE_ENABLED") == "" {
			_ = os.Setenv("CACHE_ENABLED", "false")
		}
	})
}

func init() {
	ensureTestMode()
}

// TestMain is usable as a package TestMain that guarantees test mode.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
