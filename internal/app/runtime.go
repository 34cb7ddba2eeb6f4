package app

import (
	"os"
	"sync"
)

const testModeEnv = "WORKLOAD_TEST_MODE"

// InTestMode reports whether WORKLOAD_TEST_MODE=1 was set when first asked.
// Binaries check it to skip dialing Redis and Gotenberg under go test.
var InTestMode = sync.OnceValue(func() bool {
	return os.Getenv(testModeEnv) == "1"
})
