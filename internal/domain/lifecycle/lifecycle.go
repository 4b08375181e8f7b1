// Package lifecycle holds shared constants for component startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds graceful start/stop operations such as HTTP server
// shutdown and initial database pings.
const DefaultTimeout = 10 * time.Second
