package cfg

import (
	"fmt"
	"math"
)

// Validate rejects illegal field combinations, matching the teacher's
// cfg/validate.go style of a single function returning the first error
// found rather than accumulating all of them.
func Validate(c Config) error {
	if c.Engine.MaxHandles <= 1 {
		return fmt.Errorf("cfg: engine.max-handles must be greater than 1 (handle 0 is reserved), got %d", c.Engine.MaxHandles)
	}
	if c.Engine.InitialFileCapacity < 0 || c.Engine.InitialFileCapacity > math.MaxInt32 {
		return fmt.Errorf("cfg: engine.initial-file-capacity out of range: %d", c.Engine.InitialFileCapacity)
	}
	if c.Engine.ReallocSlack < 0 || c.Engine.ReallocSlack > math.MaxInt32 {
		return fmt.Errorf("cfg: engine.realloc-slack out of range: %d", c.Engine.ReallocSlack)
	}
	if c.Engine.MountName == "" {
		return fmt.Errorf("cfg: engine.mount-name must not be empty")
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("cfg: logging.format must be %q or %q, got %q", "text", "json", c.Logging.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("cfg: metrics.addr must not be empty when metrics.enabled is true")
	}

	return nil
}
