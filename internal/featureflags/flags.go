package featureflags

import (
	"os"
	"strings"
)

// StrictTransitionsFlag gates per-entity status transition tables
const StrictTransitionsFlag = "STRICT_TRANSITIONS"

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// StrictTransitions reports whether illegal status moves are rejected.
// Off by default: any status may overwrite any other.
func StrictTransitions() bool {
	return Enabled(StrictTransitionsFlag)
}
