package launcher

import (
	"github.com/rony4d/go-opera-aura/logger"
)

// DefaultConfig returns the baseline configuration the launcher uses before
// flags override it.
func DefaultConfig() Config {
	return Config{
		Logging: logger.Config{
			Verbosity: 3,      // info
			Format:    "text", // text vs json
			Color:     false,  // colors only on request, output is often piped
		},
		Spec: SpecConfig{
			Embedded: false,
		},
	}
}
