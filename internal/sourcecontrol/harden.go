package sourcecontrol

import (
	"log/slog"
	"os"
	"sync"
)

var hardenOnce sync.Once

// hardenGitEnvironment disables host-level git configuration for this
// process. Synchronization commits must carry exactly the identity the
// request supplies, so system and user git settings are never consulted.
func hardenGitEnvironment() {
	hardenOnce.Do(func() {
		for key, value := range map[string]string{
			"GIT_CONFIG_NOSYSTEM": "1",
			"GIT_CONFIG_SYSTEM":   os.DevNull,
			"GIT_CONFIG_GLOBAL":   os.DevNull,
		} {
			if err := os.Setenv(key, value); err != nil {
				slog.Warn("Failed to set git environment variable", "key", key, "error", err)
			}
		}
		slog.Debug("Host git configuration disabled for this process")
	})
}
