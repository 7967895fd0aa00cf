// Package logger provides the shared application logger.
package logger

import (
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	root hclog.Logger
	mu   sync.Mutex
)

// Configure replaces the root logger. Level is one of trace, debug, info,
// warn, error; format is "json" or "text".
func Configure(level, format string) {
	mu.Lock()
	defer mu.Unlock()
	root = hclog.New(&hclog.LoggerOptions{
		Name:       "cinemind",
		Level:      hclog.LevelFromString(level),
		JSONFormat: format == "json",
		Output:     os.Stdout,
	})
}

// Get returns the root logger, configuring a default one on first use.
func Get() hclog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		root = hclog.New(&hclog.LoggerOptions{
			Name:  "cinemind",
			Level: hclog.Info,
		})
	}
	return root
}

// Named returns a child logger for the given subsystem.
func Named(name string) hclog.Logger {
	return Get().Named(name)
}
