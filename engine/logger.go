package engine

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu sync.RWMutex
	logger   *zap.Logger
)

// Logger returns the shared logger for engines and the orchestrator.
// It is a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// SetLogger installs a host-provided logger. Passing nil resets to no-op.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}
