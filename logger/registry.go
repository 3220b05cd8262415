package logger

import (
	"sync"
)

// named holds the per-package loggers, such as "rx" for stream protocol
// events and "relay" for channel lifecycle.
var named = struct {
	sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register installs l under name. Packages resolve their logger on each
// use, so registering a replacement silences or captures one package
// without touching the others.
func Register(name string, l *Logger) {
	named.Lock()
	defer named.Unlock()
	named.loggers[name] = l
}

// Unregister drops name; Get derives it from the global logger again.
func Unregister(name string) {
	named.Lock()
	defer named.Unlock()
	delete(named.loggers, name)
}

// Get returns the logger registered under name, or the global logger with
// its component field set to name.
func Get(name string) *Logger {
	named.RLock()
	l, ok := named.loggers[name]
	named.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults pins a component logger for each name, derived from the
// global logger as configured at the time of the call. Call it after Init
// so the rx and relay loggers pick up the configured level and format.
func RegisterDefaults(names ...string) {
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
