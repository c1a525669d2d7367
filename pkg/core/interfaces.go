package core

// Logger interface for tracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}
