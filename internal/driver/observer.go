package driver

import "log"

// ConsoleLogger writes progress through the standard log package.
type ConsoleLogger struct{}

// Printf implements Logger.
func (ConsoleLogger) Printf(format string, v ...any) {
	log.Printf(format, v...)
}
