// Package logging wraps the standard logger with a small "[STAGE] message"
// prefixing convention, used instead of a structured logging library the
// rest of the stack doesn't carry.
package logging

import "log"

// Warnf logs a warning line tagged with a stage/component name.
func Warnf(tag, format string, args ...interface{}) {
	log.Printf("[%s] WARN: "+format, append([]interface{}{tag}, args...)...)
}

// Infof logs an informational line tagged with a stage/component name.
func Infof(tag, format string, args ...interface{}) {
	log.Printf("[%s] "+format, append([]interface{}{tag}, args...)...)
}

// Errorf logs an error line tagged with a stage/component name.
func Errorf(tag, format string, args ...interface{}) {
	log.Printf("[%s] ERROR: "+format, append([]interface{}{tag}, args...)...)
}
