package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff      Level = iota // no tracing
	LevelError                 // only failures
	LevelRun                   // run boundaries
	LevelProperty              // per-property spans
	LevelCase                  // per-case spans
	LevelDebug                 // everything including storage events
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelRun:
		return "run"
	case LevelProperty:
		return "property"
	case LevelCase:
		return "case"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "run":
		return LevelRun, nil
	case "property":
		return LevelProperty, nil
	case "case":
		return LevelCase, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|run|property|case|debug)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError:
		return scope == ScopeFailure
	case LevelRun:
		return scope <= ScopeRun || scope == ScopeFailure
	case LevelProperty:
		return scope <= ScopeProperty || scope == ScopeFailure
	case LevelCase:
		return scope <= ScopeCase || scope == ScopeFailure
	case LevelDebug:
		return true
	}
	return false
}
