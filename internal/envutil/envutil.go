// Package envutil provides the environment-variable helpers described as an
// external collaborator in §6: lookup that treats a set-but-empty variable
// as absent, and typed-config resolution with a default on parse failure.
//
// This is out-of-scope ambient glue, not part of the correctness-critical
// core; it exists only to delineate the boundary the core sits behind.
package envutil

import (
	"os"
	"strconv"

	"github.com/habicore/pkgcore/internal/logging"
)

// Var fetches the environment variable key, returning ok=false if it is
// either unset or set to the empty string.
func Var(key string) (value string, ok bool) {
	val, present := os.LookupEnv(key)
	if !present || val == "" {
		return "", false
	}
	return val, true
}

// IntConfig resolves an integer-typed configuration value from the
// environment variable envVar. If the variable is absent, empty, or fails
// to parse as an int, def is returned instead; only a parse failure is
// logged (at warn level), and a parsed value is logged at debug level,
// mirroring the source's Config::configured_value.
func IntConfig(envVar string, def int) int {
	val, ok := Var(envVar)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		logging.Warn("found %q in environment, but value %q was unparsable; using default %d instead", envVar, val, def)
		return def
	}
	logging.Debug("found %q in environment; using value %q", envVar, val)
	return parsed
}

// BoolConfig resolves a boolean-typed configuration value from the
// environment variable envVar, with the same absent/empty/unparseable
// fallback discipline as IntConfig.
func BoolConfig(envVar string, def bool) bool {
	val, ok := Var(envVar)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		logging.Warn("found %q in environment, but value %q was unparsable; using default %t instead", envVar, val, def)
		return def
	}
	logging.Debug("found %q in environment; using value %q", envVar, val)
	return parsed
}

// StringConfig resolves a string-typed configuration value from the
// environment variable envVar, falling back to def when absent or empty.
func StringConfig(envVar, def string) string {
	val, ok := Var(envVar)
	if !ok {
		return def
	}
	return val
}
