package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// env returns the first of keys that is set and parses, or def.
func env[T any](def T, parse func(string) (T, error), keys ...string) T {
	for _, key := range keys {
		raw, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if v, err := parse(raw); err == nil {
			return v
		}
	}
	return def
}

func asString(s string) (string, error) { return s, nil }

func getEnv(def string, keys ...string) string {
	return env(def, asString, keys...)
}

func getEnvAsInt(def int, keys ...string) int {
	return env(def, strconv.Atoi, keys...)
}

func getEnvAsBool(def bool, keys ...string) bool {
	return env(def, strconv.ParseBool, keys...)
}

func getEnvAsDuration(def time.Duration, keys ...string) time.Duration {
	return env(def, time.ParseDuration, keys...)
}

// getEnvAsStringSlice splits a comma separated list, dropping blanks. An empty
// result falls back to def.
func getEnvAsStringSlice(def []string, keys ...string) []string {
	out := env[[]string](nil, func(raw string) ([]string, error) {
		var parts []string
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				parts = append(parts, p)
			}
		}
		return parts, nil
	}, keys...)
	if len(out) == 0 {
		return def
	}
	return out
}

func normalize(s, def string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	return s
}
