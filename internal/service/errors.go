package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrProfileNotFound    = errors.New("pricing profile not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrPersistence        = errors.New("profile store unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports request problems found before any price is
// computed. Fields is keyed by JSON path, e.g. "rows[1].productId".
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates ValidationError entries; err is nil while empty.
type fieldErrors map[string]string

func (f fieldErrors) add(path, msg string) {
	if _, exists := f[path]; !exists {
		f[path] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: map[string]string(f)}
}
