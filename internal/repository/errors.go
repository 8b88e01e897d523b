// Package repository holds the durable key-value backends the review store
// persists to.  Each backend stores opaque byte values under string keys.
package repository

import "errors"

// ErrNotFound is returned by Get when a key has never been written.
// Callers treat it as an empty value rather than a failure.
var ErrNotFound = errors.New("key not found")

// ErrClosed is returned when a backend is used after Close.
var ErrClosed = errors.New("store closed")
