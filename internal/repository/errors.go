// Package repository contains data access logic separated from HTTP
// handlers. Two SQLite databases back the service: the catalog database
// (anime, tags, reviews, notifications) and the users database (users,
// sessions, profile aggregates). Repositories return plain records from
// internal/model and sentinel errors defined here so handlers can map
// failures to HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers
// translate it into 404 (or 401 for session lookups).
var ErrNotFound = errors.New("not found")
