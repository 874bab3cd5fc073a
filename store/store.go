// Package store abstracts the document-store primitives the services consume:
// point reads, keyed writes, server-assigned-id creation, partial field
// updates with atomic increments, and equality-filtered queries. Two
// implementations exist: Mongo for production and an in-memory store for
// tests and local development.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document id or update target does not exist.
	ErrNotFound = errors.New("store: document not found")
	// ErrExists is returned by Insert when the id is already taken.
	ErrExists = errors.New("store: document already exists")
)

// Filter is an equality condition on a bson field (dotted paths allowed).
type Filter struct {
	Field string
	Value any
}

// Query describes an equality-filtered, optionally ordered and limited fetch.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int64
}

// Update describes a partial document mutation. Field keys may use dotted
// paths ("engagement.likes"). IncFloor increments are clamped at zero so a
// racing decrement can never drive a counter negative.
type Update struct {
	Set      map[string]any
	Inc      map[string]int64
	IncFloor map[string]int64
}

func (u Update) empty() bool {
	return len(u.Set) == 0 && len(u.Inc) == 0 && len(u.IncFloor) == 0
}

// Store is the document-store surface shared by all services.
type Store interface {
	// Get decodes the document with the given id into out, or ErrNotFound.
	Get(ctx context.Context, collection, id string, out any) error
	// Insert creates a document at a caller-chosen id, failing with ErrExists
	// if the id is taken. Used for atomic reservations (usernames).
	Insert(ctx context.Context, collection, id string, doc any) error
	// Put creates or replaces the document at a caller-chosen id.
	// Used for composite-id documents (likes, saves).
	Put(ctx context.Context, collection, id string, doc any) error
	// Create stores a document under a newly assigned id and returns it.
	Create(ctx context.Context, collection string, doc any) (string, error)
	// Update applies a partial mutation to one document, or ErrNotFound.
	Update(ctx context.Context, collection, id string, upd Update) error
	// UpdateMany applies a partial mutation to every matching document and
	// returns the number modified.
	UpdateMany(ctx context.Context, collection string, filters []Filter, upd Update) (int64, error)
	// Delete removes one document, or ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
	// DeleteMany removes every matching document and returns the number removed.
	DeleteMany(ctx context.Context, collection string, filters []Filter) (int64, error)
	// Query decodes all matching documents into out, which must be a
	// pointer to a slice.
	Query(ctx context.Context, collection string, q Query, out any) error
	// Count returns the number of matching documents.
	Count(ctx context.Context, collection string, filters ...Filter) (int64, error)
}
