// Package store holds the canonical, read-only collection of events and
// answers the two queries the rest of the application needs: a filtered,
// newest-first listing and a lookup by ID.
//
// A Store is built once at startup, either from the built-in sample records or
// from a JSON file, and is never mutated afterwards. Reads hand out copies, so
// a Store is safe for concurrent use without locking.
package store
