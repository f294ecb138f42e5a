// Package store provides the key/value stores that templates and scripts
// read and write across requests.
package store

// Store is a named key/value bucket. Implementations must be safe for
// concurrent use: many requests read and write stores simultaneously.
type Store interface {
	// TypeDescription identifies the backing implementation ("memory", ...).
	TypeDescription() string

	// Save stores or replaces the value under key.
	Save(key string, value any)

	// Load retrieves the value under key. The second return reports presence.
	Load(key string) (any, bool)

	// Delete removes the value under key, if present.
	Delete(key string)

	// LoadAll returns a snapshot copy of the store's contents.
	LoadAll() map[string]any

	// HasItemWithKey reports whether key is present.
	HasItemWithKey(key string) bool

	// Count returns the number of items in the store.
	Count() int
}

// Factory opens named stores, creating them on first use.
type Factory interface {
	// Open returns the store with the given name, creating it if needed.
	Open(name string) Store

	// Names lists the stores that exist so far.
	Names() []string
}
