package catalog

import "context"

// Store is a backing store for the catalog document.
type Store interface {
	// Fetch reads the whole current catalog and its version token.
	Fetch(ctx context.Context) (Document, error)

	// Publish writes doc back and gets it deployed. doc.Version is the token
	// returned by Fetch. The returned Publication reports partial progress
	// even when an error is returned.
	Publish(ctx context.Context, doc Document, change Change) (Publication, error)
}
