package catalog

import "fmt"

// Apply returns c with change applied. c itself is never modified.
//
// Adding an existing brand overwrites its URL. Deleting the last brand of a
// category leaves the category in place with no brands.
func Apply(c Catalog, change Change) (Catalog, error) {
	const op = "catalog.Apply"

	next := c.Clone()

	switch change.Action {
	case ActionAdd:
		if next[change.Category] == nil {
			next[change.Category] = map[string]string{}
		}
		next[change.Category][change.Brand] = change.URL
		return next, nil

	case ActionDelete:
		brands, ok := next[change.Category]
		if !ok {
			return nil, E(op, ErrNotFound, notFoundMessage(change), nil)
		}
		if _, ok := brands[change.Brand]; !ok {
			return nil, E(op, ErrNotFound, notFoundMessage(change), nil)
		}
		delete(brands, change.Brand)
		return next, nil

	default:
		return nil, E(op, ErrInvalidAction, `Invalid action. Use "add" or "delete".`, nil)
	}
}

func notFoundMessage(change Change) string {
	return fmt.Sprintf("Brand %q not found in category %q", change.Brand, change.Category)
}
