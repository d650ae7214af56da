// Package store implements the two catalog backing stores: the published
// site itself (redeploy) and a file in a GitHub repository (commit).
package store

import (
	"bytes"
	"encoding/json"

	"github.com/sundayezeilo/brandcatalog/internal/catalog"
)

// encodeCatalog serializes c without HTML escaping. A non-empty indent
// produces the pretty form committed to the repository.
func encodeCatalog(c catalog.Catalog, indent string) ([]byte, error) {
	if c == nil {
		c = catalog.Catalog{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// decodeCatalog parses a catalog document. Empty and null documents are
// empty catalogs.
func decodeCatalog(data []byte) (catalog.Catalog, error) {
	var c catalog.Catalog
	if len(bytes.TrimSpace(data)) == 0 {
		return catalog.Catalog{}, nil
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = catalog.Catalog{}
	}
	return c, nil
}
