package reference

import (
	_ "embed"
)

//go:embed data/default.yaml
var defaultDocument []byte

// Default returns the built-in reference data.
func Default() (*Registry, error) {
	return Parse(defaultDocument)
}

// DefaultDocument returns the built-in reference data without building it.
func DefaultDocument() (Document, error) {
	return ParseDocument(defaultDocument)
}
