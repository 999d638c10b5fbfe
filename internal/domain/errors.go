package domain

import "errors"

var (
	// ErrCatalogEmpty is returned when a catalog source yields no items.
	ErrCatalogEmpty = errors.New("quiz catalog is empty")
	// ErrInvalidQuizItem indicates an item breaks the catalog invariants.
	ErrInvalidQuizItem = errors.New("invalid quiz item")
	// ErrCatalogNotLoaded is returned when the game is used before Start.
	ErrCatalogNotLoaded = errors.New("quiz catalog not loaded")
	// ErrOptionNotFound indicates a selected word is not an option of the current item.
	ErrOptionNotFound = errors.New("option not found")
	// ErrUnsupportedCatalogFormat is returned for catalog files with an unknown extension.
	ErrUnsupportedCatalogFormat = errors.New("unsupported catalog format")
	// ErrKeyNotFound is returned by key-value stores for a missing key.
	ErrKeyNotFound = errors.New("key not found")
)
