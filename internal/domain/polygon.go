package domain

import "errors"

var (
	ErrPolygonNotFound  = errors.New("polygon not found")
	ErrDuplicatePolygon = errors.New("polygon already exists")
)

// Polygon is a user-supplied 2D shape keyed by its UUID.
type Polygon struct {
	UUID  string
	Color string
	WKT   string
}
