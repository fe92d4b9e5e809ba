// Package geometry validates user-supplied WKT shapes.
package geometry

import (
	"errors"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidPolygon is the umbrella error for anything that is not a valid, non-empty 2D polygon.
var ErrInvalidPolygon = errors.New("the wkt string is not a valid 2D polygon")

// Validate2DPolygon parses s and checks that it is a valid, non-empty polygon with XY coordinates only.
// Validity follows the OGC simple features rules. The returned error wraps ErrInvalidPolygon and
// says what was wrong.
func Validate2DPolygon(s string) error {
	// UnmarshalWKT runs the full geometry validation while constructing.
	g, err := geom.UnmarshalWKT(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
	}

	if g.Type() != geom.TypePolygon {
		return fmt.Errorf("%w: got %s", ErrInvalidPolygon, g.Type())
	}
	if ct := g.CoordinatesType(); ct != geom.DimXY {
		return fmt.Errorf("%w: coordinates type %s is not XY", ErrInvalidPolygon, ct)
	}
	if g.IsEmpty() {
		return fmt.Errorf("%w: empty polygon", ErrInvalidPolygon)
	}
	return nil
}
