package geometry

import (
	"errors"
	"testing"
)

func TestValidate2DPolygon_Valid(t *testing.T) {
	valid := map[string]string{
		"triangle":                "POLYGON((-5947831.817748386 3856663.282401694,-839895.5592785887 8964599.540871492,805614.1078794673 3273878.6086165477,-5947831.817748386 3856663.282401694))",
		"square":                  "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))",
		"with hole":               "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (2 2, 4 2, 4 4, 2 4, 2 2))",
		"hole touches shell once": "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (0 0, 4 2, 2 4, 0 0))",
		"two disjoint holes":      "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (1 1, 3 1, 3 3, 1 3, 1 1), (6 6, 8 6, 8 8, 6 8, 6 6))",
	}
	for name, s := range valid {
		t.Run(name, func(t *testing.T) {
			if err := Validate2DPolygon(s); err != nil {
				t.Fatalf("Validate2DPolygon: %v", err)
			}
		})
	}
}

func TestValidate2DPolygon_Invalid(t *testing.T) {
	invalid := map[string]string{
		"truncated":    "POLYGON((-7647165.019711837 -483997.",
		"garbage":      "not wkt at all",
		"point":        "POINT (1 2)",
		"linestring":   "LINESTRING (0 0, 1 1)",
		"3d":           "POLYGON Z ((0 0 1, 10 0 1, 10 10 1, 0 0 1))",
		"empty":        "POLYGON EMPTY",
		"bowtie":       "POLYGON ((0 0, 10 10, 10 0, 0 10, 0 0))",
		"zero area":    "POLYGON ((0 0, 5 0, 10 0, 0 0))",
		"hole outside": "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (20 20, 30 20, 30 30, 20 20))",
		"hole crosses": "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (5 5, 15 5, 15 6, 5 6, 5 5))",
		"spike":        "POLYGON ((0 0, 10 0, 5 0, 5 5, 0 0))",
		"multipolygon": "MULTIPOLYGON (((0 0, 1 0, 1 1, 0 0)))",
		"nested holes": "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (2 2, 8 2, 8 8, 2 8, 2 2), (3 3, 4 3, 4 4, 3 4, 3 3))",
		"measured":     "POLYGON M ((0 0 1, 10 0 1, 10 10 1, 0 0 1))",
	}
	for name, s := range invalid {
		t.Run(name, func(t *testing.T) {
			err := Validate2DPolygon(s)
			if !errors.Is(err, ErrInvalidPolygon) {
				t.Fatalf("expected ErrInvalidPolygon, got %v", err)
			}
		})
	}
}
