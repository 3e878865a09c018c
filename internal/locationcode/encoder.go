// Package locationcode derives the short location codes printed on hydrant
// proposals. The code is a compact fingerprint of a coordinate in the
// "XXXX+XX" shape of a plus code; it is not an Open Location Code and distinct
// coordinates can collide.
package locationcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/benmeehan/hydrant-survey/internal/models"
)

const (
	latitudeMax  = 90
	longitudeMax = 180

	// boundaryEpsilon keeps +90/+180 off the upper edge of the grid.
	boundaryEpsilon = 0.00000001

	// gridScale and piApprox must stay as-is: codes already issued in the
	// field were computed with exactly these factors, in this order.
	gridScale = 8000
	piApprox  = 3.14159

	// CodeLength is the length of an encoded fragment, separator included.
	CodeLength = 7
)

// Encode returns the location code fragment for the given coordinate.
func Encode(c models.Coordinate) string {
	lat := math.Min(math.Max(c.Latitude, -latitudeMax), latitudeMax)
	lng := math.Min(math.Max(c.Longitude, -longitudeMax), longitudeMax)

	if lat == latitudeMax {
		lat -= boundaryEpsilon
	}
	if lng == longitudeMax {
		lng -= boundaryEpsilon
	}

	lat += latitudeMax
	lng += longitudeMax

	latVal := int64(math.Floor(lat * gridScale * piApprox))
	lngVal := int64(math.Floor(lng * gridScale * piApprox))

	combined := fmt.Sprintf("%08X", latVal^lngVal)
	return combined[0:4] + "+" + combined[4:6]
}

// Region is the fixed locality/province/country suffix of display codes.
type Region struct {
	Locality string
	Province string
	Country  string
}

// String joins the non-empty region parts with ", ".
func (r Region) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Locality, r.Province, r.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// DisplayCode composes the full display string: code, survey area, then region.
func DisplayCode(code, area string, region Region) string {
	parts := []string{code}
	if a := strings.TrimSpace(area); a != "" {
		parts = append(parts, a)
	}
	if r := region.String(); r != "" {
		parts = append(parts, r)
	}
	return strings.Join(parts, ", ")
}
