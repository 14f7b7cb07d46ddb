// Package telescope models the SKA-Low array layout: staged telescope
// configurations, station positions, the shared antenna template, per-station
// rotation angles, and the generated layout that combines them.
//
// All values are plain immutable data. The only computation of substance is
// the 2D rotation applied to antenna offsets relative to the reference
// station (see [Generate]); everything else is bookkeeping around it.
package telescope

import (
	"encoding/json"

	"github.com/skao-tools/arraymodel/pkg/errors"
)

// Telescope identifies one of the staged SKA-Low array assembly
// configurations. The stages are nested: every station in AA0.5 is also part
// of AA1, and so on up to the full AA4 array.
type Telescope int

// Supported array assembly configurations, ordered by deployment stage.
const (
	AA0_5 Telescope = iota // 4 stations
	AA1                    // 18 stations
	AA2                    // 64 stations
	AAStar                 // 307 stations
	AA4                    // full 512-station array
)

// names maps configurations to their canonical identifiers as accepted on
// the command line and reported in output.
var names = map[Telescope]string{
	AA0_5:  "AA0.5",
	AA1:    "AA1",
	AA2:    "AA2",
	AAStar: "AAstar",
	AA4:    "AA4",
}

// Parse converts a telescope identifier string into a Telescope.
// Returns an INVALID_TELESCOPE error for unrecognized identifiers.
func Parse(s string) (Telescope, error) {
	for t, name := range names {
		if s == name {
			return t, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidTelescope,
		"unknown telescope: %q (must be one of: AA0.5, AA1, AA2, AAstar, AA4)", s)
}

// All returns the supported configurations in stage order.
func All() []Telescope {
	return []Telescope{AA0_5, AA1, AA2, AAStar, AA4}
}

// String returns the canonical identifier, e.g. "AA0.5".
func (t Telescope) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return "unknown"
}

// CatalogName returns the identifier used by the array-configuration
// catalog. It differs from String only for AAstar, which the catalog
// knows as "AA*".
func (t Telescope) CatalogName() string {
	if t == AAStar {
		return "AA*"
	}
	return t.String()
}

// MarshalJSON encodes the telescope as its canonical identifier.
func (t Telescope) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a canonical identifier.
func (t *Telescope) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Contains reports whether stations first deployed in stage other are part
// of this configuration. Stages are nested supersets, so this is a simple
// ordering comparison.
func (t Telescope) Contains(other Telescope) bool {
	return other <= t
}

// Geodetic is a WGS84 longitude/latitude pair in degrees.
type Geodetic struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Station is a physical sub-array unit: a label and a position in the
// array's local east/north/up tangent-plane frame, in metres.
type Station struct {
	Label string  `json:"label"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
	Up    float64 `json:"up"`
}

// Array is the set of stations belonging to one telescope configuration,
// as returned by the catalog provider. Stations preserve catalog order.
type Array struct {
	Telescope Telescope `json:"-"`
	Center    Geodetic  `json:"center"`
	Stations  []Station `json:"stations"`
}
