package telescope

import (
	"math"

	"github.com/skao-tools/arraymodel/pkg/errors"
)

// ReferenceStation is the station whose orientation defines zero relative
// rotation for the rest of the array.
const ReferenceStation = "S8-1"

// RotationTable maps station labels to their as-built rotation angles in
// degrees East of North (clockwise). All relative rotations are computed
// against the reference station S8-1, which must be present in the table.
// The table is read-only after construction.
type RotationTable struct {
	angles    map[string]float64
	reference float64
}

// NewRotationTable builds a rotation table from per-station angles.
// Returns an INVALID_DATA error when the reference station is missing.
func NewRotationTable(angles map[string]float64) (*RotationTable, error) {
	ref, ok := angles[ReferenceStation]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidData,
			"rotation table is missing reference station %s", ReferenceStation)
	}
	copied := make(map[string]float64, len(angles))
	for label, deg := range angles {
		copied[label] = deg
	}
	return &RotationTable{angles: copied, reference: ref}, nil
}

// Len returns the number of stations in the table.
func (t *RotationTable) Len() int {
	return len(t.angles)
}

// ReferenceAngle returns the absolute rotation of the reference station in
// degrees East of North.
func (t *RotationTable) ReferenceAngle() float64 {
	return t.reference
}

// Angle returns the absolute rotation of a station in degrees East of
// North. Returns an INVALID_STATION error for labels not in the table.
func (t *RotationTable) Angle(label string) (float64, error) {
	deg, ok := t.angles[label]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidStation,
			"no rotation angle for station %q", label)
	}
	return deg, nil
}

// Relative returns the rotation of a station relative to the reference
// orientation, in radians, ready for [Point.Rotate]. Rotation angles are
// given clockwise (East of North) while Rotate is counter-clockwise, so the
// relative angle is reference − station. The reference station itself maps
// to exactly 0.
func (t *RotationTable) Relative(label string) (float64, error) {
	if label == ReferenceStation {
		return 0, nil
	}
	deg, err := t.Angle(label)
	if err != nil {
		return 0, err
	}
	return Radians(t.reference - deg), nil
}

// FeedAngle converts an absolute East-of-North rotation in degrees to the
// counter-clockwise feed/element angle expected by beam simulation tools,
// normalized to [0, 360).
func FeedAngle(angleDeg float64) float64 {
	feed := math.Mod(90.0-angleDeg, 360.0)
	if feed < 0 {
		feed += 360.0
	}
	return feed
}
