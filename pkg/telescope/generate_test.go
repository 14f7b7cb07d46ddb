package telescope

import (
	"testing"
)

// testInputs builds a small AA0.5-sized array with a four-antenna template
// and rotation angles for every station.
func testInputs(t *testing.T) (*Array, Template, *RotationTable) {
	t.Helper()

	arr := &Array{
		Telescope: AA0_5,
		Center:    Geodetic{Lon: 116.69345390, Lat: -26.86371635},
		Stations: []Station{
			{Label: "S8-1", East: 10.0, North: -20.0, Up: 1.5},
			{Label: "S9-2", East: -45.0, North: 12.0, Up: 0.2},
			{Label: "E1-1", East: 300.0, North: 75.5, Up: -0.8},
			{Label: "N4-3", East: -120.0, North: -310.0, Up: 2.1},
		},
	}

	tmpl := Template{
		{X: 1.5, Y: 0.0},
		{X: 0.0, Y: 2.5},
		{X: -1.25, Y: -1.25},
		{X: 3.0, Y: -0.5},
	}

	rot, err := NewRotationTable(map[string]float64{
		"S8-1": 251.3,
		"S9-2": 251.3,
		"E1-1": 101.3,
		"N4-3": 340.0,
	})
	if err != nil {
		t.Fatal(err)
	}

	return arr, tmpl, rot
}

func TestGenerateCounts(t *testing.T) {
	arr, tmpl, rot := testInputs(t)

	layout, err := Generate(arr, tmpl, rot, GenerateOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if layout.StationCount() != len(arr.Stations) {
		t.Errorf("station count = %d, want %d", layout.StationCount(), len(arr.Stations))
	}
	if layout.AntennaCount() != len(tmpl) {
		t.Errorf("antenna count = %d, want %d", layout.AntennaCount(), len(tmpl))
	}
	for _, sl := range layout.Stations {
		if len(sl.Offsets) != len(tmpl) {
			t.Errorf("station %s has %d offsets, want %d", sl.Label, len(sl.Offsets), len(tmpl))
		}
	}
}

func TestGeneratePreservesStationOrder(t *testing.T) {
	arr, tmpl, rot := testInputs(t)

	layout, err := Generate(arr, tmpl, rot, GenerateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for i, sl := range layout.Stations {
		if sl.Label != arr.Stations[i].Label {
			t.Errorf("station %d = %s, want %s (catalog order)", i, sl.Label, arr.Stations[i].Label)
		}
	}
}

// The reference station has zero relative rotation by definition, so its
// absolute antenna positions must equal template plus station position
// exactly, with no floating-point drift.
func TestGenerateReferenceStationExact(t *testing.T) {
	arr, tmpl, rot := testInputs(t)

	layout, err := Generate(arr, tmpl, rot, GenerateOptions{})
	if err != nil {
		t.Fatal(err)
	}

	ref := layout.Station(ReferenceStation)
	if ref == nil {
		t.Fatal("reference station missing from layout")
	}
	for i, off := range ref.Offsets {
		if off != tmpl[i] {
			t.Errorf("offset %d = %+v, want template %+v exactly", i, off, tmpl[i])
		}
	}
	abs := ref.Antennas()
	for i, p := range abs {
		want := tmpl[i].Add(Point{X: ref.East, Y: ref.North})
		if p != want {
			t.Errorf("antenna %d = %+v, want %+v exactly", i, p, want)
		}
	}
}

// A station with the same absolute orientation as the reference gets the
// identity transform: offsets equal the template within tolerance.
func TestGenerateSameOrientationIdentity(t *testing.T) {
	arr, tmpl, rot := testInputs(t)

	layout, err := Generate(arr, tmpl, rot, GenerateOptions{})
	if err != nil {
		t.Fatal(err)
	}

	st := layout.Station("S9-2")
	if st == nil {
		t.Fatal("S9-2 missing from layout")
	}
	for i, off := range st.Offsets {
		if !off.Near(tmpl[i], tol) {
			t.Errorf("offset %d = %+v, want template %+v", i, off, tmpl[i])
		}
	}
}

func TestGenerateRotatedStation(t *testing.T) {
	arr, tmpl, rot := testInputs(t)

	layout, err := Generate(arr, tmpl, rot, GenerateOptions{})
	if err != nil {
		t.Fatal(err)
	}

	// E1-1 sits 150 degrees from the reference orientation.
	st := layout.Station("E1-1")
	if st == nil {
		t.Fatal("E1-1 missing from layout")
	}
	rad := Radians(150)
	for i, off := range st.Offsets {
		want := tmpl[i].Rotate(rad)
		if !off.Near(want, tol) {
			t.Errorf("offset %d = %+v, want %+v", i, off, want)
		}
	}
	if st.AngleDeg != 101.3 {
		t.Errorf("AngleDeg = %v, want 101.3", st.AngleDeg)
	}
	wantFeed := FeedAngle(101.3)
	if st.FeedAngleDeg != wantFeed {
		t.Errorf("FeedAngleDeg = %v, want %v", st.FeedAngleDeg, wantFeed)
	}
}

// With station rotation disabled, every station takes the reference
// orientation: relative antenna offsets must be bitwise identical across
// all stations, while positions still differ.
func TestGenerateNoStationRotation(t *testing.T) {
	arr, tmpl, rot := testInputs(t)

	layout, err := Generate(arr, tmpl, rot, GenerateOptions{NoStationRotation: true})
	if err != nil {
		t.Fatal(err)
	}

	if layout.FeedAngles {
		t.Error("feed angles should be omitted with station rotation disabled")
	}
	for _, sl := range layout.Stations {
		if sl.AngleDeg != rot.ReferenceAngle() {
			t.Errorf("station %s angle = %v, want reference angle %v", sl.Label, sl.AngleDeg, rot.ReferenceAngle())
		}
		for i, off := range sl.Offsets {
			if off != layout.Stations[0].Offsets[i] {
				t.Errorf("station %s offset %d = %+v differs from %+v", sl.Label, i, off, layout.Stations[0].Offsets[i])
			}
		}
	}
}

// With antenna rotation disabled, all stations share the unrotated template
// while per-station angles are still resolved.
func TestGenerateNoAntennaRotation(t *testing.T) {
	arr, tmpl, rot := testInputs(t)

	layout, err := Generate(arr, tmpl, rot, GenerateOptions{NoAntennaRotation: true})
	if err != nil {
		t.Fatal(err)
	}

	for _, sl := range layout.Stations {
		for i, off := range sl.Offsets {
			if off != tmpl[i] {
				t.Errorf("station %s offset %d = %+v, want unrotated template %+v", sl.Label, i, off, tmpl[i])
			}
		}
	}

	// Absolute positions still differ between stations.
	a := layout.Stations[0].Antennas()[0]
	b := layout.Stations[1].Antennas()[0]
	if a == b {
		t.Error("different stations should have different absolute antenna positions")
	}
}

func TestGenerateMissingRotation(t *testing.T) {
	arr, tmpl, rot := testInputs(t)
	arr.Stations = append(arr.Stations, Station{Label: "X0-0", East: 1, North: 1})

	if _, err := Generate(arr, tmpl, rot, GenerateOptions{}); err == nil {
		t.Fatal("station without rotation angle should fail generation")
	}

	// Unless station rotation is disabled, in which case the table entry
	// is never consulted.
	if _, err := Generate(arr, tmpl, rot, GenerateOptions{NoStationRotation: true}); err != nil {
		t.Fatalf("no-rotation generation should not need table entries: %v", err)
	}
}

func TestGenerateDoesNotMutateTemplate(t *testing.T) {
	arr, tmpl, rot := testInputs(t)
	orig := tmpl.Clone()

	if _, err := Generate(arr, tmpl, rot, GenerateOptions{}); err != nil {
		t.Fatal(err)
	}
	for i := range tmpl {
		if tmpl[i] != orig[i] {
			t.Errorf("template mutated at %d: %+v -> %+v", i, orig[i], tmpl[i])
		}
	}
}
