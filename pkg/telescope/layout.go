package telescope

// Template is the shared antenna layout of the reference station: antenna
// offsets in metres from the station origin. Every station's antenna
// arrangement is this template, optionally rotated by the station's
// relative angle.
type Template []Point

// Clone returns an independent copy of the template.
func (t Template) Clone() Template {
	out := make(Template, len(t))
	copy(out, t)
	return out
}

// StationLayout is one station in a generated layout: its catalog position,
// the rotation that was applied, and the resulting antenna offsets.
type StationLayout struct {
	Label string  `json:"label"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
	Up    float64 `json:"up"`

	// AngleDeg is the absolute rotation used for this station, in degrees
	// East of North. With station rotation disabled this is the reference
	// station's angle for every station.
	AngleDeg float64 `json:"angle_deg"`

	// FeedAngleDeg is the counter-clockwise feed/element rotation,
	// meaningful only when the owning Layout has FeedAngles set.
	FeedAngleDeg float64 `json:"feed_angle_deg,omitempty"`

	// Offsets are the antenna positions relative to the station origin,
	// after any rotation has been applied.
	Offsets []Point `json:"offsets"`
}

// Antennas returns the absolute antenna positions: each offset translated
// by the station's tangent-plane position.
func (s StationLayout) Antennas() []Point {
	origin := Point{X: s.East, Y: s.North}
	out := make([]Point, len(s.Offsets))
	for i, p := range s.Offsets {
		out[i] = p.Add(origin)
	}
	return out
}

// Layout is the generated array description: the ordered stations of one
// telescope configuration with their rotated antenna offsets. It is the
// final output of [Generate] and immutable from then on.
type Layout struct {
	Telescope  Telescope       `json:"telescope"`
	Center     Geodetic        `json:"center"`
	FeedAngles bool            `json:"feed_angles"`
	Stations   []StationLayout `json:"stations"`
}

// StationCount returns the number of stations in the layout.
func (l *Layout) StationCount() int {
	return len(l.Stations)
}

// AntennaCount returns the number of antennas per station, which is the
// template size and identical for every station.
func (l *Layout) AntennaCount() int {
	if len(l.Stations) == 0 {
		return 0
	}
	return len(l.Stations[0].Offsets)
}

// Station returns the station layout with the given label, or nil.
func (l *Layout) Station(label string) *StationLayout {
	for i := range l.Stations {
		if l.Stations[i].Label == label {
			return &l.Stations[i]
		}
	}
	return nil
}
