package telescope

// GenerateOptions controls the two rotation switches of the layout
// generator. Both default to false, which produces the fully rotated model.
type GenerateOptions struct {
	// NoStationRotation substitutes every station's rotation angle with the
	// reference station's, making all stations geometrically identical to
	// S8-1. Station positions are kept as fetched from the catalog.
	NoStationRotation bool

	// NoAntennaRotation translates the unrotated template for every
	// station, so all stations share the exact same antenna offsets while
	// their positions and feed angles still differ.
	NoAntennaRotation bool
}

// Generate combines the station catalog, the reference antenna template and
// the rotation table into a layout: for each station the template is
// rotated by the station's angle relative to S8-1 (unless disabled) and the
// station carries the feed angle derived from its absolute rotation.
//
// The transform is a single pass over immutable inputs; the returned Layout
// shares no memory with them. Stations keep catalog order. A station absent
// from the rotation table is an INVALID_STATION error.
func Generate(arr *Array, tmpl Template, rot *RotationTable, opts GenerateOptions) (*Layout, error) {
	layout := &Layout{
		Telescope:  arr.Telescope,
		Center:     arr.Center,
		FeedAngles: !opts.NoStationRotation && !opts.NoAntennaRotation,
		Stations:   make([]StationLayout, 0, len(arr.Stations)),
	}

	for _, st := range arr.Stations {
		angleDeg, rad, err := stationAngles(st.Label, rot, opts)
		if err != nil {
			return nil, err
		}

		offsets := tmpl.Clone()
		if !opts.NoAntennaRotation && rad != 0 {
			for i, p := range offsets {
				offsets[i] = p.Rotate(rad)
			}
		}

		sl := StationLayout{
			Label:    st.Label,
			East:     st.East,
			North:    st.North,
			Up:       st.Up,
			AngleDeg: angleDeg,
			Offsets:  []Point(offsets),
		}
		if layout.FeedAngles {
			sl.FeedAngleDeg = FeedAngle(angleDeg)
		}
		layout.Stations = append(layout.Stations, sl)
	}

	return layout, nil
}

// stationAngles resolves the absolute angle (degrees) and the relative
// rotation (radians) to apply for one station. With station rotation
// disabled every station takes the reference orientation, i.e. zero
// relative rotation.
func stationAngles(label string, rot *RotationTable, opts GenerateOptions) (float64, float64, error) {
	if opts.NoStationRotation {
		return rot.ReferenceAngle(), 0, nil
	}
	angleDeg, err := rot.Angle(label)
	if err != nil {
		return 0, 0, err
	}
	rad, err := rot.Relative(label)
	if err != nil {
		return 0, 0, err
	}
	return angleDeg, rad, nil
}
