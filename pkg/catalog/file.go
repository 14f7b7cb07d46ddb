package catalog

import (
	"context"

	"github.com/skao-tools/arraymodel/pkg/datafile"
	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// FileProvider serves station catalogs from a local array-coordinates file
// instead of the catalog service. The file must carry east/north/up columns
// and a subarray column marking the stage each station first appears in;
// because the assembly stages are nested, a configuration contains every
// station whose stage is at or below it.
type FileProvider struct {
	path   string
	center telescope.Geodetic
}

// NewFileProvider creates an offline provider reading from path. The array
// center is not part of the coordinates file, so it is supplied explicitly
// (typically from configuration).
func NewFileProvider(path string, center telescope.Geodetic) *FileProvider {
	return &FileProvider{path: path, center: center}
}

// Array reads the coordinates file and selects the stations belonging to
// the requested configuration, preserving file order.
func (p *FileProvider) Array(ctx context.Context, t telescope.Telescope) (*telescope.Array, error) {
	coords, err := datafile.ReadArrayCoords(p.path)
	if err != nil {
		return nil, err
	}

	arr := &telescope.Array{
		Telescope: t,
		Center:    p.center,
	}
	for _, row := range coords.Rows {
		if !row.HasStage {
			return nil, errors.New(errors.ErrCodeInvalidData,
				"%s: station %s has no subarray stage; offline catalog needs a subarray column", p.path, row.Label)
		}
		if t.Contains(row.Stage) {
			arr.Stations = append(arr.Stations, telescope.Station{
				Label: row.Label,
				East:  row.East,
				North: row.North,
				Up:    row.Up,
			})
		}
	}
	if len(arr.Stations) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "%s: no stations for %s", p.path, t)
	}
	return arr, nil
}

// Ensure FileProvider implements Provider.
var _ Provider = (*FileProvider)(nil)
