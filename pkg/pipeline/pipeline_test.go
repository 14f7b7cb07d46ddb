package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/skao-tools/arraymodel/pkg/cache"
	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// fakeProvider serves a fixed array and counts lookups.
type fakeProvider struct {
	calls int
}

func (p *fakeProvider) Array(ctx context.Context, t telescope.Telescope) (*telescope.Array, error) {
	p.calls++
	return &telescope.Array{
		Telescope: t,
		Center:    telescope.Geodetic{Lon: 116.7, Lat: -26.9},
		Stations: []telescope.Station{
			{Label: "S8-1", East: 10, North: -20, Up: 1.5},
			{Label: "E1-1", East: 300, North: 75.5, Up: -0.8},
		},
	}, nil
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fixtureOptions(t *testing.T, p *fakeProvider) Options {
	t.Helper()
	return Options{
		Telescope: telescope.AA0_5,
		Provider:  p,
		TemplatePath: writeFixture(t, "template.dat", `# antenna template
1.5, 0.0
0.0, 1.5
-1.5, 0.0
`),
		RotationsPath: writeFixture(t, "coords.dat", `label, east, north, up, rotation
S8-1, 10.0, -20.0, 1.5, 251.3
E1-1, 300.0, 75.5, -0.8, 101.3
`),
		OutputDir: filepath.Join(t.TempDir(), "model"),
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{FormatModel, FormatJSON, FormatSVG, FormatPNG}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	err := ValidateFormat("pdf")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %q, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Telescope: telescope.AA1, Provider: &fakeProvider{}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", opts.OutputDir, DefaultOutputDir)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatModel {
		t.Errorf("Formats = %v, want [model]", opts.Formats)
	}
	if opts.TemplatePath != DefaultTemplatePath || opts.RotationsPath != DefaultRotationsPath {
		t.Errorf("data paths = %q, %q", opts.TemplatePath, opts.RotationsPath)
	}
	if opts.Logger == nil {
		t.Error("logger not defaulted")
	}
}

func TestOptionsRequireProvider(t *testing.T) {
	opts := Options{Telescope: telescope.AA1}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestExecute(t *testing.T) {
	p := &fakeProvider{}
	opts := fixtureOptions(t, p)
	opts.Formats = []string{FormatModel, FormatJSON, FormatSVG}

	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats.StationCount != 2 || result.Stats.AntennaCount != 3 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.ModelDir != opts.OutputDir {
		t.Errorf("ModelDir = %q, want %q", result.ModelDir, opts.OutputDir)
	}
	if _, err := os.Stat(filepath.Join(opts.OutputDir, "position.txt")); err != nil {
		t.Errorf("model directory not written: %v", err)
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact missing")
	}
	if len(result.Artifacts[FormatSVG]) == 0 {
		t.Error("svg artifact missing")
	}
	if !result.Layout.FeedAngles {
		t.Error("default run should carry feed angles")
	}
}

func TestExecuteNoRotation(t *testing.T) {
	p := &fakeProvider{}
	opts := fixtureOptions(t, p)
	opts.NoStationRotation = true

	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Layout.FeedAngles {
		t.Error("no-rotation run should not carry feed angles")
	}
	// All stations share the reference orientation, so offsets are
	// identical across stations.
	s0, s1 := result.Layout.Stations[0], result.Layout.Stations[1]
	for i := range s0.Offsets {
		if s0.Offsets[i] != s1.Offsets[i] {
			t.Errorf("offset %d differs: %+v vs %+v", i, s0.Offsets[i], s1.Offsets[i])
		}
	}
}

func TestFetchUsesCache(t *testing.T) {
	p := &fakeProvider{}
	opts := fixtureOptions(t, p)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	if _, hit, err := r.FetchWithCacheInfo(context.Background(), opts); err != nil || hit {
		t.Fatalf("first fetch: hit=%v err=%v", hit, err)
	}
	arr, hit, err := r.FetchWithCacheInfo(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second fetch should hit the cache")
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
	if arr.Telescope != telescope.AA0_5 {
		t.Errorf("cached array telescope = %v", arr.Telescope)
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	if _, hit, err := r.FetchWithCacheInfo(context.Background(), opts); err != nil || hit {
		t.Fatalf("refresh fetch: hit=%v err=%v", hit, err)
	}
	if p.calls != 2 {
		t.Errorf("provider called %d times after refresh, want 2", p.calls)
	}
}

func TestGenerateMissingRotationFails(t *testing.T) {
	p := &fakeProvider{}
	opts := fixtureOptions(t, p)
	opts.RotationsPath = writeFixture(t, "coords.dat", `label, east, north, up, rotation
S8-1, 10.0, -20.0, 1.5, 251.3
`)

	r := NewRunner(nil, nil, nil)
	arr, err := r.Fetch(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Generate(arr, opts)
	if !errors.Is(err, errors.ErrCodeInvalidStation) {
		t.Errorf("error code = %q, want INVALID_STATION", errors.GetCode(err))
	}
}
