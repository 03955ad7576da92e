package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/fracture/pkg/geom"
)

func testBounds() geom.Box {
	return geom.Box{
		Min: geom.Vec3{X: -2, Y: -2, Z: -2},
		Max: geom.Vec3{X: 2, Y: 2, Z: 2},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Scene
		errPart string
		seedID  int
	}{
		{
			name: "negative padding",
			build: func() *Scene {
				s := New()
				s.Bounds = testBounds()
				s.Padding = -1
				s.AddSeed(geom.Vec3{}, nil)
				return s
			},
			errPart: "non-negative",
			seedID:  -1,
		},
		{
			name: "degenerate bounds",
			build: func() *Scene {
				s := New()
				s.Padding = 0
				s.Bounds = geom.Box{Min: geom.Vec3{}, Max: geom.Vec3{X: 1, Y: 1}}
				s.AddSeed(geom.Vec3{X: 0.5, Y: 0.5}, nil)
				return s
			},
			errPart: "no positive extent",
			seedID:  -1,
		},
		{
			name: "non-finite seed",
			build: func() *Scene {
				s := New()
				s.Bounds = testBounds()
				s.AddSeed(geom.Vec3{X: math.NaN()}, nil)
				return s
			},
			errPart: "non-finite",
			seedID:  0,
		},
		{
			name: "coincident seeds",
			build: func() *Scene {
				s := New()
				s.Bounds = testBounds()
				s.AddSeed(geom.Vec3{X: 1}, nil)
				s.AddSeed(geom.Vec3{X: 1}, nil)
				return s
			},
			errPart: "coincides",
			seedID:  1,
		},
		{
			name: "seed outside padded box",
			build: func() *Scene {
				s := New()
				s.Bounds = testBounds()
				s.Padding = 0.5
				s.AddSeed(geom.Vec3{X: 10}, nil)
				return s
			},
			errPart: "outside the padded",
			seedID:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, _ := Validate(tt.build())
			if len(errs) == 0 {
				t.Fatal("expected a validation error")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e.Message, tt.errPart) {
					found = true
					if e.SeedID != tt.seedID {
						t.Errorf("SeedID = %d, want %d", e.SeedID, tt.seedID)
					}
				}
			}
			if !found {
				t.Errorf("no error containing %q in %v", tt.errPart, errs)
			}
		})
	}
}

func TestValidateCleanScene(t *testing.T) {
	s := New()
	s.Bounds = testBounds()
	s.AddSeed(geom.Vec3{X: -1}, nil)
	s.AddSeed(geom.Vec3{X: 1}, nil)

	errs, warnings := Validate(s)
	if len(errs) != 0 {
		t.Errorf("errors = %v, want none", errs)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestValidateWarnsSeedInPaddingOnly(t *testing.T) {
	s := New()
	s.Bounds = testBounds()
	s.Padding = 1
	s.AddSeed(geom.Vec3{X: 2.5}, nil) // inside padded box, outside base bounds
	s.AddSeed(geom.Vec3{}, nil)

	errs, warnings := Validate(s)
	if len(errs) != 0 {
		t.Fatalf("errors = %v, want none", errs)
	}
	if len(warnings) != 1 || warnings[0].SeedID != 0 {
		t.Errorf("warnings = %v, want one for seed 0", warnings)
	}
}

func TestValidateWarnsOnScale(t *testing.T) {
	s := New()
	s.Bounds = geom.Box{
		Min: geom.Vec3{X: -100, Y: -100, Z: -100},
		Max: geom.Vec3{X: 100, Y: 100, Z: 100},
	}
	s.Append(Random(RandomSpec{Count: MaxAdvisedSeeds + 1, Bounds: s.Bounds, RNGSeed: 3}))

	_, warnings := Validate(s)
	found := false
	for _, w := range warnings {
		if strings.Contains(w.Message, "bisector cuts") {
			found = true
		}
	}
	if !found {
		t.Errorf("no scale warning in %v", warnings)
	}
}

func TestTessellateBlocksOnError(t *testing.T) {
	s := New()
	s.Bounds = testBounds()
	s.AddSeed(geom.Vec3{X: 1}, nil)
	s.AddSeed(geom.Vec3{X: 1}, nil)

	cells, _, err := s.Tessellate()
	if err == nil {
		t.Fatal("expected an error for coincident seeds")
	}
	if cells != nil {
		t.Errorf("cells = %v, want nil on error", cells)
	}
}

func TestTessellateRuns(t *testing.T) {
	s := New()
	s.Bounds = testBounds()
	s.AddSeed(geom.Vec3{X: -1}, nil)
	s.AddSeed(geom.Vec3{X: 1}, nil)

	cells, warnings, err := s.Tessellate()
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if len(cells) != 2 {
		t.Errorf("cells = %d, want 2", len(cells))
	}
}

func TestFitBounds(t *testing.T) {
	s := New()
	s.AddSeed(geom.Vec3{X: -1, Y: 2, Z: 0}, nil)
	s.AddSeed(geom.Vec3{X: 3, Y: -0.5, Z: 1}, nil)
	s.FitBounds()

	want := geom.Box{
		Min: geom.Vec3{X: -1, Y: -0.5, Z: 0},
		Max: geom.Vec3{X: 3, Y: 2, Z: 1},
	}
	if s.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", s.Bounds, want)
	}

	empty := New()
	empty.FitBounds()
	if empty.Bounds != (geom.Box{}) {
		t.Errorf("empty FitBounds set bounds %+v", empty.Bounds)
	}
}
