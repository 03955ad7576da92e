package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/fracture/pkg/geom"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
	}{
		{
			name:   "keyword becomes string literal",
			input:  `(lattice :nx 3)`,
			output: `(lattice "__kw_nx" 3)`,
		},
		{
			name:   "keyword keeps hyphen",
			input:  `(random :rng-seed 42)`,
			output: `(random "__kw_rng-seed" 42)`,
		},
		{
			name:   "assignment operator untouched",
			input:  `(def x := 5)`,
			output: `(def x := 5)`,
		},
		{
			name:   "kebab identifier to underscore",
			input:  `(fit-bounds)`,
			output: `(fit_bounds)`,
		},
		{
			name:   "minus operator untouched",
			input:  `(vec3 (- 0 1) 2 3)`,
			output: `(vec3 (- 0 1) 2 3)`,
		},
		{
			name:   "negative literal untouched",
			input:  `(vec3 -10 2 3)`,
			output: `(vec3 -10 2 3)`,
		},
		{
			name:   "semicolon comment",
			input:  ";; a comment\n(padding 1)",
			output: "// a comment\n(padding 1)",
		},
		{
			name:   "string literal preserved",
			input:  `(seed (vec3 0 0 0) :tag "left-side")`,
			output: `(seed (vec3 0 0 0) "__kw_tag" "left-side")`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.output {
				t.Errorf("preprocessSource(%q)\n got  %q\n want %q", tt.input, got, tt.output)
			}
		})
	}
}

func TestEvaluateEmptySource(t *testing.T) {
	sc, evalErrs, err := NewEngine().Evaluate("   \n\t ")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if sc == nil || len(sc.Seeds) != 0 {
		t.Errorf("empty source scene = %+v", sc)
	}
}

func TestEvaluateBasicScene(t *testing.T) {
	source := `
;; two seeds in a small box
(bounds (vec3 -2 -2 -2) (vec3 2 2 2))
(padding 0.25)
(seed (vec3 -1 0 0) :tag "left")
(seed (vec3 1 0 0))
`
	sc, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	if len(sc.Seeds) != 2 {
		t.Fatalf("seeds = %d, want 2", len(sc.Seeds))
	}
	if !sc.Seeds[0].Position.Equals(geom.Vec3{X: -1}) {
		t.Errorf("seed 0 = %+v", sc.Seeds[0].Position)
	}
	if sc.Seeds[0].Tags["tag"] != "left" {
		t.Errorf("seed 0 tags = %v", sc.Seeds[0].Tags)
	}
	if sc.Seeds[1].Tags != nil {
		t.Errorf("seed 1 tags = %v, want none", sc.Seeds[1].Tags)
	}
	if sc.Padding != 0.25 {
		t.Errorf("padding = %v, want 0.25", sc.Padding)
	}
	want := geom.Box{
		Min: geom.Vec3{X: -2, Y: -2, Z: -2},
		Max: geom.Vec3{X: 2, Y: 2, Z: 2},
	}
	if sc.Bounds != want {
		t.Errorf("bounds = %+v, want %+v", sc.Bounds, want)
	}
}

func TestEvaluateGenerators(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantSeeds int
	}{
		{
			name: "lattice with explicit dims",
			source: `(bounds (vec3 0 0 0) (vec3 6 6 6))
(lattice :nx 3 :ny 2 :nz 1)`,
			wantSeeds: 6,
		},
		{
			name: "lattice defaults",
			source: `(bounds (vec3 0 0 0) (vec3 4 4 4))
(lattice)`,
			wantSeeds: 8,
		},
		{
			name:      "spiral",
			source:    `(spiral :count 15 :turns 2 :radius 3 :height 6)`,
			wantSeeds: 15,
		},
		{
			name: "random",
			source: `(bounds (vec3 -5 -5 -5) (vec3 5 5 5))
(random :count 12 :rng-seed 9)`,
			wantSeeds: 12,
		},
		{
			name: "clusters",
			source: `(bounds (vec3 -5 -5 -5) (vec3 5 5 5))
(clusters :count 2 :per-cluster 5 :stddev 0.3 :rng-seed 4)`,
			wantSeeds: 10,
		},
		{
			name: "generators accumulate",
			source: `(bounds (vec3 -5 -5 -5) (vec3 5 5 5))
(random :count 4 :rng-seed 1)
(spiral :count 6 :turns 1 :radius 2 :height 4)`,
			wantSeeds: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if len(evalErrs) != 0 {
				t.Fatalf("eval errors: %v", evalErrs)
			}
			if len(sc.Seeds) != tt.wantSeeds {
				t.Errorf("seeds = %d, want %d", len(sc.Seeds), tt.wantSeeds)
			}
			for i, sd := range sc.Seeds {
				if sd.ID != i {
					t.Errorf("seed %d has ID %d", i, sd.ID)
				}
			}
		})
	}
}

func TestEvaluateFitBounds(t *testing.T) {
	source := `
(seed (vec3 -3 0 0))
(seed (vec3 3 1 2))
(fit-bounds)
`
	sc, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	want := geom.Box{
		Min: geom.Vec3{X: -3, Y: 0, Z: 0},
		Max: geom.Vec3{X: 3, Y: 1, Z: 2},
	}
	if sc.Bounds != want {
		t.Errorf("bounds = %+v, want %+v", sc.Bounds, want)
	}
}

func TestEvaluateNegativeCoordinates(t *testing.T) {
	sc, evalErrs, err := NewEngine().Evaluate(`(seed (vec3 -1.5 -2 -0.25))`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	got := sc.Seeds[0].Position
	if math.Abs(got.X+1.5) > 1e-12 || math.Abs(got.Y+2) > 1e-12 || math.Abs(got.Z+0.25) > 1e-12 {
		t.Errorf("seed = %+v", got)
	}
}

func TestEvaluateBadArguments(t *testing.T) {
	tests := []struct {
		name   string
		source string
		part   string
	}{
		{"vec3 arity", `(vec3 1 2)`, "vec3"},
		{"vec3 type", `(vec3 "a" 2 3)`, "expected number"},
		{"bounds type", `(bounds 1 2)`, "expected vec3"},
		{"seed missing position", `(seed)`, "vec3 position"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("fatal error: %v", err)
			}
			if sc != nil {
				t.Error("scene returned despite eval error")
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected an eval error")
			}
			found := false
			for _, e := range evalErrs {
				if strings.Contains(e.Message, tt.part) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error containing %q in %v", tt.part, evalErrs)
			}
		})
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	sc, evalErrs, err := NewEngine().Evaluate(`(seed (vec3 0 0 0`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if sc != nil {
		t.Error("scene returned despite syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error")
	}
}

func TestEvalErrorFormat(t *testing.T) {
	withLine := EvalError{Line: 3, Message: "unexpected token"}
	if got := withLine.Error(); got != "line 3: unexpected token" {
		t.Errorf("Error() = %q", got)
	}
	plain := EvalError{Message: "boom"}
	if got := plain.Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantPart string
	}{
		{"with line prefix", "Error on line 7: unexpected EOF", 7, "unexpected EOF"},
		{"short form", "line 2: bad token", 2, "bad token"},
		{"no line info", "something broke", 0, "something broke"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("errors = %d, want 1", len(errs))
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if !strings.Contains(errs[0].Message, tt.wantPart) {
				t.Errorf("Message = %q, want substring %q", errs[0].Message, tt.wantPart)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
