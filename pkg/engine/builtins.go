package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/fracture/pkg/geom"
	"github.com/chazu/fracture/pkg/scene"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource transforms scene script source before it reaches
// zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" string literals, so
//     keyword symbols need not be registered as globals.
//  2. Kebab-case to underscore: fit-bounds -> fit_bounds, since zygomys
//     reads a hyphen as the subtraction operator.
//  3. ; line comments become // comments, which zygomys understands.
//
// All three transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy string literals untouched.
		if b[i] == '"' || b[i] == '`' {
			quote := b[i]
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != quote {
				if quote == '"' && b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; comments (and ;; style) to //.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword", preserving := assignment.
		if b[i] == ':' && i+1 < len(b) && b[i+1] != '=' && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, []byte(kwPrefix)...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
			continue
		}
		// Kebab-case identifiers: only when the hyphen sits between
		// identifier characters, never a minus operator.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3 so vectors can flow between builtins.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// kwFloat reads an optional float keyword argument into dst.
func kwFloat(pa kwArgs, name string, dst *float64) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

// kwInt reads an optional integer keyword argument into dst.
func kwInt(pa kwArgs, name string, dst *int) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. The builtins populate the provided Scene during
// evaluation. Source must be preprocessed with preprocessSource first so
// :keyword tokens are recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v geom.Vec3
		for i, dst := range []*float64{&v.X, &v.Y, &v.Z} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
			}
			*dst = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (bounds (vec3 -10 -10 -10) (vec3 10 10 10))
	// -----------------------------------------------------------------------
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("bounds requires min and max vec3 arguments")
		}
		min, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bounds: min: %w", err)
		}
		max, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bounds: max: %w", err)
		}
		sc.Bounds = geom.Box{Min: min, Max: max}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (padding 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("padding", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("padding requires exactly 1 argument")
		}
		p, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("padding: %w", err)
		}
		sc.Padding = p
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (fit-bounds) — derive bounds from the seeds added so far
	// -----------------------------------------------------------------------
	env.AddFunction("fit_bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sc.FitBounds()
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (seed (vec3 0 0 0) :tag "center")
	// -----------------------------------------------------------------------
	env.AddFunction("seed", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("seed requires a vec3 position")
		}
		pos, err := toVec3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("seed: position: %w", err)
		}
		var tags map[string]string
		if v, ok := pa.kw["tag"]; ok {
			tag, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("seed: tag: %w", err)
			}
			tags = map[string]string{"tag": tag}
		}
		sc.AddSeed(pos, tags)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (lattice :nx 3 :ny 3 :nz 3 :jitter 0.1 :rng-seed 42)
	// -----------------------------------------------------------------------
	env.AddFunction("lattice", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := scene.LatticeSpec{NX: 2, NY: 2, NZ: 2, Bounds: sc.Bounds}
		var rngSeed int
		for _, f := range []struct {
			name string
			dst  *int
		}{{"nx", &spec.NX}, {"ny", &spec.NY}, {"nz", &spec.NZ}, {"rng-seed", &rngSeed}} {
			if err := kwInt(pa, f.name, f.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
			}
		}
		if err := kwFloat(pa, "jitter", &spec.Jitter); err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
		}
		spec.RNGSeed = int64(rngSeed)
		sc.Append(scene.Lattice(spec))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (spiral :count 40 :turns 5 :radius 8 :height 10)
	// -----------------------------------------------------------------------
	env.AddFunction("spiral", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := scene.SpiralSpec{Count: 20, Turns: 3, Radius: 5, Height: 10}
		if err := kwInt(pa, "count", &spec.Count); err != nil {
			return zygo.SexpNull, fmt.Errorf("spiral: %w", err)
		}
		for _, f := range []struct {
			name string
			dst  *float64
		}{{"turns", &spec.Turns}, {"radius", &spec.Radius}, {"height", &spec.Height}} {
			if err := kwFloat(pa, f.name, f.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("spiral: %w", err)
			}
		}
		sc.Append(scene.Spiral(spec))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (random :count 20 :rng-seed 1)
	// -----------------------------------------------------------------------
	env.AddFunction("random", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := scene.RandomSpec{Count: 20, Bounds: sc.Bounds}
		var rngSeed int
		if err := kwInt(pa, "count", &spec.Count); err != nil {
			return zygo.SexpNull, fmt.Errorf("random: %w", err)
		}
		if err := kwInt(pa, "rng-seed", &rngSeed); err != nil {
			return zygo.SexpNull, fmt.Errorf("random: %w", err)
		}
		spec.RNGSeed = int64(rngSeed)
		sc.Append(scene.Random(spec))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (clusters :count 3 :per-cluster 8 :stddev 0.5 :rng-seed 7)
	// -----------------------------------------------------------------------
	env.AddFunction("clusters", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := scene.ClustersSpec{Count: 3, PerCluster: 8, Stddev: 1, Bounds: sc.Bounds}
		var rngSeed int
		for _, f := range []struct {
			name string
			dst  *int
		}{{"count", &spec.Count}, {"per-cluster", &spec.PerCluster}, {"rng-seed", &rngSeed}} {
			if err := kwInt(pa, f.name, f.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("clusters: %w", err)
			}
		}
		if err := kwFloat(pa, "stddev", &spec.Stddev); err != nil {
			return zygo.SexpNull, fmt.Errorf("clusters: %w", err)
		}
		spec.RNGSeed = uint64(rngSeed)
		sc.Append(scene.Clusters(spec))
		return zygo.SexpNull, nil
	})
}
