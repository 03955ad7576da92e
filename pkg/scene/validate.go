package scene

import (
	"fmt"

	"github.com/chazu/fracture/pkg/geom"
)

// MaxAdvisedSeeds is the seed count above which the O(n²) driver is
// flagged as a performance warning.
const MaxAdvisedSeeds = 500

// ValidationError is a blocking problem with a scene: tessellating it
// would produce degenerate or meaningless geometry.
type ValidationError struct {
	SeedID  int // -1 when the error is not tied to one seed
	Message string
}

func (e ValidationError) Error() string {
	if e.SeedID >= 0 {
		return fmt.Sprintf("%s (seed %d)", e.Message, e.SeedID)
	}
	return e.Message
}

// ValidationWarning is an advisory problem: the tessellation will run but
// the result may not be what the author intended.
type ValidationWarning struct {
	SeedID  int
	Message string
}

// Validate runs every check tier over the scene. Errors block
// tessellation; warnings do not.
func Validate(s *Scene) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateBounds(s)...)
	errs = append(errs, validateSeedCoordinates(s)...)
	errs = append(errs, validateDistinctSeeds(s)...)
	errs = append(errs, validateContainment(s)...)

	warnings = append(warnings, adviseBaseBounds(s)...)
	warnings = append(warnings, adviseScale(s)...)

	return errs, warnings
}

// validateBounds checks the box and padding are usable.
func validateBounds(s *Scene) []ValidationError {
	var errs []ValidationError
	if s.Padding < 0 {
		errs = append(errs, ValidationError{
			SeedID:  -1,
			Message: fmt.Sprintf("padding is %.4f, must be non-negative", s.Padding),
		})
	}
	if len(s.Seeds) > 0 && s.Bounds.Expand(s.Padding).IsDegenerate() {
		errs = append(errs, ValidationError{
			SeedID:  -1,
			Message: "bounding box has no positive extent on some axis",
		})
	}
	return errs
}

// validateSeedCoordinates rejects NaN or infinite seed positions, which
// would silently poison every downstream distance comparison.
func validateSeedCoordinates(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, sd := range s.Seeds {
		if !sd.Position.IsFinite() {
			errs = append(errs, ValidationError{
				SeedID:  sd.ID,
				Message: "seed position has a non-finite coordinate",
			})
		}
	}
	return errs
}

// validateDistinctSeeds rejects coincident seeds. A coincident pair
// produces a degenerate zero-normal bisector plane that clips away far
// more than intended, so it is caught here instead of in the core.
func validateDistinctSeeds(s *Scene) []ValidationError {
	var errs []ValidationError
	for i := range s.Seeds {
		for j := i + 1; j < len(s.Seeds); j++ {
			if s.Seeds[i].Position.Equals(s.Seeds[j].Position) {
				errs = append(errs, ValidationError{
					SeedID: s.Seeds[j].ID,
					Message: fmt.Sprintf("seed coincides with seed %d; bisector plane is degenerate",
						s.Seeds[i].ID),
				})
			}
		}
	}
	return errs
}

// validateContainment checks every seed lies strictly inside the padded
// box. Clipping only produces closed cells when the initial box contains
// the seed it is carved for.
func validateContainment(s *Scene) []ValidationError {
	var errs []ValidationError
	if len(s.Seeds) == 0 {
		return nil
	}
	padded := s.Bounds.Expand(s.Padding)
	for _, sd := range s.Seeds {
		if !strictlyInside(padded, sd.Position) {
			errs = append(errs, ValidationError{
				SeedID:  sd.ID,
				Message: "seed lies outside the padded bounding box",
			})
		}
	}
	return errs
}

func strictlyInside(b geom.Box, p geom.Vec3) bool {
	return p.X > b.Min.X && p.X < b.Max.X &&
		p.Y > b.Min.Y && p.Y < b.Max.Y &&
		p.Z > b.Min.Z && p.Z < b.Max.Z
}

// adviseBaseBounds flags seeds outside the unpadded bounds. They are
// covered by the padding but usually indicate mismatched inputs.
func adviseBaseBounds(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning
	for _, sd := range s.Seeds {
		if !s.Bounds.Contains(sd.Position) && sd.Position.IsFinite() {
			warnings = append(warnings, ValidationWarning{
				SeedID:  sd.ID,
				Message: "seed lies outside the base bounds; only the padding covers it",
			})
		}
	}
	return warnings
}

// adviseScale flags seed counts beyond the intended problem size.
func adviseScale(s *Scene) []ValidationWarning {
	if len(s.Seeds) <= MaxAdvisedSeeds {
		return nil
	}
	n := len(s.Seeds)
	return []ValidationWarning{{
		SeedID: -1,
		Message: fmt.Sprintf("%d seeds means ~%.0f bisector cuts; expect slow tessellation",
			n, float64(n)*float64(n-1)),
	}}
}
