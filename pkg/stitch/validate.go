package stitch

import (
	"errors"
	"fmt"

	"github.com/Faultbox/patchstitch/pkg/math"
)

// Patch validation errors.
var (
	ErrNaNUV           = errors.New("patch has NaN UV")
	ErrNotAxisAligned  = errors.New("patch is not axis-aligned in UV space")
	ErrDegeneratePatch = errors.New("patch has zero or negative UV extent")
)

// Validate checks the assumptions the stitcher makes about its input.
// Stitching never fails on bad input; this exists so callers can report why
// an export looks wrong. All problems are returned, joined.
func Validate(patches []Patch) error {
	var errs []error
	for i := range patches {
		if err := validatePatch(&patches[i]); err != nil {
			errs = append(errs, fmt.Errorf("patch %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func validatePatch(p *Patch) error {
	for _, v := range p {
		if math.IsNaN(v.UV) {
			return ErrNaNUV
		}
	}

	if p[0].UV[0] != p[1].UV[0] || p[2].UV[0] != p[3].UV[0] ||
		p[1].UV[1] != p[2].UV[1] || p[0].UV[1] != p[3].UV[1] {
		return ErrNotAxisAligned
	}

	r := p.stitchExtents()
	if r.Width() <= 0 || r.Height() <= 0 {
		return ErrDegeneratePatch
	}
	return nil
}
