package transmission

import (
	"fmt"

	"github.com/matzehuels/drivetrain/pkg/errors"
)

// Validate checks the structural invariants the editing layer must uphold:
// unique valid ids, non-empty stages, known kinds, at most one selected
// variant per stage and non-negative spacer lengths.
//
// The layout engine does not require Validate to pass (it clamps whatever it
// is given), but hosts should reject definitions that fail it.
func Validate(elems []Element) error {
	seen := make(map[string]bool)
	claim := func(id string) error {
		if err := errors.ValidateID(id); err != nil {
			return err
		}
		if seen[id] {
			return errors.New(errors.ErrCodeInvalidElement, "duplicate id %q", id)
		}
		seen[id] = true
		return nil
	}

	for i, e := range elems {
		switch e.Type {
		case ElementStage:
			if e.Stage == nil {
				return errors.New(errors.ErrCodeInvalidElement, "element %d: stage body missing", i)
			}
			if err := validateStage(e.Stage, claim); err != nil {
				return errors.Annotate(err, "element %d", i)
			}
		case ElementSpacer:
			if e.Spacer == nil {
				return errors.New(errors.ErrCodeInvalidElement, "element %d: spacer body missing", i)
			}
			if err := claim(e.Spacer.ID); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidElement, err, "element %d", i)
			}
			if e.Spacer.Length < 0 {
				return errors.New(errors.ErrCodeInvalidElement, "element %d: spacer %q has negative length", i, e.Spacer.ID)
			}
		default:
			return errors.New(errors.ErrCodeInvalidElement, "element %d: unknown type %q", i, e.Type)
		}
	}
	return nil
}

func validateStage(s *Stage, claim func(string) error) error {
	if err := claim(s.ID); err != nil {
		return err
	}
	if len(s.Variants) == 0 {
		return errors.New(errors.ErrCodeInvalidElement, "stage %q has no variants", s.ID)
	}
	selected := 0
	for _, v := range s.Variants {
		if err := claim(v.ID); err != nil {
			return err
		}
		if !v.Kind.Valid() {
			return errors.New(errors.ErrCodeInvalidKind, "variant %q has unknown kind", v.ID)
		}
		if v.Selected {
			selected++
		}
	}
	if selected > 1 {
		return errors.New(errors.ErrCodeInvalidElement, "stage %q has %d selected variants", s.ID, selected)
	}
	if s.Turn != DirNone && !s.Turn.Valid() {
		return errors.New(errors.ErrCodeInvalidElement, "stage %q has invalid turn", s.ID)
	}
	if len(s.Variants) > 1 {
		for _, v := range s.Variants {
			if !v.Kind.IsParallel() {
				return errors.New(errors.ErrCodeInvalidElement,
					"stage %q: alternative variants must be parallel-axis kinds, got %s", s.ID, v.Kind)
			}
		}
	}
	return nil
}

// Describe returns a short human-readable label for a variant, e.g. "gear 20/60".
func Describe(v Variant) string {
	if v.Label != "" {
		return v.Label
	}
	switch v.Kind {
	case KindBelt:
		return fmt.Sprintf("%s %g/%g", v.Kind, v.Inputs.D1, v.Inputs.D2)
	case KindToothedBelt:
		if v.Inputs.D1 > 0 || v.Inputs.D2 > 0 {
			return fmt.Sprintf("%s %g/%g", v.Kind, v.Inputs.D1, v.Inputs.D2)
		}
	}
	return fmt.Sprintf("%s %d/%d", v.Kind, v.Inputs.Z1, v.Inputs.Z2)
}
