package transmission

import "fmt"

// Kind identifies the mechanical type of a module variant. The set is closed:
// every Kind has exactly one geometry provider in package symbol.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindGear
	KindBelt
	KindChain
	KindToothedBelt
	KindBevel
	KindWorm
	KindPlanetary
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{KindGear, KindBelt, KindChain, KindToothedBelt, KindBevel, KindWorm, KindPlanetary}

var kindNames = map[Kind]string{
	KindGear:        "gear",
	KindBelt:        "belt",
	KindChain:       "chain",
	KindToothedBelt: "toothed_belt",
	KindBevel:       "bevel",
	KindWorm:        "worm",
	KindPlanetary:   "planetary",
}

// Class groups kinds by how they move the drafting cursor.
type Class uint8

const (
	// ClassParallel kinds keep the flow axis and may reverse it.
	ClassParallel Class = iota
	// ClassTurning kinds turn the flow by 90 degrees.
	ClassTurning
	// ClassCoaxial kinds keep input and output on one axis.
	ClassCoaxial
)

// String returns the canonical lowercase name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether k is one of the seven known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Class returns the cursor-movement class of the kind.
func (k Kind) Class() Class {
	switch k {
	case KindBevel, KindWorm:
		return ClassTurning
	case KindPlanetary:
		return ClassCoaxial
	default:
		return ClassParallel
	}
}

// IsParallel is shorthand for k.Class() == ClassParallel.
func (k Kind) IsParallel() bool { return k.Valid() && k.Class() == ClassParallel }

// ParseKind converts a name such as "gear" or "toothed_belt" into a Kind.
// A few common aliases are accepted.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "gear", "spur", "helical", "cylindrical":
		return KindGear, nil
	case "belt", "v_belt", "flat_belt":
		return KindBelt, nil
	case "chain":
		return KindChain, nil
	case "toothed_belt", "toothed-belt", "timing_belt":
		return KindToothedBelt, nil
	case "bevel":
		return KindBevel, nil
	case "worm":
		return KindWorm, nil
	case "planetary", "planet":
		return KindPlanetary, nil
	}
	return KindUnknown, fmt.Errorf("unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
